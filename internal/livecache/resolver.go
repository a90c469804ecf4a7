package livecache

import "portfolio/internal/content"

// SectionReader is satisfied by *Cache[[]content.Section].
type SectionReader interface {
	Read() ([]content.Section, bool)
}

// ResolveSection finds the section stored under key. It reports false when
// the key is absent or no snapshot has loaded yet; it never fills defaults.
func ResolveSection(r SectionReader, key string) (content.Section, bool) {
	sections, ok := r.Read()
	if !ok {
		return content.Section{}, false
	}
	return FindSection(sections, key)
}

func FindSection(sections []content.Section, key string) (content.Section, bool) {
	for _, s := range sections {
		if s.Key == key {
			return s, true
		}
	}
	return content.Section{}, false
}
