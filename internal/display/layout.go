package display

import "portfolio/internal/content"

// CardLayout picks the card size for the project at index out of total. A
// valid stored hint wins; the repository always writes one. Rows without a
// valid hint (imported outside the repository) fall back to the count: an
// odd total makes the first card large so the two-column grid closes evenly.
func CardLayout(index, total int, hint string) content.Size {
	if size, err := content.ParseSize(hint); err == nil {
		return size
	}
	if index == 0 && total%2 == 1 {
		return content.SizeLarge
	}
	return content.SizeMedium
}
