// Package editor holds the admin drafts: a last-saved baseline plus a local
// copy, change detection, publish gating and image attachment.
package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"gorm.io/datatypes"

	"portfolio/internal/apperr"
	"portfolio/internal/content"
)

type SectionFields struct {
	Headline string `json:"headline"`
	BodyText string `json:"bodyText"`
	ImageURL string `json:"imageUrl"`
	CTALink  string `json:"ctaLink"`
	CTAText  string `json:"ctaText"`
	// Metadata is the JSON text as edited, which may not parse.
	Metadata string `json:"metadata"`
}

// SectionEdit changes the non-nil fields of a draft.
type SectionEdit struct {
	Headline *string `json:"headline"`
	BodyText *string `json:"bodyText"`
	ImageURL *string `json:"imageUrl"`
	CTALink  *string `json:"ctaLink"`
	CTAText  *string `json:"ctaText"`
	Metadata *string `json:"metadata"`
}

type SectionDraft struct {
	ID    string        `json:"id"`
	Key   string        `json:"sectionId"`
	Saved SectionFields `json:"saved"`
	Draft SectionFields `json:"draft"`
}

func NewSectionDraft(s content.Section) *SectionDraft {
	d := &SectionDraft{}
	d.Rebase(s)
	return d
}

// Rebase resets both baseline and draft to s.
func (d *SectionDraft) Rebase(s content.Section) {
	d.ID = s.ID
	d.Key = s.Key
	d.Saved = sectionFields(s)
	d.Draft = d.Saved
}

func sectionFields(s content.Section) SectionFields {
	return SectionFields{
		Headline: s.Headline,
		BodyText: s.BodyText,
		ImageURL: s.ImageURL,
		CTALink:  s.CTALink,
		CTAText:  s.CTAText,
		Metadata: prettyJSON(s.Metadata),
	}
}

// Apply edits the draft. Metadata edits are refused for sections the page
// reads no metadata from; the draft is left untouched on error.
func (d *SectionDraft) Apply(e SectionEdit) error {
	if e.Metadata != nil && *e.Metadata != d.Draft.Metadata && !HasMetadataSchema(d.Key) {
		return apperr.Validation("section %s has no editable metadata", d.Key)
	}
	set(&d.Draft.Headline, e.Headline)
	set(&d.Draft.BodyText, e.BodyText)
	set(&d.Draft.ImageURL, e.ImageURL)
	set(&d.Draft.CTALink, e.CTALink)
	set(&d.Draft.CTAText, e.CTAText)
	set(&d.Draft.Metadata, e.Metadata)
	return nil
}

func (d *SectionDraft) HasChanges() bool {
	a, b := d.Draft, d.Saved
	return a.Headline != b.Headline ||
		a.BodyText != b.BodyText ||
		a.ImageURL != b.ImageURL ||
		a.CTALink != b.CTALink ||
		a.CTAText != b.CTAText ||
		!SameJSON(a.Metadata, b.Metadata)
}

// MetadataError reports why the metadata draft cannot be saved, or nil.
func (d *SectionDraft) MetadataError() error {
	if !HasMetadataSchema(d.Key) {
		return nil
	}
	return content.ValidateMetadata([]byte(strings.TrimSpace(d.Draft.Metadata)))
}

func (d *SectionDraft) CanPublish() bool {
	return d.HasChanges() && d.MetadataError() == nil
}

// Publish saves the changed fields. On success the baseline advances to the
// stored record; on failure the draft is kept for a retry.
func (d *SectionDraft) Publish(ctx context.Context, store content.SectionStore) (content.Section, error) {
	if !d.HasChanges() {
		return content.Section{}, apperr.Validation("no changes to publish")
	}
	if err := d.MetadataError(); err != nil {
		return content.Section{}, err
	}

	var patch content.SectionPatch
	a, b := d.Draft, d.Saved
	patch.Headline = changed(a.Headline, b.Headline)
	patch.BodyText = changed(a.BodyText, b.BodyText)
	patch.ImageURL = changed(a.ImageURL, b.ImageURL)
	patch.CTALink = changed(a.CTALink, b.CTALink)
	patch.CTAText = changed(a.CTAText, b.CTAText)
	if !SameJSON(a.Metadata, b.Metadata) {
		patch.Metadata = compactJSON(a.Metadata)
	}

	saved, err := store.UpdateSection(ctx, d.ID, patch)
	if err != nil {
		return content.Section{}, err
	}
	d.Rebase(saved)
	return saved, nil
}

func (d *SectionDraft) AttachImage(ctx context.Context, u *Uploader, f File) (string, error) {
	return attach(ctx, u, "sections", f, func(url string) { d.Draft.ImageURL = url })
}

// SameJSON compares two JSON texts by value. Text that does not parse is
// compared literally after trimming.
func SameJSON(a, b string) bool {
	ca, okA := canonicalJSON(a)
	cb, okB := canonicalJSON(b)
	if okA && okB {
		return ca == cb
	}
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}

func canonicalJSON(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = "{}"
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return "", false
	}
	// Map keys marshal sorted.
	out, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(out), true
}

func prettyJSON(raw []byte) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "{}"
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return string(raw)
	}
	return out.String()
}

func compactJSON(s string) datatypes.JSON {
	s = strings.TrimSpace(s)
	if s == "" {
		return datatypes.JSON("{}")
	}
	var out bytes.Buffer
	if err := json.Compact(&out, []byte(s)); err != nil {
		return datatypes.JSON(s)
	}
	return datatypes.JSON(out.Bytes())
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func changed(draft, saved string) *string {
	if draft == saved {
		return nil
	}
	return &draft
}
