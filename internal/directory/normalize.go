package directory

import (
	"github.com/bytedance/sonic"
)

const (
	// UnknownAuthor is substituted when neither author form is present.
	UnknownAuthor = "Unknown"
	// UnknownStatus is substituted when a manifest omits its status.
	UnknownStatus = "unknown"
)

// ParseManifest decodes raw manifest bytes. This is the only step of
// normalization that can fail; a parse failure drops the source entirely.
func ParseManifest(data []byte) (RawManifest, error) {
	var raw RawManifest
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return RawManifest{}, err
	}
	return raw, nil
}

// Normalize maps a raw manifest of either schema version onto the canonical
// Package model. It is pure and never fails: every absent field is filled
// with its stated fallback.
//
// Resolution rules, in order:
//   - keywords preferred over tags for the tag list
//   - displayName preferred over name for display
//   - author.name preferred over author (string) over "Unknown"
func Normalize(raw RawManifest) Package {
	pkg := Package{
		Name:        raw.Name,
		DisplayName: raw.DisplayName,
		Author:      raw.Author.Name,
		Description: raw.Description,
		Version:     raw.Version,
		Status:      raw.Status,
		Icon:        raw.Icon,
		Links:       raw.Links,
	}

	if pkg.DisplayName == "" {
		pkg.DisplayName = raw.Name
	}
	if pkg.Author == "" {
		pkg.Author = UnknownAuthor
	}
	if pkg.Status == "" {
		pkg.Status = UnknownStatus
	}

	// Keywords win outright when present, even over a non-empty tags field.
	switch {
	case len(raw.Keywords) > 0:
		pkg.Tags = append([]string(nil), raw.Keywords...)
	case len(raw.Tags) > 0:
		pkg.Tags = append([]string(nil), raw.Tags...)
	default:
		pkg.Tags = []string{}
	}

	return pkg
}
