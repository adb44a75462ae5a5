package directory

import (
	"net/url"
	"sort"
	"strings"
)

// ViewState is the single source of truth for what the directory displays.
// It is derivable bidirectionally from the URL the browser shows.
type ViewState struct {
	Query   string   `json:"query"`
	Tags    []string `json:"tags"`
	FocusID string   `json:"focus_id,omitempty"`
}

// queryParam is the canonical search parameter; legacyQueryParam is accepted
// on decode for backward compatibility with older shared links.
const (
	queryParam       = "search"
	legacyQueryParam = "q"
	tagsParam        = "tags"
)

// Encode serializes the state to a query-string + fragment suffix, e.g.
// "?search=foo&tags=a,b#my-package". Tags are sorted on encode so the
// representation is canonical regardless of insertion order. An empty state
// encodes to "" and the path alone is used.
func (s ViewState) Encode() string {
	params := url.Values{}

	if q := strings.TrimSpace(s.Query); q != "" {
		params.Set(queryParam, q)
	}
	if len(s.Tags) > 0 {
		tags := append([]string(nil), s.Tags...)
		sort.Strings(tags)
		params.Set(tagsParam, strings.Join(tags, ","))
	}

	var b strings.Builder
	if encoded := params.Encode(); encoded != "" {
		b.WriteByte('?')
		b.WriteString(encoded)
	}
	if s.FocusID != "" {
		b.WriteByte('#')
		b.WriteString(url.PathEscape(s.FocusID))
	}
	return b.String()
}

// DecodeViewState reads a ViewState back from URL query parameters and an
// optional fragment. Tags are split on comma, trimmed, de-blanked, and kept
// only when present in the index; unknown tags are dropped silently.
func DecodeViewState(params url.Values, fragment string, index *TagIndex) ViewState {
	state := ViewState{FocusID: fragment}

	state.Query = params.Get(queryParam)
	if state.Query == "" {
		state.Query = params.Get(legacyQueryParam)
	}

	if raw := params.Get(tagsParam); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if index == nil || index.Has(tag) {
				state.Tags = append(state.Tags, tag)
			}
		}
	}

	return state
}

// DirectLink reports whether the decoded URL is a direct link to one
// specific package: a fragment with no query parameters at all. In that
// case filtering is bypassed and the fragment is matched against package
// slugs. When query parameters are present the fragment only requests a
// scroll-to/highlight after rendering.
func DirectLink(params url.Values, fragment string) bool {
	return fragment != "" && len(params) == 0
}

// Apply resolves the state against the full package set: the direct-link
// case selects by slug equality (0 or 1 results); otherwise the combined
// text/tag filter runs. hadParams distinguishes an empty parameter string
// from parameters that decoded to an empty state.
func (s ViewState) Apply(pkgs []Package, hadParams bool) []Package {
	if s.FocusID != "" && !hadParams {
		if pkg, ok := FindBySlug(pkgs, s.FocusID); ok {
			return []Package{pkg}
		}
		return []Package{}
	}
	return Filter(pkgs, s.Query, s.Tags)
}
