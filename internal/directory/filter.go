package directory

import (
	"strings"
)

// Filter computes the subset of packages matching a free-text query and a
// set of selected tags, preserving the original relative order.
//
// The text predicate matches when the query is empty or is a case-insensitive
// substring of name, display name, description, or author. The tag predicate
// matches when no tags are selected or the package carries at least one of
// them (OR within the set). The two predicates combine with AND. Output is
// deterministic for fixed inputs.
func Filter(pkgs []Package, query string, tags []string) []Package {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]Package, 0, len(pkgs))
	for _, pkg := range pkgs {
		if matchesQuery(pkg, query) && matchesTags(pkg, tags) {
			out = append(out, pkg)
		}
	}
	return out
}

func matchesQuery(pkg Package, query string) bool {
	if query == "" {
		return true
	}
	for _, field := range []string{pkg.Name, pkg.DisplayName, pkg.Description, pkg.Author} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func matchesTags(pkg Package, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, want := range selected {
		for _, have := range pkg.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Slug derives the URL-safe identifier used for deep links: the package name
// lowercased with every run of non [a-z0-9] characters collapsed into a
// single '-'.
func Slug(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	prevDash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			prevDash = false
		} else if !prevDash {
			b.WriteByte('-')
			prevDash = true
		}
	}
	return b.String()
}

// FindBySlug returns the first package whose slug equals the given value.
// Duplicate names are not rejected at load time, so first match wins.
func FindBySlug(pkgs []Package, slug string) (Package, bool) {
	for _, pkg := range pkgs {
		if Slug(pkg.Name) == slug {
			return pkg, true
		}
	}
	return Package{}, false
}
