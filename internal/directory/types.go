package directory

import (
	"github.com/bytedance/sonic"
)

// Package is the canonical, immutable record produced by normalization.
type Package struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Version     string   `json:"version"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
	Icon        string   `json:"icon,omitempty"`
	Links       Links    `json:"links"`
}

// Links holds the optional URLs a manifest may advertise.
type Links struct {
	Download      string `json:"download,omitempty"`
	GitHub        string `json:"github,omitempty"`
	Documentation string `json:"documentation,omitempty"`
	Release       string `json:"release,omitempty"`
}

// RawManifest is the decoded form of a manifest file, covering both schema
// versions. Every field is optional; normalization fills the gaps.
type RawManifest struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	Author      AuthorRef `json:"author"`
	Description string    `json:"description"`
	Version     string    `json:"version"`
	Status      string    `json:"status"`
	Keywords    []string  `json:"keywords"`
	Tags        []string  `json:"tags"`
	Icon        string    `json:"icon"`
	Links       Links     `json:"links"`
}

// AuthorRef accepts either the v1 schema's plain string or the v2 schema's
// {"name": ...} object.
type AuthorRef struct {
	Name string
}

// UnmarshalJSON tries the string form first, then the object form. Anything
// else decodes to an empty author rather than an error.
func (a *AuthorRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := sonic.Unmarshal(data, &s); err == nil {
		a.Name = s
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := sonic.Unmarshal(data, &obj); err == nil {
		a.Name = obj.Name
	}
	return nil
}

// Diagnostic describes a single per-source failure from a load. Failures are
// reported, never retained in the package model.
type Diagnostic struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// LoadResult is the outcome of fetching all sources: the successfully
// normalized packages in source order plus the accumulated diagnostics.
type LoadResult struct {
	LoadID      string       `json:"load_id"`
	Packages    []Package    `json:"packages"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Sources     int          `json:"sources"`
	Failures    int          `json:"failures"`
}
