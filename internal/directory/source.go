package directory

import (
	"net/url"
	"strings"
)

// SourceResolver rewrites repository source locations into manifest URLs.
// Sources already pointing at the raw-content host pass through unchanged;
// web-host shapes (host/owner/repo...) are rewritten to the raw-content
// default-branch root. Anything unrecognized also passes through unchanged:
// resolution is best effort and never fatal.
type SourceResolver struct {
	// RawHost serves file contents directly, e.g. "raw.githubusercontent.com".
	RawHost string
	// WebHost is the repository browsing host, e.g. "github.com".
	WebHost string
	// DefaultBranch is the branch the raw root points at.
	DefaultBranch string
	// ManifestName is the fixed filename appended to the content root.
	ManifestName string
}

// NewSourceResolver returns a resolver with the conventional GitHub hosts.
func NewSourceResolver(manifestName string) *SourceResolver {
	return &SourceResolver{
		RawHost:       "raw.githubusercontent.com",
		WebHost:       "github.com",
		DefaultBranch: "master",
		ManifestName:  manifestName,
	}
}

// ContentRoot derives the canonical content-root URL for a source location.
func (r *SourceResolver) ContentRoot(source string) string {
	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		return source
	}
	if u.Host == r.RawHost {
		return strings.TrimSuffix(source, "/")
	}
	if u.Host != r.WebHost {
		return source
	}

	// Expect /owner/repo with an optional trailing path.
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return source
	}
	owner := parts[0]
	repo := strings.TrimSuffix(parts[1], ".git")

	return "https://" + r.RawHost + "/" + owner + "/" + repo + "/" + r.DefaultBranch
}

// ManifestURL resolves a source location to the URL its manifest is fetched
// from: the canonical content root plus the fixed manifest filename.
func (r *SourceResolver) ManifestURL(source string) string {
	return r.ContentRoot(source) + "/" + r.ManifestName
}
