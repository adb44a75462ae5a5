package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentRoot(t *testing.T) {
	r := NewSourceResolver("manifest.json")

	t.Run("raw host passes through", func(t *testing.T) {
		src := "https://raw.githubusercontent.com/ada/tweaks/master"
		assert.Equal(t, src, r.ContentRoot(src))
	})

	t.Run("raw host trailing slash trimmed", func(t *testing.T) {
		src := "https://raw.githubusercontent.com/ada/tweaks/master/"
		assert.Equal(t, "https://raw.githubusercontent.com/ada/tweaks/master", r.ContentRoot(src))
	})

	t.Run("web host rewritten to raw root", func(t *testing.T) {
		assert.Equal(t,
			"https://raw.githubusercontent.com/ada/tweaks/master",
			r.ContentRoot("https://github.com/ada/tweaks"),
		)
	})

	t.Run("git suffix stripped", func(t *testing.T) {
		assert.Equal(t,
			"https://raw.githubusercontent.com/ada/tweaks/master",
			r.ContentRoot("https://github.com/ada/tweaks.git"),
		)
	})

	t.Run("extra path segments ignored", func(t *testing.T) {
		assert.Equal(t,
			"https://raw.githubusercontent.com/ada/tweaks/master",
			r.ContentRoot("https://github.com/ada/tweaks/tree/main/src"),
		)
	})

	t.Run("unrecognized shapes pass through", func(t *testing.T) {
		for _, src := range []string{
			"https://example.org/somewhere/else",
			"https://github.com/only-owner",
			"not a url at all",
		} {
			assert.Equal(t, src, r.ContentRoot(src))
		}
	})
}

func TestManifestURL(t *testing.T) {
	r := NewSourceResolver("manifest.json")

	assert.Equal(t,
		"https://raw.githubusercontent.com/ada/tweaks/master/manifest.json",
		r.ManifestURL("https://github.com/ada/tweaks"),
	)
	assert.Equal(t,
		"https://example.org/mods/tweaks/manifest.json",
		r.ManifestURL("https://example.org/mods/tweaks"),
	)
}
