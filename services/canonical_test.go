package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"scheme and trailing slash dropped", "http://Example.com/a/", "example.com/a"},
		{"https same key", "https://example.com/a", "example.com/a"},
		{"query and fragment dropped", "https://example.com/a?utm=1#top", "example.com/a"},
		{"root path kept", "https://Example.com/", "example.com/"},
		{"empty path becomes root", "https://example.com", "example.com/"},
		{"path case preserved", "https://example.com/Path/To", "example.com/Path/To"},
		{"only one trailing slash stripped", "https://example.com/a//", "example.com/a/"},
		{"default http port stripped", "http://example.com:80/a", "example.com/a"},
		{"default https port stripped", "https://example.com:443/a", "example.com/a"},
		{"non-default port kept", "https://example.com:8443/a", "example.com:8443/a"},
		{"surrounding whitespace", "  https://example.com/a/  ", "example.com/a"},
		{"fallback lowercases and strips slash", "Not A URL/", "not a url"},
		{"fallback without host", "mailto:Someone@Example.com", "mailto:someone@example.com"},
		{"empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Canonicalize(tc.in))
		})
	}
}

func TestCanonicalizeIsIdempotentForStructuredURLs(t *testing.T) {
	first := Canonicalize("https://example.com/a/b/")
	assert.Equal(t, first, Canonicalize("https://"+first))
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, validateURL("https://example.com/a"))
	assert.NoError(t, validateURL("mailto:someone@example.com"))

	for _, bad := range []string{"", "   ", "example.com/a", "/relative/path", "http://%zz"} {
		err := validateURL(bad)
		assert.ErrorIs(t, err, ErrInvalid, "input %q", bad)
	}
}
