package services

import (
	"net/url"
	"strings"
)

// Canonicalize bildet eine URL auf den Dedup-Schlüssel host+path ab.
//
// Schema, Query und Fragment entfallen, der Host wird kleingeschrieben, ein
// einzelner abschließender Slash entfernt (außer bei Pfad "/"). Lässt sich die
// Eingabe nicht in Host und Pfad zerlegen, wird sie nur getrimmt, kleingeschrieben
// und um einen abschließenden Slash gekürzt. Dieser Fallback kann mit dem
// strukturierten Pfad kollidieren oder eben nicht; das ist bekannt und gewollt.
func Canonicalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return strings.TrimSuffix(strings.ToLower(trimmed), "/")
	}

	host := stripDefaultPort(strings.ToLower(u.Host), strings.ToLower(u.Scheme))
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return host + path
}

func stripDefaultPort(host, scheme string) string {
	switch {
	case scheme == "http" && strings.HasSuffix(host, ":80"):
		return strings.TrimSuffix(host, ":80")
	case scheme == "https" && strings.HasSuffix(host, ":443"):
		return strings.TrimSuffix(host, ":443")
	}
	return host
}

// validateURL ist strenger als Canonicalize: Quellen brauchen eine wohlgeformte absolute URL.
func validateURL(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return invalidf("source", "url is required")
	}
	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return invalidf("source", "invalid url format")
	}
	return nil
}
