package media

import (
	"path"
	"regexp"
	"strings"
)

// PublicPrefix is the URL prefix every locally served upload lives under.
const PublicPrefix = "/uploads"

const uploadMarker = "uploads"

var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*://`)

// Canonicalize turns a stored path fragment into the single public URL it is
// served under. Absolute and protocol-relative URLs are returned unchanged.
// Anything before the last "uploads" segment is dropped, so re-canonicalizing
// a stored value never stacks a second prefix.
func Canonicalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || IsAbsoluteURL(raw) {
		return raw
	}

	raw = strings.ReplaceAll(raw, "\\", "/")
	segments := strings.Split(strings.TrimLeft(raw, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == uploadMarker {
			segments = segments[i+1:]
			break
		}
	}

	rest := strings.TrimPrefix(path.Clean("/"+strings.Join(segments, "/")), "/")
	return PublicPrefix + "/" + rest
}

// IsAbsoluteURL reports whether u carries a scheme or is protocol-relative.
func IsAbsoluteURL(u string) bool {
	u = strings.TrimSpace(u)
	if schemePattern.MatchString(u) {
		return true
	}
	rest, ok := strings.CutPrefix(u, "//")
	if !ok {
		return false
	}
	// "//uploads/x.jpg" is a local path with a doubled slash, "//cdn.example.com/x.jpg" is not.
	host, _, _ := strings.Cut(rest, "/")
	return strings.ContainsAny(host, ".:") || host == "localhost"
}

// Join builds the canonical URL of filename inside folder.
func Join(folder, filename string) string {
	return Canonicalize(path.Join(uploadMarker, folder, filename))
}

// RelativePath strips the public prefix from a canonical URL, yielding the
// object path below the upload root ("blogs/123-456.jpg").
func RelativePath(canonical string) string {
	return strings.TrimPrefix(strings.TrimPrefix(Canonicalize(canonical), PublicPrefix), "/")
}
