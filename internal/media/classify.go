package media

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

type Kind string

const (
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindRejected Kind = "rejected"
)

const genericMIME = "application/octet-stream"

var videoExtensions = map[string]struct{}{
	"mp4": {}, "mov": {}, "avi": {}, "webm": {}, "mkv": {}, "flv": {},
}

var imageExtensions = map[string]struct{}{
	"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "webp": {}, "svg": {},
	"ico": {}, "bmp": {}, "avif": {}, "heic": {}, "heif": {}, "tif": {}, "tiff": {},
}

// preferred covers MIME values the filetype registry does not know or spells
// differently from what browsers send.
var preferredExtensions = map[string]string{
	"image/jpeg":      "jpg",
	"image/svg+xml":   "svg",
	"image/x-icon":    "ico",
	"video/quicktime": "mov",
}

// Classify decides whether an upload is an image or a video. The MIME prefix
// wins; the filename extension is only consulted when the MIME type is absent
// or generic.
func Classify(mimeType, filename string) Kind {
	mimeType = normalizeMIME(mimeType)
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return KindImage
	case strings.HasPrefix(mimeType, "video/"):
		return KindVideo
	case mimeType != "" && mimeType != genericMIME:
		return KindRejected
	}

	ext := Extension(filename)
	if _, ok := videoExtensions[ext]; ok {
		return KindVideo
	}
	if _, ok := imageExtensions[ext]; ok {
		return KindImage
	}
	return KindRejected
}

// IsGenericMIME reports whether the declared type says nothing about the content.
func IsGenericMIME(mimeType string) bool {
	mimeType = normalizeMIME(mimeType)
	return mimeType == "" || mimeType == genericMIME
}

// Sniff inspects magic bytes and returns the detected MIME value, or "" when
// the content is not recognised.
func Sniff(data []byte) string {
	kind, err := filetype.Match(data)
	if err != nil || kind == types.Unknown {
		return ""
	}
	return kind.MIME.Value
}

// Extension returns the lower-case extension of filename without the dot.
func Extension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// ExtensionForMIME derives the on-disk extension from a MIME type.
func ExtensionForMIME(mimeType string) string {
	mimeType = normalizeMIME(mimeType)
	if mimeType == "" || mimeType == genericMIME {
		return ""
	}
	if ext, ok := preferredExtensions[mimeType]; ok {
		return ext
	}

	var candidates []string
	filetype.Types.Range(func(key, value any) bool {
		if t, ok := value.(types.Type); ok && t.MIME.Value == mimeType {
			candidates = append(candidates, key.(string))
		}
		return true
	})
	if len(candidates) > 0 {
		sort.Strings(candidates)
		return candidates[0]
	}

	_, subtype, ok := strings.Cut(mimeType, "/")
	if !ok {
		return ""
	}
	if i := strings.IndexByte(subtype, '+'); i >= 0 {
		subtype = subtype[:i]
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, subtype)
}

func normalizeMIME(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}
