package media

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var uniqueName = regexp.MustCompile(`^\d+-\d+(\.[a-z0-9]+)?$`)

func TestUniqueFilename(t *testing.T) {
	assert.Regexp(t, uniqueName, UniqueFilename("JPG"))
	assert.Regexp(t, `\.jpg$`, UniqueFilename(".JPG"))
	assert.Regexp(t, `^\d+-\d+$`, UniqueFilename(""))
}

func TestFilenameForPrefersMIMEExtension(t *testing.T) {
	assert.Regexp(t, `\.png$`, filenameFor("photo.jpeg", "image/png"))
	assert.Regexp(t, `\.mp4$`, filenameFor("clip", "video/mp4"))
	assert.Regexp(t, `\.webm$`, filenameFor("clip.webm", ""))
}
