package media

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// UniqueFilename returns "<unix millis>-<random 0..1e9><.ext>". Collisions are
// possible in theory and are not deduplicated.
func UniqueFilename(extension string) string {
	extension = strings.TrimPrefix(strings.TrimSpace(extension), ".")
	name := fmt.Sprintf("%d-%d", time.Now().UnixMilli(), rand.Int63n(1_000_000_000))
	if extension == "" {
		return name
	}
	return name + "." + strings.ToLower(extension)
}
