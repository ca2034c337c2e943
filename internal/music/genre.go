package music

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
)

// ProbeGenre returns the genre of a release directory, read from the ID3
// tag of the first mp3 found directly in it. Untagged or unreadable
// releases report the empty string.
func ProbeGenre(r Release) string {
	entries, err := os.ReadDir(r.Path)
	if err != nil {
		return ""
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(filepath.Ext(entry.Name())) != ".mp3" {
			continue
		}

		tag, err := id3v2.Open(filepath.Join(r.Path, entry.Name()), id3v2.Options{Parse: true})
		if err != nil {
			continue
		}
		genre := strings.TrimSpace(tag.Genre())
		tag.Close()

		if genre != "" {
			return genre
		}
	}
	return ""
}
