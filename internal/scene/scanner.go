package scene

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Entry represents a scene file found in a data directory
type Entry struct {
	Name string // file name without extension
	Path string
}

// ScanDirectory lists the scene files in dir. Hidden files and light
// configuration files (*.light.json) are skipped.
func ScanDirectory(dir string) ([]Entry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read data directory")
	}

	var scenes []Entry
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		lower := strings.ToLower(name)
		if strings.HasPrefix(name, ".") || !strings.HasSuffix(lower, ".json") || strings.HasSuffix(lower, ".light.json") {
			continue
		}

		scenes = append(scenes, Entry{
			Name: strings.TrimSuffix(name, filepath.Ext(name)),
			Path: filepath.Join(dir, name),
		})
	}

	sort.Slice(scenes, func(i, j int) bool { return scenes[i].Name < scenes[j].Name })
	return scenes, nil
}
