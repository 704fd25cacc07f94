package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	failedSuffix = ".failed"
	leftOutName  = "leftout.json"
)

// ExportPath returns the file name for an export, e.g. output/alice_anime_backup.json.
func ExportPath(dir, username, label string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s_backup.json", username, label))
}

// FailedPath returns the residual artifact path for a source backup.
// A source that already is a residual artifact maps to itself.
func FailedPath(source string) string {
	dir, base := filepath.Split(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if !strings.HasSuffix(stem, failedSuffix) {
		stem += failedSuffix
	}
	return filepath.Join(dir, stem+".json")
}

// LeftOutPath returns the left-out artifact path, always leftout.json next to the source.
func LeftOutPath(source string) string {
	return filepath.Join(filepath.Dir(source), leftOutName)
}

// List returns the JSON backups in dir, sorted by name. A missing dir yields no candidates.
func List(dir string) ([]string, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []string
	for _, item := range items {
		name := item.Name()
		if item.IsDir() || strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".json") {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	sort.Strings(out)
	return out, nil
}
