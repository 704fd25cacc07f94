package restore

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"aniport/feature/backup"
)

var (
	// ErrNoBackup indicates an empty output directory and no file argument.
	ErrNoBackup = errors.New("no backup files found")
	// ErrChooseBackup indicates several candidate backups; the caller must pick one.
	ErrChooseBackup = errors.New("several backup files found, pass one as an argument")
)

// SelectSource returns file when given, otherwise the only backup in dir.
// With several candidates it returns them together with ErrChooseBackup.
func SelectSource(dir, file string) (string, []string, error) {
	if file != "" {
		return file, nil, nil
	}

	all, err := backup.List(dir)
	if err != nil {
		return "", nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var candidates []string
	for _, path := range all {
		if strings.EqualFold(filepath.Base(path), "leftout.json") {
			continue
		}
		candidates = append(candidates, path)
	}

	switch len(candidates) {
	case 0:
		return "", nil, fmt.Errorf("%w in %s", ErrNoBackup, dir)
	case 1:
		return candidates[0], candidates, nil
	default:
		return "", candidates, ErrChooseBackup
	}
}
