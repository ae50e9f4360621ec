package export

import (
	"os"
	"path/filepath"
	"strings"
)

// WriteText saves plain text as <name>.txt inside dir and returns the path.
func WriteText(dir, name, text string) (string, error) {
	name = strings.ReplaceAll(strings.ToLower(name), " ", "-")
	path := filepath.Join(dir, name+".txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
