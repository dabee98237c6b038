package services

import (
	"os"
	"path/filepath"
)

// DiscoverConfig looks for name in dir and then in dir's parent. It
// returns the absolute path of the first regular file found.
func DiscoverConfig(dir, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for _, candidate := range []string{
		filepath.Join(abs, name),
		filepath.Join(filepath.Dir(abs), name),
	} {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}
	return "", false
}
