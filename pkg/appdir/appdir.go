// Package appdir locates the per-user directory holding clz-go state
// (log database, buffer snapshots).
package appdir

import (
	"os"
	"path/filepath"
	"sync"
)

const dirName = ".clz-go"

var (
	appDirCache string
	once        sync.Once
)

// AppDir returns $HOME/.clz-go, creating it on first use. It falls back to the
// working directory when no home directory is known.
func AppDir() string {
	once.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		appDirCache = filepath.Join(home, dirName)
		_ = os.MkdirAll(appDirCache, 0o755)
	})
	return appDirCache
}

// Path resolves name inside AppDir unless it is already absolute.
func Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(AppDir(), name)
}
