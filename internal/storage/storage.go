package storage

import (
	"fmt"
	"os"
	"runtime"
)

const (
	dataBaseFolder = ".krypt"
)

// GetUserHomeDir returns the user's home directory on linux, windows or macOS
// taken from: https://gist.github.com/miguelmota/f30a04a6d64bd52d7ab59ea8d95e54da
func GetUserHomeDir() string {
	if runtime.GOOS == "windows" {
		home := os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
		if home == "" {
			home = os.Getenv("USERPROFILE")
		}
		return home
	} else if runtime.GOOS == "linux" {
		home := os.Getenv("XDG_CONFIG_HOME")
		if home != "" {
			return home
		}
	}
	return os.Getenv("HOME")
}

// DataDir returns path, or the default data folder in the user's home directory when path is empty
func DataDir(path string) string {
	if path != "" {
		return path
	}

	return fmt.Sprintf("%s/%s", GetUserHomeDir(), dataBaseFolder)
}

// Exists checks if the given file or folder for a path exists
func Exists(path string) bool {
	if path == "" {
		return false
	}

	_, err := os.Stat(path)
	if err != nil || os.IsNotExist(err) {
		return false
	}

	return true
}

// CreateDir creates a directory
func CreateDir(dir string) error {
	return os.MkdirAll(dir, os.FileMode(0755))
}
