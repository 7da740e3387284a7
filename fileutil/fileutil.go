package fileutil

import (
	"os"
)

// FileExists returns true if a file or directory with the given path exists.
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// IsDir returns true if a directory with the given path exists.
func IsDir(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && info.IsDir()
}

// EnsureDir creates the given directory, including any missing parents, if it
// does not already exist.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// ListNames returns the set of filenames (not full paths) of the entries in
// the given directory, excluding subdirectories. It returns an empty set if
// the directory cannot be read.
func ListNames(dir string) map[string]struct{} {
	names := map[string]struct{}{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return names
	}

	for _, e := range entries {
		if !e.IsDir() {
			names[e.Name()] = struct{}{}
		}
	}

	return names
}

// WriteExclusive writes b to a new file at the given path. It fails if a file
// with that path already exists; use os.IsExist to detect this case.
func WriteExclusive(path string, b []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}

	_, werr := f.Write(b)
	cerr := f.Close()

	if werr != nil {
		os.Remove(path)
		return werr
	}
	return cerr
}
