// Package dedup tracks the content hashes of previously saved files so that
// byte-identical downloads only get written to disk once.
package dedup

import (
	"crypto/md5"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Index is a set of content hashes. The digest is md5, which is adequate for
// detecting redundant downloads but is not an integrity or security check.
type Index struct {
	mtx    sync.Mutex // Protects the "hashes" field.
	hashes map[[md5.Size]byte]struct{}
}

func New() *Index {
	return &Index{
		hashes: map[[md5.Size]byte]struct{}{},
	}
}

// SeedFromDir hashes every file directly inside the given directory and
// inserts the results into the index. Files that cannot be read are skipped.
// A missing or unreadable directory indexes nothing. It returns the number of
// files indexed.
func (idx *Index) SeedFromDir(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Debugf("not seeding dedup index: %v", err)
		return 0
	}

	count := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			log.Debugf("skipping unreadable file while seeding dedup index: %v", err)
			continue
		}

		idx.insert(b)
		count++
	}

	return count
}

// Seed inserts the hashes of the given contents. It exists so tests can build
// a populated index without touching disk.
func (idx *Index) Seed(contents ...[]byte) {
	for _, b := range contents {
		idx.insert(b)
	}
}

// CheckAndInsert returns true if the given content is already present in the
// index. Otherwise, it inserts the content's hash and returns false. The
// check and the insertion happen as a single step; concurrent callers never
// both see absent.
func (idx *Index) CheckAndInsert(b []byte) bool {
	sum := md5.Sum(b)

	idx.mtx.Lock()
	defer idx.mtx.Unlock()

	_, ok := idx.hashes[sum]
	if ok {
		return true
	}

	idx.hashes[sum] = struct{}{}
	return false
}

// Len returns the number of distinct hashes in the index.
func (idx *Index) Len() int {
	idx.mtx.Lock()
	defer idx.mtx.Unlock()

	return len(idx.hashes)
}

func (idx *Index) insert(b []byte) {
	sum := md5.Sum(b)

	idx.mtx.Lock()
	defer idx.mtx.Unlock()

	idx.hashes[sum] = struct{}{}
}
