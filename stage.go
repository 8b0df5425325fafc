package ndsfs

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/aligator/ndsfs/checkpoint"
	"github.com/spf13/afero"
)

// stage holds the pending edits of one Fs: shadow files and directories which
// take precedence over the packed image, and tombstones hiding packed paths.
//
// Shadow content lives on an afero.Fs at the lower case path key, the maps keep
// the path as it was first written for display.
type stage struct {
	lock       sync.RWMutex
	fs         afero.Fs
	files      map[string]string
	dirs       map[string]string
	tombstones map[string]struct{}

	// cleanup releases a temporary staging directory.
	cleanup func() error
}

func newStage(fs afero.Fs) *stage {
	return &stage{
		fs:         fs,
		files:      make(map[string]string),
		dirs:       make(map[string]string),
		tombstones: make(map[string]struct{}),
	}
}

// file returns the display path of a shadow file.
func (s *stage) file(p string) (string, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	display, ok := s.files[pathKey(p)]
	return display, ok
}

// dir returns the display path of a shadow directory.
func (s *stage) dir(p string) (string, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	display, ok := s.dirs[pathKey(p)]
	return display, ok
}

func (s *stage) isTombstoned(p string) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	_, ok := s.tombstones[pathKey(p)]
	return ok
}

// register marks p as shadow file and all its ancestors as shadow directories.
// Tombstones of p and its ancestors are removed, so a recreated path is visible again.
// The caller must hold the write lock.
func (s *stage) register(p string) {
	key := pathKey(p)
	if _, ok := s.files[key]; !ok {
		s.files[key] = p
	}
	delete(s.tombstones, key)
	s.registerAncestors(p)
}

func (s *stage) registerAncestors(p string) {
	for dir := parentPath(p); dir != "/"; dir = parentPath(dir) {
		key := pathKey(dir)
		if _, ok := s.dirs[key]; !ok {
			s.dirs[key] = dir
		}
		delete(s.tombstones, key)
	}
}

func (s *stage) writeFile(p string, data []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	key := pathKey(p)
	if err := s.fs.MkdirAll(parentPath(key), 0o755); err != nil {
		return checkpoint.From(err)
	}
	if err := afero.WriteFile(s.fs, key, data, 0o644); err != nil {
		return checkpoint.From(err)
	}

	s.register(p)
	return nil
}

func (s *stage) readFile(p string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, pathKey(p))
	if err != nil {
		return nil, checkpoint.From(err)
	}
	return data, nil
}

func (s *stage) stat(p string) (os.FileInfo, error) {
	info, err := s.fs.Stat(pathKey(p))
	if err != nil {
		return nil, checkpoint.From(err)
	}
	return info, nil
}

// openFile opens the shadow copy of p. Flags creating the file register it.
func (s *stage) openFile(p string, flag int, perm os.FileMode) (afero.File, error) {
	key := pathKey(p)

	if flag&os.O_CREATE == 0 {
		return s.fs.OpenFile(key, flag, perm)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.fs.MkdirAll(parentPath(key), 0o755); err != nil {
		return nil, checkpoint.From(err)
	}
	file, err := s.fs.OpenFile(key, flag, perm)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	s.register(p)
	return file, nil
}

func (s *stage) mkdir(p string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	key := pathKey(p)
	if err := s.fs.MkdirAll(key, 0o755); err != nil {
		return checkpoint.From(err)
	}

	if _, ok := s.dirs[key]; !ok {
		s.dirs[key] = p
	}
	delete(s.tombstones, key)
	s.registerAncestors(p)
	return nil
}

// tombstone hides p and drops its shadow copy.
func (s *stage) tombstone(p string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	key := pathKey(p)
	s.tombstones[key] = struct{}{}

	if _, ok := s.files[key]; ok {
		delete(s.files, key)
		if err := s.fs.Remove(key); err != nil && !os.IsNotExist(err) {
			return checkpoint.From(err)
		}
	}
	if _, ok := s.dirs[key]; ok {
		delete(s.dirs, key)
		if err := s.fs.RemoveAll(key); err != nil {
			return checkpoint.From(err)
		}
	}
	return nil
}

// removeTree drops every shadow file and directory below p.
func (s *stage) removeTree(p string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	prefix := pathKey(p) + "/"
	for key := range s.files {
		if strings.HasPrefix(key, prefix) {
			delete(s.files, key)
		}
	}
	for key := range s.dirs {
		if strings.HasPrefix(key, prefix) {
			delete(s.dirs, key)
		}
	}

	if err := s.fs.RemoveAll(pathKey(p)); err != nil {
		return checkpoint.From(err)
	}
	return nil
}

// children lists the display paths of the shadow files and directories directly inside dir, sorted by key.
func (s *stage) children(dir string) (files, dirs []string) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	parent := pathKey(dir)
	collect := func(m map[string]string) []string {
		var keys []string
		for key := range m {
			if parentPath(key) == parent && key != "/" {
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)

		result := make([]string, len(keys))
		for i, key := range keys {
			result[i] = m[key]
		}
		return result
	}

	return collect(s.files), collect(s.dirs)
}

func (s *stage) close() error {
	if s.cleanup == nil {
		return nil
	}
	cleanup := s.cleanup
	s.cleanup = nil
	return cleanup()
}
