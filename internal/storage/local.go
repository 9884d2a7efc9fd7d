package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/po-extractor/constants"
	"github.com/joseph-ayodele/po-extractor/internal/common"
)

// LocalStore keeps each area in a folder under a common root.
type LocalStore struct {
	root string
	dirs map[constants.Area]string
}

// NewLocalStore creates (if needed) the area folders under root.
func NewLocalStore(root string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	s := &LocalStore{root: abs, dirs: make(map[constants.Area]string)}
	for _, a := range constants.Areas() {
		dir := filepath.Join(abs, a.LocalDir())
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, storageErr("mkdir", a, "", err)
		}
		s.dirs[a] = dir
	}
	return s, nil
}

// Dir returns the folder backing area.
func (s *LocalStore) Dir(a constants.Area) string { return s.dirs[a] }

func (s *LocalStore) path(a constants.Area, name string) (string, error) {
	if err := checkArea(a); err != nil {
		return "", err
	}
	if err := checkName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dirs[a], name), nil
}

func (s *LocalStore) List(_ context.Context, area constants.Area, ext string) ([]string, error) {
	if err := checkArea(area); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dirs[area])
	if err != nil {
		return nil, storageErr("list", area, "", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return filterSorted(names, ext), nil
}

func (s *LocalStore) Read(_ context.Context, area constants.Area, name string) ([]byte, error) {
	p, err := s.path(area, name)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.NotFoundErrorf("file not found: %s", name)
	}
	if err != nil {
		return nil, storageErr("read", area, name, err)
	}
	return b, nil
}

func (s *LocalStore) Save(_ context.Context, area constants.Area, name string, data []byte) error {
	p, err := s.path(area, name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dirs[area], ".tmp-*")
	if err != nil {
		return storageErr("save", area, name, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return storageErr("save", area, name, err)
	}
	if err := tmp.Close(); err != nil {
		return storageErr("save", area, name, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return storageErr("save", area, name, err)
	}
	return nil
}

func (s *LocalStore) Move(_ context.Context, from, to constants.Area, name string) error {
	src, err := s.path(from, name)
	if err != nil {
		return err
	}
	dst, err := s.path(to, name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return common.NotFoundErrorf("file not found: %s", name)
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	// cross-device: copy then remove
	if err := copyFile(src, dst); err != nil {
		return storageErr("move", from, name, err)
	}
	if err := os.Remove(src); err != nil {
		return storageErr("move", from, name, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func (s *LocalStore) Exists(_ context.Context, area constants.Area, name string) (bool, error) {
	p, err := s.path(area, name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, storageErr("stat", area, name, err)
	}
	return true, nil
}

func (s *LocalStore) Environment() Environment {
	folders := make(map[constants.Area]string, len(s.dirs))
	for a, d := range s.dirs {
		folders[a] = d
	}
	return Environment{Backend: common.BackendLocal, LocalFolders: folders}
}
