package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/joseph-ayodele/po-extractor/constants"
	"github.com/joseph-ayodele/po-extractor/internal/common"
)

// GCSStore keeps each area in its own Cloud Storage bucket.
type GCSStore struct {
	client  *gcs.Client
	buckets map[constants.Area]string
}

// NewGCSStore uses application default credentials.
func NewGCSStore(ctx context.Context, buckets map[constants.Area]string) (*GCSStore, error) {
	for _, a := range constants.Areas() {
		if buckets[a] == "" {
			return nil, common.InvalidInputErrorf("no bucket configured for area %q", a)
		}
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, common.NewAppError("STORAGE_ERROR", "create gcs client", errors.Join(common.ErrStorage, err))
	}
	return &GCSStore{client: client, buckets: buckets}, nil
}

func (s *GCSStore) Close() error { return s.client.Close() }

func (s *GCSStore) object(a constants.Area, name string) (*gcs.ObjectHandle, error) {
	if err := checkArea(a); err != nil {
		return nil, err
	}
	if err := checkName(name); err != nil {
		return nil, err
	}
	return s.client.Bucket(s.buckets[a]).Object(name), nil
}

func (s *GCSStore) List(ctx context.Context, area constants.Area, ext string) ([]string, error) {
	if err := checkArea(area); err != nil {
		return nil, err
	}
	it := s.client.Bucket(s.buckets[area]).Objects(ctx, nil)
	var names []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, storageErr("list", area, "", err)
		}
		names = append(names, attrs.Name)
	}
	return filterSorted(names, ext), nil
}

func (s *GCSStore) Read(ctx context.Context, area constants.Area, name string) ([]byte, error) {
	obj, err := s.object(area, name)
	if err != nil {
		return nil, err
	}
	r, err := obj.NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, common.NotFoundErrorf("file not found: %s", name)
	}
	if err != nil {
		return nil, storageErr("read", area, name, err)
	}
	defer func() { _ = r.Close() }()
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, storageErr("read", area, name, err)
	}
	return b, nil
}

func (s *GCSStore) Save(ctx context.Context, area constants.Area, name string, data []byte) error {
	obj, err := s.object(area, name)
	if err != nil {
		return err
	}
	w := obj.NewWriter(ctx)
	w.ContentType = constants.ContentType(filepath.Ext(name))
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return storageErr("save", area, name, err)
	}
	if err := w.Close(); err != nil {
		return storageErr("save", area, name, err)
	}
	return nil
}

func (s *GCSStore) Move(ctx context.Context, from, to constants.Area, name string) error {
	src, err := s.object(from, name)
	if err != nil {
		return err
	}
	dst, err := s.object(to, name)
	if err != nil {
		return err
	}
	if _, err := dst.CopierFrom(src).Run(ctx); err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return common.NotFoundErrorf("file not found: %s", name)
		}
		return storageErr("move", from, name, err)
	}
	if err := src.Delete(ctx); err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return storageErr("move", from, name, err)
	}
	return nil
}

func (s *GCSStore) Exists(ctx context.Context, area constants.Area, name string) (bool, error) {
	obj, err := s.object(area, name)
	if err != nil {
		return false, err
	}
	_, err = obj.Attrs(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, storageErr("stat", area, name, err)
	}
	return true, nil
}

func (s *GCSStore) Environment() Environment {
	buckets := make(map[constants.Area]string, len(s.buckets))
	for a, b := range s.buckets {
		buckets[a] = b
	}
	return Environment{IsCloud: true, Backend: common.BackendGCS, Buckets: buckets}
}
