package storage

import (
	"bytes"
	"context"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/voice"
	"github.com/feelcast/feelcast/pkg/utils/logging"
	"github.com/feelcast/feelcast/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

// Service stores voice audio under voice/ in the blob store.
type Service struct {
	prefix        string
	storageClient interfaces.StorageClient
}

func New(storageClient interfaces.StorageClient, opts ...Option) *Service {
	s := &Service{storageClient: storageClient}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type Option func(*Service)

// WithPrefix puts every object below prefix, e.g. "dev/". Locators handed to
// the analysis service include it.
func WithPrefix(prefix string) Option {
	return func(s *Service) {
		s.prefix = prefix
	}
}

func (s *Service) objectPath(storedName string) string {
	return s.prefix + voice.ObjectPath(storedName)
}

// Locator returns the bucket-relative path of a stored voice.
func (s *Service) Locator(v *voice.Voice) string {
	return s.prefix + v.Locator()
}

// Put uploads data as storedName and returns the access URL.
func (s *Service) Put(ctx context.Context, storedName string, data []byte) (string, error) {
	path := s.objectPath(storedName)

	w := s.storageClient.PutObject(ctx, path)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write voice object",
			goerr.TV(errs.ObjectKey, path),
			goerr.T(errs.TagStorage))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to commit voice object",
			goerr.TV(errs.ObjectKey, path),
			goerr.T(errs.TagStorage))
	}

	logging.From(ctx).Debug("voice object stored",
		"object", path,
		"size", humanize.Bytes(uint64(len(data))))

	return s.storageClient.ObjectURL(path), nil
}

// Get reads the object of storedName. A missing object keeps its not_found
// tag.
func (s *Service) Get(ctx context.Context, storedName string) ([]byte, error) {
	path := s.objectPath(storedName)

	r, err := s.storageClient.GetObject(ctx, path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open voice object",
			goerr.TV(errs.ObjectKey, path),
			goerr.T(errs.TagStorage))
	}
	defer safe.Close(ctx, r)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read voice object",
			goerr.TV(errs.ObjectKey, path),
			goerr.T(errs.TagStorage))
	}
	return data, nil
}

func (s *Service) Delete(ctx context.Context, storedName string) error {
	path := s.objectPath(storedName)
	if err := s.storageClient.DeleteObject(ctx, path); err != nil {
		return goerr.Wrap(err, "failed to delete voice object",
			goerr.TV(errs.ObjectKey, path),
			goerr.T(errs.TagStorage))
	}
	return nil
}
