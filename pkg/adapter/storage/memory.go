package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/m-mizutani/goerr/v2"
)

// MemoryClient keeps objects in process memory. It is used for development
// and tests.
type MemoryClient struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

var _ interfaces.StorageClient = &MemoryClient{}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		objects: make(map[string][]byte),
	}
}

func (m *MemoryClient) PutObject(ctx context.Context, object string) io.WriteCloser {
	return &memoryWriter{
		client: m,
		object: object,
	}
}

func (m *MemoryClient) GetObject(ctx context.Context, object string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, exists := m.objects[object]
	if !exists {
		return nil, goerr.New("object not found",
			goerr.TV(errs.ObjectKey, object),
			goerr.T(errs.TagNotFound))
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MemoryClient) DeleteObject(ctx context.Context, object string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, object)
	return nil
}

func (m *MemoryClient) ObjectURL(object string) string {
	return "memory://" + object
}

// Objects returns the stored object names.
func (m *MemoryClient) Objects() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.objects))
	for name := range m.objects {
		names = append(names, name)
	}
	return names
}

func (m *MemoryClient) Close(ctx context.Context) {}

// memoryWriter makes the object visible only on Close, like a GCS writer.
type memoryWriter struct {
	client *MemoryClient
	object string
	buffer bytes.Buffer
	closed bool
	mu     sync.Mutex
}

func (w *memoryWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, goerr.New("writer is closed", goerr.TV(errs.ObjectKey, w.object))
	}
	return w.buffer.Write(p)
}

func (w *memoryWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	data := bytes.Clone(w.buffer.Bytes())
	w.client.mu.Lock()
	w.client.objects[w.object] = data
	w.client.mu.Unlock()
	return nil
}
