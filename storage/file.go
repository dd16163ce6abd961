package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// File keeps every key in one JSON object on disk. Each write replaces the
// file atomically; two processes sharing a file race with last-write-wins.
type File struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]json.RawMessage
}

// FileOption configures a File.
type FileOption func(*fileOptions)

type fileOptions struct {
	logger *zap.Logger
}

// WithLogger sets the logger used to report a corrupt store file.
func WithLogger(l *zap.Logger) FileOption {
	return func(o *fileOptions) { o.logger = l }
}

// NewFile loads filePath, or starts empty if the file does not exist.
// A file that is not a JSON object is logged and treated as empty; the next
// Set replaces it. Returns an error only on unexpected I/O failures.
func NewFile(filePath string, opts ...FileOption) (*File, error) {
	o := fileOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	f := &File{filePath: filePath, data: make(map[string]json.RawMessage)}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, &f.data); err != nil {
		o.logger.Warn("store file is corrupt, starting empty",
			zap.String("path", filePath), zap.Error(err))
		f.data = make(map[string]json.RawMessage)
		return f, nil
	}
	if f.data == nil {
		f.data = make(map[string]json.RawMessage)
	}
	return f, nil
}

// Path returns the backing file path.
func (f *File) Path() string { return f.filePath }

func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores value, which must itself be valid JSON, and rewrites the file.
func (f *File) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !json.Valid(value) {
		return fmt.Errorf("storage: value for %q is not valid JSON", key)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	next := f.copyData()
	next[key] = append(json.RawMessage(nil), value...)
	if err := f.writeAtomic(next); err != nil {
		return err
	}
	f.data = next
	return nil
}

func (f *File) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; !ok {
		return nil
	}
	next := f.copyData()
	delete(next, key)
	if err := f.writeAtomic(next); err != nil {
		return err
	}
	f.data = next
	return nil
}

func (f *File) Close() error { return nil }

func (f *File) copyData() map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(f.data)+1)
	for k, v := range f.data {
		out[k] = v
	}
	return out
}

// writeAtomic writes to a temp file then renames it over filePath.
// Caller must hold f.mu.
func (f *File) writeAtomic(data map[string]json.RawMessage) error {
	dir := filepath.Dir(f.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp := f.filePath + ".tmp"
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, f.filePath)
}
