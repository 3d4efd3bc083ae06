package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Slot is the single keyed location the dataset envelope lives in. Read
// returns nil bytes when nothing was ever saved.
type Slot interface {
	Read() ([]byte, error)
	Write([]byte) error
}

// FileSlot stores the envelope as one JSON file, written atomically.
type FileSlot struct {
	path string
}

func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

func (f *FileSlot) Read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read slot %s: %w", f.path, err)
	}
	return data, nil
}

func (f *FileSlot) Write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("mkdir slot dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write slot: %w", err)
	}
	return os.Rename(tmp, f.path)
}
