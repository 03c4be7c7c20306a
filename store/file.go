package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jsphweid/lightorchestra/model"
)

// File keeps the session as a JSON array of [timestamp_ms, value] pairs.
type File struct {
	Path string
}

func NewFile(path string) *File {
	return &File{Path: path}
}

// Save writes to a temporary file next to Path and renames it into place so
// a crash never leaves a truncated session behind.
func (f *File) Save(samples model.Session) error {
	if samples == nil {
		samples = model.Session{}
	}
	data, err := json.Marshal(samples)
	if err != nil {
		return fmt.Errorf("could not encode session: %w", err)
	}

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create %s: %w", dir, err)
	}
	tmp := filepath.Join(dir, "."+uuid.New().String()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("could not write session: %w", err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("could not move session into place: %w", err)
	}
	return nil
}

func (f *File) Load() (model.Session, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("could not read session: %w", err)
	}
	var samples model.Session
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("could not decode session %s: %w", f.Path, err)
	}
	if !model.Sorted(samples) {
		return nil, fmt.Errorf("session %s has decreasing timestamps", f.Path)
	}
	return samples, nil
}
