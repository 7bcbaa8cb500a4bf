// Package json persists values as JSON files, written atomically.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/masc-ml/masc/internal/storage"
)

// Save marshals the value and writes it to the given path atomically:
// the bytes land in a temporary file first and replace the target with a
// rename, so a crashed save never leaves a half-written file behind.
func Save(path string, value interface{}) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("could not make dir '%s': %w", dir, err)
	}

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not marshal value for '%s': %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("could not create temp file in '%s': %w", dir, err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("could not write '%s': %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not close '%s': %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not move '%s' into place: %w", tmp.Name(), err)
	}
	return nil
}

// Load reads the file at the given path and unmarshals it into value.
func Load(path string, value interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read file '%s': %w", path, storage.NotFoundErr)
	}

	if err := json.Unmarshal(data, value); err != nil {
		return fmt.Errorf("could not unmarshal '%s' (%s): %w", path, err.Error(), storage.CouldNotLoadErr)
	}
	return nil
}
