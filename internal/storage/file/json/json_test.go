package json

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masc-ml/masc/internal/storage"
)

type payload struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "model.json")

	in := payload{Name: "forest", Values: []float64{1, 2, 3}}
	require.NoError(t, Save(path, in))

	var out payload
	require.NoError(t, Load(path, &out))
	assert.Equal(t, in, out)

	// no temp leftovers next to the target
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, 1, len(entries))
}

func TestSave_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, Save(path, payload{Name: "first"}))
	require.NoError(t, Save(path, payload{Name: "second"}))

	var out payload
	require.NoError(t, Load(path, &out))
	assert.Equal(t, "second", out.Name)
}

func TestLoad_Missing(t *testing.T) {
	var out payload
	err := Load(filepath.Join(t.TempDir(), "nope.json"), &out)
	assert.True(t, errors.Is(err, storage.NotFoundErr))
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))

	var out payload
	err := Load(path, &out)
	assert.True(t, errors.Is(err, storage.CouldNotLoadErr))
}
