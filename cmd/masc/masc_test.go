package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masc-ml/masc/internal/cloud"
	"github.com/masc-ml/masc/internal/feature"
)

func TestParseFeatures(t *testing.T) {
	c := cloud.New("test", []cloud.Point{{X: 1}})

	features, err := parseFeatures(c, "Intensity, DimZ,red")
	require.NoError(t, err)
	require.Equal(t, 3, len(features))

	assert.Equal(t, feature.ScalarField, features[0].Source)
	assert.Equal(t, "Intensity", features[0].Name)
	assert.Equal(t, feature.DimZ, features[1].Source)
	assert.Equal(t, feature.Red, features[2].Source)

	_, err = parseFeatures(c, "")
	assert.Error(t, err)
}

func TestLoadSubset(t *testing.T) {
	c := cloud.New("test", []cloud.Point{{X: 0}, {X: 1}, {X: 2}})

	path := filepath.Join(t.TempDir(), "subset.txt")
	require.NoError(t, os.WriteFile(path, []byte("2\n\n0\n"), 0o644))

	subset, err := loadSubset(c, path)
	require.NoError(t, err)
	assert.Equal(t, 2, subset.Size())
	assert.Equal(t, 2, subset.IndexAt(0))
	assert.Equal(t, 0, subset.IndexAt(1))

	require.NoError(t, os.WriteFile(path, []byte("nope\n"), 0o644))
	_, err = loadSubset(c, path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("5\n"), 0o644))
	_, err = loadSubset(c, path)
	assert.Error(t, err)
}
