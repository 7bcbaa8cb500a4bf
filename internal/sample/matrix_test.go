package sample

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/masc-ml/masc/internal/cloud"
	"github.com/masc-ml/masc/internal/feature"
)

func testCloud(t *testing.T) *cloud.PointCloud {
	t.Helper()
	c := cloud.New("test", []cloud.Point{
		{X: 0, Y: 0, Z: 10},
		{X: 1, Y: 0, Z: 11},
		{X: 2, Y: 0, Z: 12},
		{X: 3, Y: 0, Z: 13},
	})
	c.AddScalarField("Intensity", []float64{100, 101, 102, 103})
	c.AddScalarField(cloud.ClassificationField, []float64{0, 1.9, 2, 1})
	return c
}

func TestBuild_FullCloud(t *testing.T) {
	c := testCloud(t)
	features := []feature.Feature{
		feature.New(c, feature.ScalarField, "Intensity"),
		feature.New(c, feature.DimZ, ""),
	}

	data, err := Build(features, nil, c)
	require.NoError(t, err)

	rows, cols := data.Dims()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 2, cols)

	want := mat.NewDense(4, 2, []float64{
		100, 10,
		101, 11,
		102, 12,
		103, 13,
	})
	if diff := cmp.Diff(want.RawMatrix().Data, data.RawMatrix().Data); diff != "" {
		t.Errorf("matrix mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Subset(t *testing.T) {
	c := testCloud(t)
	subset, err := cloud.NewSubset(c, []int{3, 0})
	require.NoError(t, err)

	features := []feature.Feature{
		feature.New(c, feature.DimX, ""),
		feature.New(c, feature.ScalarField, "Intensity"),
	}

	data, err := Build(features, subset, c)
	require.NoError(t, err)

	rows, cols := data.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, 2, cols)

	// row i must map to point subset[i], per column
	for i := 0; i < subset.Size(); i++ {
		for j, f := range features {
			source, err := feature.Resolve(f, c)
			require.NoError(t, err)
			assert.Equal(t, source.ValueAt(subset.IndexAt(i)), data.At(i, j))
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	c := testCloud(t)
	other := cloud.New("other", []cloud.Point{{X: 9}})

	t.Run("empty features", func(t *testing.T) {
		_, err := Build(nil, nil, c)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no features")
	})

	t.Run("cross cloud feature", func(t *testing.T) {
		features := []feature.Feature{
			feature.New(c, feature.DimX, ""),
			feature.New(other, feature.DimX, ""),
		}
		_, err := Build(features, nil, c)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "backing cloud differs")
	})

	t.Run("unresolvable source", func(t *testing.T) {
		features := []feature.Feature{feature.New(c, feature.ScalarField, "Missing")}
		_, err := Build(features, nil, c)
		assert.Error(t, err)
	})

	t.Run("subset of a different cloud", func(t *testing.T) {
		subset, err := cloud.NewSubset(other, []int{0})
		require.NoError(t, err)
		_, err = Build([]feature.Feature{feature.New(c, feature.DimX, "")}, subset, c)
		assert.Error(t, err)
	})

	t.Run("empty cloud", func(t *testing.T) {
		empty := cloud.New("empty", nil)
		_, err := Build([]feature.Feature{feature.New(empty, feature.DimX, "")}, nil, empty)
		assert.Error(t, err)
	})
}

func TestBuildLabels(t *testing.T) {
	c := testCloud(t)

	labels, err := BuildLabels(nil, c)
	require.NoError(t, err)
	// values are truncated to int, not rounded
	assert.Equal(t, []int{0, 1, 2, 1}, labels)

	subset, err := cloud.NewSubset(c, []int{2, 2, 0})
	require.NoError(t, err)
	labels, err = BuildLabels(subset, c)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 0}, labels)
}

func TestBuildLabels_MissingField(t *testing.T) {
	c := cloud.New("unlabeled", []cloud.Point{{X: 1}})
	_, err := BuildLabels(nil, c)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), cloud.ClassificationField)
}

func TestBuildLabels_ShortField(t *testing.T) {
	c := cloud.New("short", []cloud.Point{{X: 1}, {X: 2}})
	c.AddScalarField(cloud.ClassificationField, []float64{1})
	_, err := BuildLabels(nil, c)
	assert.Error(t, err)
}
