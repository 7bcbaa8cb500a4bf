package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masc-ml/masc/internal/cloud"
)

func testCloud(t *testing.T) *cloud.PointCloud {
	t.Helper()
	c := cloud.New("test", []cloud.Point{
		{X: 1, Y: 2, Z: 3},
		{X: 4, Y: 5, Z: 6},
	})
	require.NoError(t, c.SetColors([]cloud.Color{
		{R: 10, G: 20, B: 30},
		{R: 40, G: 50, B: 60},
	}))
	c.AddScalarField("Intensity", []float64{0.5, 1.5})
	c.AddScalarField("Short", []float64{0.5})
	return c
}

func TestFeature_String(t *testing.T) {
	c := testCloud(t)
	assert.Equal(t, "SF[Intensity]", New(c, ScalarField, "Intensity").String())
	assert.Equal(t, "DimZ", New(c, DimZ, "").String())
	assert.Equal(t, "Green", New(c, Green, "").String())
}

func TestResolve_ScalarField(t *testing.T) {
	c := testCloud(t)

	source, err := Resolve(New(c, ScalarField, "Intensity"), c)
	require.NoError(t, err)
	assert.True(t, source.Valid())
	assert.Equal(t, 0.5, source.ValueAt(0))
	assert.Equal(t, 1.5, source.ValueAt(1))

	_, err = Resolve(New(c, ScalarField, "Missing"), c)
	assert.Error(t, err)

	_, err = Resolve(New(c, ScalarField, "Short"), c)
	assert.Error(t, err)
}

func TestResolve_Dims(t *testing.T) {
	c := testCloud(t)

	for _, tt := range []struct {
		source Source
		want   []float64
	}{
		{DimX, []float64{1, 4}},
		{DimY, []float64{2, 5}},
		{DimZ, []float64{3, 6}},
	} {
		s, err := Resolve(New(c, tt.source, ""), c)
		require.NoError(t, err)
		assert.True(t, s.Valid())
		for i, want := range tt.want {
			assert.Equal(t, want, s.ValueAt(i), "%s at %d", tt.source, i)
		}
	}
}

func TestResolve_Colors(t *testing.T) {
	c := testCloud(t)

	for _, tt := range []struct {
		source Source
		want   []float64
	}{
		{Red, []float64{10, 40}},
		{Green, []float64{20, 50}},
		{Blue, []float64{30, 60}},
	} {
		s, err := Resolve(New(c, tt.source, ""), c)
		require.NoError(t, err)
		assert.True(t, s.Valid())
		for i, want := range tt.want {
			assert.Equal(t, want, s.ValueAt(i), "%s at %d", tt.source, i)
		}
	}

	bare := cloud.New("bare", []cloud.Point{{X: 1}})
	_, err := Resolve(New(bare, Blue, ""), bare)
	assert.Error(t, err)
}

func TestResolve_NoCloud(t *testing.T) {
	_, err := Resolve(New(nil, DimX, ""), nil)
	assert.Error(t, err)
}
