package bench

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestWriteCSV(t *testing.T) {
	data := mat.NewDense(3, 2, []float64{
		1.5, 2,
		3, 4.25,
		5, 6,
	})
	labels := []int{0, 7, 0}

	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, data, labels))

	assert.Equal(t, "1.5,2,class-0\n3,4.25,class-7\n5,6,class-0\n", sb.String())
}

func TestWriteCSV_LabelMismatch(t *testing.T) {
	data := mat.NewDense(2, 1, []float64{1, 2})
	err := WriteCSV(&strings.Builder{}, data, []int{1})
	assert.Error(t, err)
}
