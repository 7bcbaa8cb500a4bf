// Package sample assembles dense numeric matrices and label vectors from
// per-point value sources, as input to classifier training and evaluation.
package sample

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"

	"github.com/masc-ml/masc/internal/cloud"
	"github.com/masc-ml/masc/internal/feature"
)

// Build assembles a dense sample matrix with one row per selected point
// and one column per feature. When subset is nil all cloud points are
// selected, in index order.
//
// Sources are resolved once per feature and rows swept per column, which
// keeps source resolution off the hot loop; the observable contract is
// per-cell only: cell (i,j) equals feature j's value at point subset[i]
// (or i without a subset).
func Build(features []feature.Feature, subset *cloud.Subset, c *cloud.PointCloud) (*mat.Dense, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("no features provided")
	}
	if c == nil {
		return nil, fmt.Errorf("no cloud provided")
	}
	if subset != nil && subset.Cloud() != c {
		return nil, fmt.Errorf("subset references a different cloud than '%s'", c.Name())
	}

	rows := c.Size()
	if subset != nil {
		rows = subset.Size()
	}
	cols := len(features)

	if rows == 0 {
		return nil, fmt.Errorf("no samples selected on cloud '%s'", c.Name())
	}

	data := mat.NewDense(rows, cols, nil)
	for j, f := range features {
		if f.Cloud != c {
			return nil, fmt.Errorf("feature %s: backing cloud differs from the others", f)
		}
		source, err := feature.Resolve(f, c)
		if err != nil {
			return nil, fmt.Errorf("could not resolve source: %w", err)
		}
		for i := 0; i < rows; i++ {
			pointIndex := i
			if subset != nil {
				pointIndex = subset.IndexAt(i)
			}
			data.Set(i, j, source.ValueAt(pointIndex))
		}
	}

	log.Debug().
		Str("cloud", c.Name()).
		Int("samples", rows).
		Int("features", cols).
		Msg("sample matrix built")

	return data, nil
}

// BuildLabels extracts the integer-truncated ground-truth class per
// selected point from the cloud's Classification field, in the same row
// order as Build.
func BuildLabels(subset *cloud.Subset, c *cloud.PointCloud) ([]int, error) {
	if c == nil {
		return nil, fmt.Errorf("no cloud provided")
	}
	if subset != nil && subset.Cloud() != c {
		return nil, fmt.Errorf("subset references a different cloud than '%s'", c.Name())
	}

	values, err := c.ValidScalarField(cloud.ClassificationField)
	if err != nil {
		return nil, err
	}

	rows := c.Size()
	if subset != nil {
		rows = subset.Size()
	}

	labels := make([]int, rows)
	for i := 0; i < rows; i++ {
		pointIndex := i
		if subset != nil {
			pointIndex = subset.IndexAt(i)
		}
		labels[i] = int(values[pointIndex])
	}
	return labels, nil
}
