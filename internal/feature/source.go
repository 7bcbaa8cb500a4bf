package feature

import (
	"fmt"

	"github.com/masc-ml/masc/internal/cloud"
)

// ValueSource is a resolved per-point numeric accessor.
// ValueAt must only be called on a valid source with an index below the
// backing cloud's point count; callers enforce both.
type ValueSource interface {
	ValueAt(index int) float64
	Valid() bool
}

type fieldSource struct {
	values []float64
	size   int
}

func (s *fieldSource) ValueAt(index int) float64 {
	return s.values[index]
}

func (s *fieldSource) Valid() bool {
	return len(s.values) >= s.size
}

type dimSource struct {
	cloud *cloud.PointCloud
	dim   Source
}

func (s *dimSource) ValueAt(index int) float64 {
	p := s.cloud.PointAt(index)
	switch s.dim {
	case DimX:
		return p.X
	case DimY:
		return p.Y
	default:
		return p.Z
	}
}

func (s *dimSource) Valid() bool {
	return s.cloud != nil
}

type colorSource struct {
	cloud   *cloud.PointCloud
	channel Source
}

func (s *colorSource) ValueAt(index int) float64 {
	c := s.cloud.ColorAt(index)
	switch s.channel {
	case Red:
		return float64(c.R)
	case Green:
		return float64(c.G)
	default:
		return float64(c.B)
	}
}

func (s *colorSource) Valid() bool {
	return s.cloud != nil && s.cloud.HasColors()
}

// Resolve turns a feature descriptor into a concrete value source over the
// given cloud. It is a pure function: it fails when a scalar-field feature
// names a field absent from (or too short for) the cloud, or when a color
// feature targets a cloud without color data.
func Resolve(f Feature, c *cloud.PointCloud) (ValueSource, error) {
	if c == nil {
		return nil, fmt.Errorf("feature %s: no backing cloud", f)
	}

	switch f.Source {
	case ScalarField:
		values, err := c.ValidScalarField(f.Name)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", f, err)
		}
		return &fieldSource{values: values, size: c.Size()}, nil

	case DimX, DimY, DimZ:
		return &dimSource{cloud: c, dim: f.Source}, nil

	case Red, Green, Blue:
		if !c.HasColors() {
			return nil, fmt.Errorf("feature %s: cloud '%s' has no color data", f, c.Name())
		}
		return &colorSource{cloud: c, channel: f.Source}, nil
	}

	return nil, fmt.Errorf("feature %s: unknown source kind", f)
}
