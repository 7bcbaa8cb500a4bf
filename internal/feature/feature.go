// Package feature describes per-point numeric value extraction rules.
// A Feature designates one column of a sample matrix: a value source over
// a backing cloud, by named scalar field, coordinate or color channel.
package feature

import (
	"fmt"

	"github.com/masc-ml/masc/internal/cloud"
)

// Source enumerates the kinds of per-point value sources.
type Source int

const (
	// ScalarField reads a named scalar field of the backing cloud.
	ScalarField Source = iota
	// DimX, DimY and DimZ read a point coordinate component.
	DimX
	DimY
	DimZ
	// Red, Green and Blue read a point color channel.
	Red
	Green
	Blue
)

func (s Source) String() string {
	switch s {
	case ScalarField:
		return "SF"
	case DimX:
		return "DimX"
	case DimY:
		return "DimY"
	case DimZ:
		return "DimZ"
	case Red:
		return "Red"
	case Green:
		return "Green"
	case Blue:
		return "Blue"
	}
	return fmt.Sprintf("Source(%d)", int(s))
}

// Feature is an immutable descriptor of one sample-matrix column.
// The cloud reference is borrowed from the host and never owned: a feature
// must not outlive the call in which its cloud was supplied.
type Feature struct {
	Source Source
	// Name is the scalar field name, mandatory for ScalarField sources.
	Name  string
	Cloud *cloud.PointCloud
}

// New creates a feature over the given cloud.
func New(c *cloud.PointCloud, source Source, name string) Feature {
	return Feature{Source: source, Name: name, Cloud: c}
}

// String returns the formatted feature identity.
func (f Feature) String() string {
	if f.Source == ScalarField {
		return fmt.Sprintf("SF[%s]", f.Name)
	}
	return f.Source.String()
}
