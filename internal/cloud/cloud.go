package cloud

import "fmt"

// ClassificationField is the distinguished scalar field carrying the
// per-point ground-truth class label.
const ClassificationField = "Classification"

// Point holds the 3D coordinates of a single cloud point.
type Point struct {
	X float64
	Y float64
	Z float64
}

// Color holds the RGB components of a single cloud point.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// PointCloud is an ordered, indexable collection of points with optional
// per-point colors and any number of named scalar fields.
// Point indices are stable for the lifetime of the cloud.
type PointCloud struct {
	name   string
	points []Point
	colors []Color
	fields map[string][]float64
	order  []string
}

// New creates a point cloud over the given points.
func New(name string, points []Point) *PointCloud {
	return &PointCloud{
		name:   name,
		points: points,
		fields: make(map[string][]float64),
	}
}

// Name returns the cloud identifier.
func (c *PointCloud) Name() string {
	return c.name
}

// Size returns the number of points in the cloud.
func (c *PointCloud) Size() int {
	return len(c.points)
}

// PointAt returns the coordinates of the point at the given index.
func (c *PointCloud) PointAt(index int) Point {
	return c.points[index]
}

// SetColors attaches per-point color data to the cloud.
// The slice must carry exactly one color per point.
func (c *PointCloud) SetColors(colors []Color) error {
	if len(colors) != len(c.points) {
		return fmt.Errorf("cloud '%s': %d colors for %d points", c.name, len(colors), len(c.points))
	}
	c.colors = colors
	return nil
}

// HasColors reports whether the cloud carries per-point color data.
func (c *PointCloud) HasColors() bool {
	return len(c.colors) == len(c.points) && len(c.colors) > 0
}

// ColorAt returns the color of the point at the given index.
func (c *PointCloud) ColorAt(index int) Color {
	return c.colors[index]
}

// AddScalarField attaches a named scalar field to the cloud, replacing any
// previous field with the same name. A field shorter than the cloud is
// stored but reported invalid by ScalarField.
func (c *PointCloud) AddScalarField(name string, values []float64) {
	if _, ok := c.fields[name]; !ok {
		c.order = append(c.order, name)
	}
	c.fields[name] = values
}

// ScalarField looks up a named scalar field. The second return value is an
// explicit found flag, never an index convention.
func (c *PointCloud) ScalarField(name string) ([]float64, bool) {
	values, ok := c.fields[name]
	return values, ok
}

// ValidScalarField looks up a named scalar field and additionally checks
// that it is dense over the whole cloud (length >= point count).
func (c *PointCloud) ValidScalarField(name string) ([]float64, error) {
	values, ok := c.fields[name]
	if !ok {
		return nil, fmt.Errorf("cloud '%s': unknown scalar field '%s'", c.name, name)
	}
	if len(values) < len(c.points) {
		return nil, fmt.Errorf("cloud '%s': scalar field '%s' has %d values for %d points", c.name, name, len(values), len(c.points))
	}
	return values, nil
}

// ScalarFieldNames returns the field names in insertion order.
func (c *PointCloud) ScalarFieldNames() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}
