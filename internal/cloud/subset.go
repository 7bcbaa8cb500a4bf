package cloud

import "fmt"

// Subset is an ordered selection of global point indices over one cloud,
// used to restrict training or evaluation to a labeled or held-out sample.
type Subset struct {
	cloud   *PointCloud
	indices []int
}

// NewSubset creates a subset over the given cloud, validating every index
// against the cloud's point count.
func NewSubset(c *PointCloud, indices []int) (*Subset, error) {
	if c == nil {
		return nil, fmt.Errorf("subset has no backing cloud")
	}
	for pos, index := range indices {
		if index < 0 || index >= c.Size() {
			return nil, fmt.Errorf("subset of cloud '%s': index %d at position %d out of range [0,%d)", c.Name(), index, pos, c.Size())
		}
	}
	own := make([]int, len(indices))
	copy(own, indices)
	return &Subset{cloud: c, indices: own}, nil
}

// Cloud returns the backing cloud.
func (s *Subset) Cloud() *PointCloud {
	return s.cloud
}

// Size returns the number of selected points.
func (s *Subset) Size() int {
	return len(s.indices)
}

// IndexAt maps a position within the subset to the global point index.
func (s *Subset) IndexAt(pos int) int {
	return s.indices[pos]
}
