package ensemble

import (
	"encoding/json"
	"fmt"

	randomforest "github.com/malaschitz/randomForest"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

// Forest is the random-forest model implementation.
type Forest struct {
	forest *randomforest.Forest
	// classes maps dense class indices (what the forest votes on) back to
	// the original labels, in first-seen training order.
	classes    []int
	importance []float64
}

// TrainForest fits a random forest on the given row-major sample matrix
// and parallel label vector. Labels may be any integers; they are mapped
// to dense class indices for the forest and mapped back on prediction.
func TrainForest(x *mat.Dense, labels []int, params Params) (model Model, err error) {
	rows, cols := x.Dims()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("empty sample matrix (%dx%d)", rows, cols)
	}
	if len(labels) != rows {
		return nil, fmt.Errorf("%d labels for %d samples", len(labels), rows)
	}

	classes := make([]int, 0)
	classIndex := make(map[int]int)
	dense := make([]int, rows)
	for i, label := range labels {
		index, ok := classIndex[label]
		if !ok {
			index = len(classes)
			classIndex[label] = index
			classes = append(classes, label)
		}
		dense[i] = index
	}

	xx := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		xx[i] = x.RawRowView(i)
	}

	trees := params.MaxTreeCount
	if trees <= 0 {
		trees = DefaultParams().MaxTreeCount
	}

	forest := &randomforest.Forest{
		Data:      randomforest.ForestData{X: xx, Class: dense},
		MaxDepth:  params.MaxDepth,
		LeafSize:  params.MinSampleCount,
		MFeatures: params.ActiveVarCount,
	}

	// the trainer signals numeric/allocation failures by panicking;
	// surface those as errors at the boundary
	defer func() {
		if r := recover(); r != nil {
			model = nil
			err = fmt.Errorf("forest training failed: %v", r)
		}
	}()
	forest.Train(trees)

	f := &Forest{forest: forest, classes: classes}
	if params.CalcVarImportance {
		f.importance = forest.FeatureImportance
	}

	log.Debug().
		Int("samples", rows).
		Int("features", cols).
		Int("classes", len(classes)).
		Int("trees", trees).
		Msg("forest trained")

	return f, nil
}

// Trained reports whether the forest holds at least one fitted tree.
func (f *Forest) Trained() bool {
	return f != nil && f.forest != nil && len(f.forest.Trees) > 0 && len(f.classes) > 0
}

// Predict returns the label of the class with the highest vote for a
// single sample row.
func (f *Forest) Predict(x []float64) (label int, err error) {
	if !f.Trained() {
		return 0, fmt.Errorf("forest hasn't been trained")
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("forest prediction failed: %v", r)
		}
	}()

	votes := f.forest.Vote(x)
	if len(votes) == 0 {
		return 0, fmt.Errorf("forest returned no votes")
	}

	best := 0
	for i, v := range votes {
		if v > votes[best] {
			best = i
		}
	}
	if best >= len(f.classes) {
		return 0, fmt.Errorf("vote index %d outside class table of size %d", best, len(f.classes))
	}
	return f.classes[best], nil
}

// Importance returns per-feature importance when it was requested at
// training time.
func (f *Forest) Importance() []float64 {
	return f.importance
}

// Snapshot serializes the forest state with the training data stripped:
// prediction only needs the tree structure and the class table.
func (f *Forest) Snapshot() (Snapshot, error) {
	if f == nil || f.forest == nil {
		return Snapshot{}, fmt.Errorf("no forest to snapshot")
	}

	stripped := *f.forest
	stripped.Data = randomforest.ForestData{}
	raw, err := json.Marshal(&stripped)
	if err != nil {
		return Snapshot{}, fmt.Errorf("could not serialize forest: %w", err)
	}

	return Snapshot{
		Classes:    append([]int(nil), f.classes...),
		Importance: append([]float64(nil), f.importance...),
		Forest:     raw,
	}, nil
}

// Restore rebuilds a forest model from a snapshot. The restored model may
// legitimately report itself untrained when the snapshot holds no trees;
// that is the caller's check to make.
func Restore(snap Snapshot) (*Forest, error) {
	forest := &randomforest.Forest{}
	if err := json.Unmarshal(snap.Forest, forest); err != nil {
		return nil, fmt.Errorf("could not deserialize forest: %w", err)
	}
	if forest.NTrees == 0 {
		forest.NTrees = len(forest.Trees)
	}
	return &Forest{
		forest:     forest,
		classes:    append([]int(nil), snap.Classes...),
		importance: append([]float64(nil), snap.Importance...),
	}, nil
}
