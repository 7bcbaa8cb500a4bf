// Package ensemble hides the decision-forest trainer behind a narrow
// contract: train, single-row predict, trained query and an opaque
// serializable snapshot. The classifier never sees the library underneath.
package ensemble

import (
	"encoding/json"

	"gonum.org/v1/gonum/mat"
)

// Params carries the random-trees hyperparameters. It is passed by value
// into training and not retained afterwards.
type Params struct {
	// MaxDepth bounds the depth of every tree in the forest.
	MaxDepth int `json:"max_depth"`
	// MinSampleCount is the minimum number of samples per leaf.
	MinSampleCount int `json:"min_sample_count"`
	// ActiveVarCount is the number of features drawn per split;
	// 0 lets the trainer pick sqrt(feature count).
	ActiveVarCount int `json:"active_var_count"`
	// CalcVarImportance exposes per-feature importance on the result.
	CalcVarImportance bool `json:"calc_var_importance"`
	// MaxTreeCount bounds the training iterations: the forest stops
	// growing after this many trees.
	MaxTreeCount int `json:"max_tree_count"`
}

// DefaultParams returns the conventional random-trees configuration.
func DefaultParams() Params {
	return Params{
		MaxDepth:          25,
		MinSampleCount:    1,
		ActiveVarCount:    0,
		CalcVarImportance: false,
		MaxTreeCount:      100,
	}
}

// Snapshot is the serializable state of a trained model: the class table
// mapping dense class indices back to original labels, and the opaque
// trainer payload. Training data is never part of a snapshot.
type Snapshot struct {
	Classes    []int           `json:"classes"`
	Importance []float64       `json:"importance,omitempty"`
	Forest     json.RawMessage `json:"forest"`
}

// Model is a trained classification model.
type Model interface {
	// Predict returns the predicted class label for a single sample row.
	Predict(x []float64) (int, error)
	// Trained reports whether the model holds a usable forest.
	Trained() bool
	// Importance returns per-feature importance, nil when not computed.
	Importance() []float64
	// Snapshot serializes the model state.
	Snapshot() (Snapshot, error)
}

// Trainer fits a model on a row-major sample matrix and a parallel label
// vector. TrainForest is the default implementation; the type exists so a
// compatible forest library can be substituted without touching the
// classifier contract.
type Trainer func(x *mat.Dense, labels []int, params Params) (Model, error)
