// Package classify trains and applies a supervised per-point classifier
// over point-cloud features, delegating the forest mathematics to the
// ensemble package.
package classify

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/masc-ml/masc/internal/cloud"
	"github.com/masc-ml/masc/internal/ensemble"
	"github.com/masc-ml/masc/internal/feature"
	"github.com/masc-ml/masc/internal/metrics"
	"github.com/masc-ml/masc/internal/progress"
	"github.com/masc-ml/masc/internal/sample"
	"github.com/masc-ml/masc/internal/storage/file/json"
)

var (
	ErrNotTrained   = errors.New("classifier hasn't been trained yet")
	ErrNoFeatures   = errors.New("no features provided")
	ErrNoTestSubset = errors.New("no test subset provided")
)

const (
	opTrain    = "train"
	opEvaluate = "evaluate"
	opSave     = "save"
	opLoad     = "load"

	outcomeOK    = "ok"
	outcomeError = "error"

	modelFileVersion = 1

	// tickInterval paces the progress pump while a long operation runs.
	tickInterval = 100 * time.Millisecond
)

// AccuracyMetrics summarizes one evaluation pass against ground truth.
type AccuracyMetrics struct {
	SampleCount  int
	CorrectCount int
	// Ratio is CorrectCount/SampleCount in [0,1], 0 for an empty sample.
	Ratio float64
}

// Classifier owns at most one trained model. It is not safe for
// concurrent use: callers serialize access to one instance.
type Classifier struct {
	sink    progress.Sink
	trainer ensemble.Trainer

	model    ensemble.Model
	modelID  string
	features []string
}

// New creates an untrained classifier. A nil sink means headless
// operation; progress signals are then dropped.
func New(sink progress.Sink) *Classifier {
	if sink == nil {
		sink = progress.NewVoid()
	}
	return &Classifier{
		sink:    sink,
		trainer: ensemble.TrainForest,
	}
}

// IsValid reports whether the classifier holds a trained model.
func (c *Classifier) IsValid() bool {
	return c.model != nil && c.model.Trained()
}

// ModelID identifies the trained model; empty while untrained.
func (c *Classifier) ModelID() string {
	return c.modelID
}

// FeatureNames returns the feature identities the model was trained on.
func (c *Classifier) FeatureNames() []string {
	return append([]string(nil), c.features...)
}

// Train fits a new model on the given features, over the train subset
// when provided or the whole backing cloud otherwise. Precondition
// failures leave any previously trained model untouched; a failure inside
// training discards it, so the classifier is never left half-updated.
func (c *Classifier) Train(params ensemble.Params, features []feature.Feature, trainSubset *cloud.Subset) (err error) {
	start := time.Now()
	defer func() {
		metrics.Observer.Observe(time.Since(start), opTrain)
		metrics.Observer.Increment(opTrain, outcome(err))
	}()

	if len(features) == 0 {
		return ErrNoFeatures
	}
	cl := features[0].Cloud
	if cl == nil {
		return fmt.Errorf("invalid feature %s: no associated point cloud", features[0])
	}
	if trainSubset != nil && trainSubset.Cloud() != cl {
		return fmt.Errorf("invalid train subset: associated point cloud is different")
	}

	labels, err := sample.BuildLabels(trainSubset, cl)
	if err != nil {
		return err
	}
	data, err := sample.Build(features, trainSubset, cl)
	if err != nil {
		return err
	}

	rows, cols := data.Dims()
	log.Info().
		Str("cloud", cl.Name()).
		Int("samples", rows).
		Int("features", cols).
		Msg("training data")

	var model ensemble.Model
	err = c.run("training classifier", func() error {
		m, err := c.trainer(data, labels, params)
		if err != nil {
			return err
		}
		model = m
		return nil
	})
	if err != nil {
		c.reset()
		return fmt.Errorf("training failed: %w", err)
	}
	if model == nil || !model.Trained() {
		c.reset()
		return fmt.Errorf("training failed for an unknown reason")
	}

	c.model = model
	c.modelID = uuid.New().String()
	c.features = featureNames(features)

	if importance := model.Importance(); importance != nil {
		log.Info().
			Strs("features", c.features).
			Floats64("importance", importance).
			Msg("feature importance")
	}
	return nil
}

// Evaluate runs the trained model against an explicit held-out subset and
// compares predictions with the ground-truth labels. It never mutates the
// model; identical inputs yield identical metrics.
func (c *Classifier) Evaluate(features []feature.Feature, testSubset *cloud.Subset) (m AccuracyMetrics, err error) {
	start := time.Now()
	defer func() {
		metrics.Observer.Observe(time.Since(start), opEvaluate)
		metrics.Observer.Increment(opEvaluate, outcome(err))
	}()

	if !c.IsValid() {
		return m, ErrNotTrained
	}
	if len(features) == 0 {
		return m, ErrNoFeatures
	}
	if testSubset == nil {
		return m, ErrNoTestSubset
	}
	cl := features[0].Cloud
	if cl == nil {
		return m, fmt.Errorf("invalid feature %s: no associated point cloud", features[0])
	}
	if testSubset.Cloud() != cl {
		return m, fmt.Errorf("invalid test subset: associated point cloud is different")
	}
	if testSubset.Size() == 0 {
		// nothing held out: zero samples, ratio 0
		log.Info().Str("cloud", cl.Name()).Msg("empty test subset")
		return m, nil
	}

	labels, err := sample.BuildLabels(testSubset, cl)
	if err != nil {
		return m, err
	}
	data, err := sample.Build(features, testSubset, cl)
	if err != nil {
		return m, err
	}

	rows, cols := data.Dims()
	log.Info().
		Str("cloud", cl.Name()).
		Int("samples", rows).
		Int("features", cols).
		Msg("testing data")

	correct := 0
	for i := 0; i < rows; i++ {
		predicted, err := c.model.Predict(data.RawRowView(i))
		if err != nil {
			return AccuracyMetrics{}, fmt.Errorf("prediction failed on sample %d: %w", i, err)
		}
		if predicted == labels[i] {
			correct++
		}
	}

	m = AccuracyMetrics{SampleCount: rows, CorrectCount: correct}
	if rows > 0 {
		m.Ratio = float64(correct) / float64(rows)
	}

	log.Info().
		Int("samples", m.SampleCount).
		Int("correct", m.CorrectCount).
		Float64("ratio", m.Ratio).
		Msg("classifier evaluated")

	return m, nil
}

func (c *Classifier) reset() {
	c.model = nil
	c.modelID = ""
	c.features = nil
}

// run executes op in the background while pumping the progress sink, so a
// host indicator stays responsive for the duration.
func (c *Classifier) run(label string, op func() error) error {
	c.sink.Start(label)
	defer c.sink.Done()

	done := make(chan error, 1)
	go func() {
		done <- op()
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			return err
		case <-ticker.C:
			c.sink.Tick()
		}
	}
}

func outcome(err error) string {
	if err != nil {
		return outcomeError
	}
	return outcomeOK
}

func featureNames(features []feature.Feature) []string {
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = f.String()
	}
	return names
}

// modelFile is the persisted classifier layout.
type modelFile struct {
	Version   int               `json:"version"`
	ModelID   string            `json:"model_id"`
	CreatedAt time.Time         `json:"created_at"`
	Features  []string          `json:"features"`
	Model     ensemble.Snapshot `json:"model"`
}

// ToFile saves the trained model to the given path, atomically.
func (c *Classifier) ToFile(path string) (err error) {
	start := time.Now()
	defer func() {
		metrics.Observer.Observe(time.Since(start), opSave)
		metrics.Observer.Increment(opSave, outcome(err))
	}()

	if c.model == nil {
		return fmt.Errorf("classifier hasn't been trained, can't save it")
	}
	snap, err := c.model.Snapshot()
	if err != nil {
		return err
	}
	file := modelFile{
		Version:   modelFileVersion,
		ModelID:   c.modelID,
		CreatedAt: time.Now(),
		Features:  c.features,
		Model:     snap,
	}

	err = c.run("saving classifier", func() error {
		return json.Save(path, file)
	})
	if err != nil {
		return err
	}

	log.Info().Str("path", path).Str("model", c.modelID).Msg("classifier saved")
	return nil
}

// FromFile replaces the classifier state with the model persisted at the
// given path. Loading an untrained model is not an error: load success
// and trained state are orthogonal, the latter stays visible via IsValid.
func (c *Classifier) FromFile(path string) (err error) {
	start := time.Now()
	defer func() {
		metrics.Observer.Observe(time.Since(start), opLoad)
		metrics.Observer.Increment(opLoad, outcome(err))
	}()

	var file modelFile
	err = c.run("loading classifier", func() error {
		return json.Load(path, &file)
	})
	if err != nil {
		return err
	}
	if file.Version != modelFileVersion {
		return fmt.Errorf("unsupported classifier file version %d", file.Version)
	}

	model, err := ensemble.Restore(file.Model)
	if err != nil {
		return err
	}

	c.model = model
	c.modelID = file.ModelID
	c.features = file.Features

	if !model.Trained() {
		log.Warn().Str("path", path).Msg("loaded classifier doesn't seem to be trained")
	} else {
		log.Info().Str("path", path).Str("model", c.modelID).Msg("classifier loaded")
	}
	return nil
}
