// Package bench cross-checks the classifier pipeline against an
// independent random-forest implementation. The sample matrix is exported
// to CSV, handed to golearn with a train/test split and summarized with a
// confusion matrix, giving an outside opinion on whether a feature set is
// learnable at all.
package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/ensemble"
	"github.com/sjwhitworth/golearn/evaluation"
	"github.com/sjwhitworth/golearn/filters"
	"gonum.org/v1/gonum/mat"
)

// fixed seed keeps cross-check runs reproducible
const seed = 44111342

// Result holds the cross-check outcome.
type Result struct {
	Accuracy float64
	Summary  string
}

// WriteCSV dumps a (matrix, labels) pair in the layout golearn consumes:
// one row per sample, feature columns first, the class label last, no
// header. Labels are written as categorical tokens so the class column is
// never mistaken for a numeric attribute.
func WriteCSV(w io.Writer, data *mat.Dense, labels []int) error {
	rows, cols := data.Dims()
	if len(labels) != rows {
		return fmt.Errorf("%d labels for %d samples", len(labels), rows)
	}

	out := csv.NewWriter(w)
	record := make([]string, cols+1)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			record[j] = strconv.FormatFloat(data.At(i, j), 'f', -1, 64)
		}
		record[cols] = "class-" + strconv.Itoa(labels[i])
		if err := out.Write(record); err != nil {
			return fmt.Errorf("could not write sample %d: %w", i, err)
		}
	}
	out.Flush()
	return out.Error()
}

// WriteCSVFile writes the (matrix, labels) pair to the given path.
func WriteCSVFile(path string, data *mat.Dense, labels []int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create '%s': %w", path, err)
	}
	defer f.Close()
	return WriteCSV(f, data, labels)
}

// CrossCheck trains golearn's random forest on the samples at csvPath
// with the given train split and returns its held-out accuracy.
func CrossCheck(csvPath string, trees int, split float64) (Result, error) {
	rand.Seed(seed)

	instances, err := base.ParseCSVToInstances(csvPath, false)
	if err != nil {
		return Result{}, fmt.Errorf("could not parse samples '%s': %w", csvPath, err)
	}

	filtered, err := preProcess(instances)
	if err != nil {
		return Result{}, fmt.Errorf("could not discretise samples: %w", err)
	}

	trainData, testData := base.InstancesTrainTestSplit(filtered, split)

	attributes := len(base.NonClassAttributes(trainData))
	perSplit := int(math.Sqrt(float64(attributes)))
	if perSplit < 1 {
		perSplit = 1
	}

	forest := ensemble.NewRandomForest(trees, perSplit)
	if err := forest.Fit(trainData); err != nil {
		return Result{}, fmt.Errorf("cross-check training failed: %w", err)
	}
	predictions, err := forest.Predict(testData)
	if err != nil {
		return Result{}, fmt.Errorf("cross-check prediction failed: %w", err)
	}

	cf, err := evaluation.GetConfusionMatrix(testData, predictions)
	if err != nil {
		return Result{}, fmt.Errorf("could not compute confusion matrix: %w", err)
	}

	result := Result{
		Accuracy: evaluation.GetAccuracy(cf),
		Summary:  evaluation.GetSummary(cf),
	}

	log.Info().
		Int("trees", trees).
		Int("attributes", attributes).
		Float64("accuracy", result.Accuracy).
		Msg("cross-check complete")

	return result, nil
}

// preProcess discretises the float attributes with Chi-Merge.
func preProcess(instances *base.DenseInstances) (*base.LazilyFilteredInstances, error) {
	filt := filters.NewChiMergeFilter(instances, 0.999)
	for _, a := range base.NonClassFloatAttributes(instances) {
		filt.AddAttribute(a)
	}
	if err := filt.Train(); err != nil {
		return nil, err
	}
	return base.NewLazilyFilteredInstances(instances, filt), nil
}
