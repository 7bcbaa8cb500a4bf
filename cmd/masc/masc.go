package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/masc-ml/masc/internal/bench"
	"github.com/masc-ml/masc/internal/classify"
	"github.com/masc-ml/masc/internal/cloud"
	"github.com/masc-ml/masc/internal/cloud/csvio"
	"github.com/masc-ml/masc/internal/ensemble"
	"github.com/masc-ml/masc/internal/feature"
	"github.com/masc-ml/masc/internal/progress"
	"github.com/masc-ml/masc/internal/sample"
	"github.com/masc-ml/masc/internal/storage/sqlite"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "train":
		err = train(os.Args[2:])
	case "evaluate":
		err = evaluate(os.Args[2:])
	case "crosscheck":
		err = crosscheck(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Str("command", os.Args[1]).Msg("command failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: masc <command> [flags]

commands:
  train       fit a classifier on a labeled cloud and save it
  evaluate    run a saved classifier against a held-out subset
  crosscheck  sanity-check a feature set with an independent forest

Clouds are CSV files with x,y,z columns, optional red,green,blue columns
and one column per scalar field; the "Classification" field carries the
ground truth. Features are a comma separated list of scalar field names
or the tokens DimX,DimY,DimZ,Red,Green,Blue.
`)
}

func train(args []string) error {
	flags := flag.NewFlagSet("train", flag.ExitOnError)
	cloudPath := flags.String("cloud", "", "path to the labeled cloud CSV")
	featureSpec := flags.String("features", "", "features to train on")
	subsetPath := flags.String("subset", "", "optional file with one point index per line")
	out := flags.String("out", "classifier.json", "where to save the trained classifier")
	runsPath := flags.String("runs", "", "optional sqlite run history")
	metricsAddr := flags.String("metrics-addr", "", "optional prometheus listen address")
	trees := flags.Int("trees", ensemble.DefaultParams().MaxTreeCount, "maximum tree count")
	depth := flags.Int("depth", ensemble.DefaultParams().MaxDepth, "maximum tree depth")
	minSamples := flags.Int("min-samples", ensemble.DefaultParams().MinSampleCount, "minimum samples per leaf")
	activeVars := flags.Int("active-vars", 0, "features drawn per split, 0 for sqrt")
	importance := flags.Bool("importance", false, "compute feature importance")
	if err := flags.Parse(args); err != nil {
		return err
	}
	serveMetrics(*metricsAddr)

	c, features, subset, err := loadInputs(*cloudPath, *featureSpec, *subsetPath)
	if err != nil {
		return err
	}

	params := ensemble.Params{
		MaxDepth:          *depth,
		MinSampleCount:    *minSamples,
		ActiveVarCount:    *activeVars,
		CalcVarImportance: *importance,
		MaxTreeCount:      *trees,
	}

	clf := classify.New(progress.NewLog())
	if err := clf.Train(params, features, subset); err != nil {
		return err
	}
	if err := clf.ToFile(*out); err != nil {
		return err
	}

	samples := c.Size()
	if subset != nil {
		samples = subset.Size()
	}
	return recordRun(*runsPath, &sqlite.Run{
		ModelID:     clf.ModelID(),
		Operation:   "train",
		SampleCount: samples,
	})
}

func evaluate(args []string) error {
	flags := flag.NewFlagSet("evaluate", flag.ExitOnError)
	cloudPath := flags.String("cloud", "", "path to the labeled cloud CSV")
	featureSpec := flags.String("features", "", "features the classifier was trained on")
	model := flags.String("model", "classifier.json", "path to the saved classifier")
	subsetPath := flags.String("subset", "", "file with one held-out point index per line")
	runsPath := flags.String("runs", "", "optional sqlite run history")
	metricsAddr := flags.String("metrics-addr", "", "optional prometheus listen address")
	if err := flags.Parse(args); err != nil {
		return err
	}
	serveMetrics(*metricsAddr)

	_, features, subset, err := loadInputs(*cloudPath, *featureSpec, *subsetPath)
	if err != nil {
		return err
	}

	clf := classify.New(progress.NewLog())
	if err := clf.FromFile(*model); err != nil {
		return err
	}

	metrics, err := clf.Evaluate(features, subset)
	if err != nil {
		return err
	}

	fmt.Printf("samples: %d\ncorrect: %d\naccuracy: %.4f\n",
		metrics.SampleCount, metrics.CorrectCount, metrics.Ratio)

	return recordRun(*runsPath, &sqlite.Run{
		ModelID:      clf.ModelID(),
		Operation:    "evaluate",
		SampleCount:  metrics.SampleCount,
		CorrectCount: metrics.CorrectCount,
		Ratio:        metrics.Ratio,
	})
}

func crosscheck(args []string) error {
	flags := flag.NewFlagSet("crosscheck", flag.ExitOnError)
	cloudPath := flags.String("cloud", "", "path to the labeled cloud CSV")
	featureSpec := flags.String("features", "", "features to check")
	subsetPath := flags.String("subset", "", "optional file with one point index per line")
	trees := flags.Int("trees", 100, "forest size")
	split := flags.Float64("split", 0.6, "train fraction of the split")
	if err := flags.Parse(args); err != nil {
		return err
	}

	c, features, subset, err := loadInputs(*cloudPath, *featureSpec, *subsetPath)
	if err != nil {
		return err
	}

	labels, err := sample.BuildLabels(subset, c)
	if err != nil {
		return err
	}
	data, err := sample.Build(features, subset, c)
	if err != nil {
		return err
	}

	tmp := filepath.Join(os.TempDir(), fmt.Sprintf("masc-samples-%d.csv", os.Getpid()))
	defer os.Remove(tmp)
	if err := bench.WriteCSVFile(tmp, data, labels); err != nil {
		return err
	}

	result, err := bench.CrossCheck(tmp, *trees, *split)
	if err != nil {
		return err
	}

	fmt.Println(result.Summary)
	fmt.Printf("cross-check accuracy: %.4f\n", result.Accuracy)
	return nil
}

func loadInputs(cloudPath, featureSpec, subsetPath string) (*cloud.PointCloud, []feature.Feature, *cloud.Subset, error) {
	if cloudPath == "" {
		return nil, nil, nil, fmt.Errorf("no cloud provided, use -cloud")
	}
	c, err := csvio.LoadFile(cloudPath)
	if err != nil {
		return nil, nil, nil, err
	}

	features, err := parseFeatures(c, featureSpec)
	if err != nil {
		return nil, nil, nil, err
	}

	var subset *cloud.Subset
	if subsetPath != "" {
		subset, err = loadSubset(c, subsetPath)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return c, features, subset, nil
}

var sourceTokens = map[string]feature.Source{
	"dimx":  feature.DimX,
	"dimy":  feature.DimY,
	"dimz":  feature.DimZ,
	"red":   feature.Red,
	"green": feature.Green,
	"blue":  feature.Blue,
}

func parseFeatures(c *cloud.PointCloud, spec string) ([]feature.Feature, error) {
	if spec == "" {
		return nil, fmt.Errorf("no features provided, use -features")
	}
	var features []feature.Feature
	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if source, ok := sourceTokens[strings.ToLower(token)]; ok {
			features = append(features, feature.New(c, source, ""))
			continue
		}
		features = append(features, feature.New(c, feature.ScalarField, token))
	}
	return features, nil
}

func loadSubset(c *cloud.PointCloud, path string) (*cloud.Subset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read subset '%s': %w", path, err)
	}
	var indices []int
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		index, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("subset '%s' line %d: %w", path, i+1, err)
		}
		indices = append(indices, index)
	}
	return cloud.NewSubset(c, indices)
}

func recordRun(path string, run *sqlite.Run) error {
	if path == "" {
		return nil
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Insert(run)
}

func serveMetrics(addr string) {
	if addr == "" {
		return
	}
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()
}
