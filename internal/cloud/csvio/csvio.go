// Package csvio loads point clouds from CSV files.
//
// The expected layout is one header row followed by one row per point:
// the columns x,y,z are mandatory, red,green,blue are optional (all three
// or none) and every remaining column becomes a named scalar field.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/masc-ml/masc/internal/cloud"
)

const (
	colX     = "x"
	colY     = "y"
	colZ     = "z"
	colRed   = "red"
	colGreen = "green"
	colBlue  = "blue"
)

// LoadFile reads a point cloud from the CSV file at the given path.
// The file name (without extension) becomes the cloud name.
func LoadFile(path string) (*cloud.PointCloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open cloud file '%s': %w", path, err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), ".csv")
	return Load(f, name)
}

// Load reads a point cloud from the given reader.
func Load(r io.Reader, name string) (*cloud.PointCloud, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not parse cloud '%s': %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("cloud '%s': no header row", name)
	}

	header := records[0]
	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colX, colY, colZ} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("cloud '%s': missing '%s' column", name, required)
		}
	}

	_, hasRed := columns[colRed]
	_, hasGreen := columns[colGreen]
	_, hasBlue := columns[colBlue]
	hasColor := hasRed && hasGreen && hasBlue
	if (hasRed || hasGreen || hasBlue) && !hasColor {
		return nil, fmt.Errorf("cloud '%s': partial color columns, need all of red,green,blue", name)
	}

	rows := records[1:]
	points := make([]cloud.Point, len(rows))
	var colors []cloud.Color
	if hasColor {
		colors = make([]cloud.Color, len(rows))
	}

	fieldColumns := make(map[string]int)
	fieldOrder := make([]string, 0, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		switch key {
		case colX, colY, colZ, colRed, colGreen, colBlue:
		default:
			fieldColumns[strings.TrimSpace(h)] = i
			fieldOrder = append(fieldOrder, strings.TrimSpace(h))
		}
	}
	fields := make(map[string][]float64, len(fieldColumns))
	for f := range fieldColumns {
		fields[f] = make([]float64, len(rows))
	}

	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("cloud '%s': row %d has %d columns, header has %d", name, i+1, len(row), len(header))
		}
		if points[i].X, err = parseValue(row[columns[colX]]); err != nil {
			return nil, fmt.Errorf("cloud '%s': row %d: %w", name, i+1, err)
		}
		if points[i].Y, err = parseValue(row[columns[colY]]); err != nil {
			return nil, fmt.Errorf("cloud '%s': row %d: %w", name, i+1, err)
		}
		if points[i].Z, err = parseValue(row[columns[colZ]]); err != nil {
			return nil, fmt.Errorf("cloud '%s': row %d: %w", name, i+1, err)
		}
		if hasColor {
			if colors[i], err = parseColor(row[columns[colRed]], row[columns[colGreen]], row[columns[colBlue]]); err != nil {
				return nil, fmt.Errorf("cloud '%s': row %d: %w", name, i+1, err)
			}
		}
		for f, col := range fieldColumns {
			if fields[f][i], err = parseValue(row[col]); err != nil {
				return nil, fmt.Errorf("cloud '%s': row %d: field '%s': %w", name, i+1, f, err)
			}
		}
	}

	c := cloud.New(name, points)
	if hasColor {
		if err := c.SetColors(colors); err != nil {
			return nil, err
		}
	}
	for _, f := range fieldOrder {
		c.AddScalarField(f, fields[f])
	}

	log.Debug().
		Str("cloud", name).
		Int("points", c.Size()).
		Bool("colors", hasColor).
		Strs("fields", c.ScalarFieldNames()).
		Msg("cloud loaded")

	return c, nil
}

func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("could not parse value '%s': %w", s, err)
	}
	return v, nil
}

func parseColor(r, g, b string) (cloud.Color, error) {
	var c cloud.Color
	for _, channel := range []struct {
		raw string
		out *uint8
	}{{r, &c.R}, {g, &c.G}, {b, &c.B}} {
		v, err := strconv.ParseUint(strings.TrimSpace(channel.raw), 10, 8)
		if err != nil {
			return c, fmt.Errorf("could not parse color channel '%s': %w", channel.raw, err)
		}
		*channel.out = uint8(v)
	}
	return c, nil
}
