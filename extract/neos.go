package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/hupe1980/neogo/model"
)

// Columns consumed from the NEO inventory CSV. Extra columns are ignored.
const (
	colDesignation = "pdes"
	colName        = "name"
	colDiameter    = "diameter"
	colHazardous   = "pha"
)

// LoadNEOs reads the NEO inventory from a headered CSV. An empty diameter
// cell loads as NaN (unknown); the hazard flag is true only for "Y". Rows
// are validated as they are read; the first malformed row aborts the load
// with a ParseError.
func LoadNEOs(r io.Reader) ([]*model.NearEarthObject, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read neo csv header: %w", err)
	}

	cols, err := columnIndex(header, colDesignation, colName, colDiameter, colHazardous)
	if err != nil {
		return nil, fmt.Errorf("neo csv: %w", err)
	}

	var neos []*model.NearEarthObject
	for row := 1; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Row: row, cause: err}
		}

		diameter := math.NaN()
		if raw := record[cols[colDiameter]]; raw != "" {
			diameter, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, &ParseError{Row: row, Column: colDiameter, cause: err}
			}
		}

		neos = append(neos, &model.NearEarthObject{
			Designation: record[cols[colDesignation]],
			Name:        record[cols[colName]],
			Diameter:    diameter,
			Hazardous:   record[cols[colHazardous]] == "Y",
		})
	}

	return neos, nil
}

// columnIndex maps header names to positions and verifies every required
// name is present.
func columnIndex(header []string, required ...string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}
	return cols, nil
}
