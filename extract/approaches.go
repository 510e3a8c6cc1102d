package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/hupe1980/neogo/model"
)

// Fields consumed from the CAD table JSON. Extra fields are ignored.
const (
	fieldDesignation = "des"
	fieldTime        = "cd"
	fieldDistance    = "dist"
	fieldVelocity    = "v_rel"
)

// cadTimeLayout is the calendar format of CAD cd values, e.g.
// "2020-Jan-01 13:45". Times are UTC.
const cadTimeLayout = "2006-Jan-02 15:04"

// LoadApproaches reads close approaches from a NASA CAD table document:
// a JSON object carrying a "fields" name array and a "data" array of rows.
// The data array is decoded row by row, so the document is never buffered
// whole. The "fields" entry must precede "data", which is how the CAD API
// emits it.
func LoadApproaches(r io.Reader) ([]*model.CloseApproach, error) {
	dec := json.NewDecoder(r)

	if err := expectDelim(dec, json.Delim('{')); err != nil {
		return nil, fmt.Errorf("cad json: %w", err)
	}

	var (
		cols       map[string]int
		approaches []*model.CloseApproach
	)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("cad json: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("cad json: unexpected token %v", tok)
		}

		switch key {
		case "fields":
			var fields []string
			if err := dec.Decode(&fields); err != nil {
				return nil, fmt.Errorf("failed to decode cad fields: %w", err)
			}
			cols, err = columnIndex(fields, fieldDesignation, fieldTime, fieldDistance, fieldVelocity)
			if err != nil {
				return nil, fmt.Errorf("cad json: %w", err)
			}

		case "data":
			if cols == nil {
				return nil, errors.New("cad json: data precedes fields")
			}
			if err := expectDelim(dec, json.Delim('[')); err != nil {
				return nil, fmt.Errorf("cad json: %w", err)
			}
			for row := 1; dec.More(); row++ {
				var record []any
				if err := dec.Decode(&record); err != nil {
					return nil, &ParseError{Row: row, cause: err}
				}
				ca, err := approachFromRecord(cols, record, row)
				if err != nil {
					return nil, err
				}
				approaches = append(approaches, ca)
			}
			if err := expectDelim(dec, json.Delim(']')); err != nil {
				return nil, fmt.Errorf("cad json: %w", err)
			}

		default:
			// signature, count and friends.
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("failed to skip cad entry %q: %w", key, err)
			}
		}
	}

	return approaches, nil
}

func approachFromRecord(cols map[string]int, record []any, row int) (*model.CloseApproach, error) {
	des, err := stringField(cols, record, fieldDesignation, row)
	if err != nil {
		return nil, err
	}

	cd, err := stringField(cols, record, fieldTime, row)
	if err != nil {
		return nil, err
	}
	t, err := time.ParseInLocation(cadTimeLayout, cd, time.UTC)
	if err != nil {
		return nil, &ParseError{Row: row, Column: fieldTime, cause: err}
	}

	dist, err := floatField(cols, record, fieldDistance, row)
	if err != nil {
		return nil, err
	}
	vel, err := floatField(cols, record, fieldVelocity, row)
	if err != nil {
		return nil, err
	}

	return &model.CloseApproach{
		Designation: des,
		Time:        t,
		Distance:    dist,
		Velocity:    vel,
	}, nil
}

func stringField(cols map[string]int, record []any, name string, row int) (string, error) {
	idx := cols[name]
	if idx >= len(record) {
		return "", &ParseError{Row: row, Column: name, cause: fmt.Errorf("record has only %d fields", len(record))}
	}
	s, ok := record[idx].(string)
	if !ok {
		return "", &ParseError{Row: row, Column: name, cause: fmt.Errorf("unexpected value %v", record[idx])}
	}
	return s, nil
}

func floatField(cols map[string]int, record []any, name string, row int) (float64, error) {
	s, err := stringField(cols, record, name, row)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Row: row, Column: name, cause: err}
	}
	return f, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("unexpected token %v, want %v", tok, want)
	}
	return nil
}
