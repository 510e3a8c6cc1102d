package fetch

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
)

// FetchNEOs downloads the NEO inventory from the small-body database and
// writes it to w as a canonical neos.csv payload with the columns pdes,
// name, diameter and pha. It returns the number of rows written.
func (c *Client) FetchNEOs(ctx context.Context, w io.Writer) (int, error) {
	query := url.Values{}
	query.Set("fields", "pdes,name,diameter,pha")
	query.Set("sb-group", "neo")

	var table apiTable
	if err := c.getJSON(ctx, sbdbAPI, query, &table); err != nil {
		return 0, fmt.Errorf("failed to fetch neo inventory: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"pdes", "name", "diameter", "pha"}); err != nil {
		return 0, err
	}

	for i, row := range table.Data {
		if len(row) < 4 {
			return 0, fmt.Errorf("neo inventory row %d has %d columns, want 4", i+1, len(row))
		}
		record := []string{
			cellString(row[0]),
			cellString(row[1]),
			cellString(row[2]),
			cellString(row[3]),
		}
		if err := cw.Write(record); err != nil {
			return 0, err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	return len(table.Data), nil
}
