package output

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/hupe1980/neogo/model"
)

// csvHeader is the fixed column set, one row per close approach.
var csvHeader = []string{"datetime_utc", "distance_au", "velocity_km_s", "designation", "name", "diameter_km", "potentially_hazardous"}

// WriteCSV writes the approaches to w as a CSV table. The header row is
// always written, even for an empty result.
func WriteCSV(w io.Writer, approaches []*model.CloseApproach) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, ca := range approaches {
		var name, diameter string
		var hazardous bool
		if ca.NEO != nil {
			name = ca.NEO.Name
			if ca.NEO.HasDiameter() {
				diameter = strconv.FormatFloat(ca.NEO.Diameter, 'g', -1, 64)
			}
			hazardous = ca.NEO.Hazardous
		}

		record := []string{
			ca.TimeString(),
			strconv.FormatFloat(ca.Distance, 'g', -1, 64),
			strconv.FormatFloat(ca.Velocity, 'g', -1, 64),
			ca.Designation,
			name,
			diameter,
			strconv.FormatBool(hazardous),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type jsonNEO struct {
	Designation          string   `json:"designation"`
	Name                 string   `json:"name"`
	DiameterKM           *float64 `json:"diameter_km"`
	PotentiallyHazardous bool     `json:"potentially_hazardous"`
}

type jsonApproach struct {
	DatetimeUTC string  `json:"datetime_utc"`
	DistanceAU  float64 `json:"distance_au"`
	VelocityKMS float64 `json:"velocity_km_s"`
	NEO         jsonNEO `json:"neo"`
}

// WriteJSON writes the approaches to w as an indented JSON array, each
// element carrying its NEO as a nested object. JSON has no NaN, so an
// unknown diameter becomes null.
func WriteJSON(w io.Writer, approaches []*model.CloseApproach) error {
	out := make([]jsonApproach, 0, len(approaches))
	for _, ca := range approaches {
		entry := jsonApproach{
			DatetimeUTC: ca.TimeString(),
			DistanceAU:  ca.Distance,
			VelocityKMS: ca.Velocity,
			NEO: jsonNEO{
				Designation: ca.Designation,
			},
		}
		if ca.NEO != nil {
			entry.NEO.Designation = ca.NEO.Designation
			entry.NEO.Name = ca.NEO.Name
			if !math.IsNaN(ca.NEO.Diameter) {
				d := ca.NEO.Diameter
				entry.NEO.DiameterKM = &d
			}
			entry.NEO.PotentiallyHazardous = ca.NEO.Hazardous
		}
		out = append(out, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
