// Package model defines the core entities shared throughout neogo.
//
// # Entities
//
//   - NearEarthObject: a catalogued small body, identified by its primary
//     designation, with an optional IAU name, an optional measured diameter,
//     and a hazard classification
//   - CloseApproach: a timestamped event where a NEO passes near Earth, with
//     a nominal approach distance and relative velocity
//
// Both types are plain immutable values once a database has linked them:
// a CloseApproach holds a reference to its NearEarthObject, and a
// NearEarthObject lists its CloseApproaches. The query engine never mutates
// either.
//
// # Unknown diameters
//
// Many catalogued NEOs have no measured diameter. This is represented as
// math.NaN(), not zero: a zero diameter would silently satisfy bound
// comparisons, while NaN fails them. Use HasDiameter to test for a
// measurement.
package model
