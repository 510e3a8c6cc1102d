// Package output writes query results in two interchange formats: a flat
// CSV table and a JSON array with the owning NEO nested per approach.
//
// Unknown diameters are written as an empty CSV cell and a JSON null.
package output
