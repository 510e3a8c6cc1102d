package model

import (
	"fmt"
	"math"
	"time"
)

// NearEarthObject is a catalogued near-Earth object.
//
// Designation is the primary designation assigned by the IAU and is the
// stable identifier used for linking; it is never empty. Name is the IAU
// name, empty for the (majority of) unnamed objects. Diameter is in
// kilometers and NaN when no measurement exists.
type NearEarthObject struct {
	Designation string
	Name        string
	Diameter    float64
	Hazardous   bool

	// Approaches lists the close approaches of this object, populated when
	// the object is linked into a database. Ordered as loaded.
	Approaches []*CloseApproach
}

// FullName returns the designation with the IAU name in parentheses when one
// exists, e.g. "433 (Eros)", otherwise just the designation.
func (n *NearEarthObject) FullName() string {
	if n.Name != "" {
		return fmt.Sprintf("%s (%s)", n.Designation, n.Name)
	}
	return n.Designation
}

// HasDiameter reports whether the object has a measured diameter.
func (n *NearEarthObject) HasDiameter() bool {
	return !math.IsNaN(n.Diameter)
}

// String returns a human-readable description of the object.
func (n *NearEarthObject) String() string {
	hazard := "is not"
	if n.Hazardous {
		hazard = "is"
	}
	if !n.HasDiameter() {
		return fmt.Sprintf("NEO %s has an unknown diameter and %s potentially hazardous.", n.FullName(), hazard)
	}
	return fmt.Sprintf("NEO %s has a diameter of %.3f km and %s potentially hazardous.", n.FullName(), n.Diameter, hazard)
}

// CloseApproach is a single close-approach event of a NEO.
//
// Time is the calendar timestamp of closest approach in UTC, Distance the
// nominal approach distance in astronomical units, and Velocity the relative
// approach velocity in km/s.
type CloseApproach struct {
	Designation string
	Time        time.Time
	Distance    float64
	Velocity    float64

	// NEO is the linked object record. It is nil until the approach is
	// linked into a database; every approach reachable through a query has
	// a non-nil link.
	NEO *NearEarthObject
}

// Date returns the calendar date of the approach: midnight UTC of the day it
// occurs, time-of-day discarded.
func (ca *CloseApproach) Date() time.Time {
	t := ca.Time.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TimeString formats the approach time as "2006-01-02 15:04" in UTC, the
// form used in dataset exports.
func (ca *CloseApproach) TimeString() string {
	return ca.Time.UTC().Format("2006-01-02 15:04")
}

// FullName returns the full name of the linked NEO, falling back to the bare
// designation when the approach has not been linked.
func (ca *CloseApproach) FullName() string {
	if ca.NEO != nil {
		return ca.NEO.FullName()
	}
	return ca.Designation
}

// String returns a human-readable description of the event.
func (ca *CloseApproach) String() string {
	return fmt.Sprintf("On %s, %q approaches Earth at a distance of %.2f au and a velocity of %.2f km/s.",
		ca.TimeString(), ca.FullName(), ca.Distance, ca.Velocity)
}
