package index

import (
	"sync"
	"time"

	"github.com/hupe1980/neogo/filter"
	"github.com/hupe1980/neogo/model"
)

// Index accelerates equality criteria over a loaded close-approach set.
//
// Served predicates:
// - exact calendar date (filter.FieldDate with filter.Equal)
// - hazard classification (filter.FieldHazardous with filter.Equal)
//
// Range predicates are not indexed; they are handled by evaluating the
// filter set against the candidates that survive narrowing.
type Index struct {
	mu sync.RWMutex

	// yyyymmdd -> ids approaching on that date
	dates map[uint32]*Bitmap

	hazardous *Bitmap
	benign    *Bitmap
}

// New creates an empty index.
func New() *Index {
	return &Index{
		dates:     make(map[uint32]*Bitmap),
		hazardous: NewBitmap(),
		benign:    NewBitmap(),
	}
}

// Add indexes one close approach under the given id. Approaches without a
// linked NEO get no hazard posting; an active hazardous predicate cannot
// match them anyway.
func (ix *Index) Add(id uint32, ca *model.CloseApproach) {
	if ix == nil || ca == nil {
		return
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	key := dateKey(ca.Time)
	bm, ok := ix.dates[key]
	if !ok {
		bm = NewBitmap()
		ix.dates[key] = bm
	}
	bm.Add(id)

	if ca.NEO != nil {
		if ca.NEO.Hazardous {
			ix.hazardous.Add(id)
		} else {
			ix.benign.Add(id)
		}
	}
}

// Narrow compiles the servable equality predicates of the set into a
// candidate bitmap. The result is a superset of the ids matching the full
// set: unserved predicates still have to be evaluated against every
// surviving candidate, so narrowing never changes query results. ok is
// false when no predicate in the set can be served and the caller should
// scan everything.
func (ix *Index) Narrow(set filter.Set) (*Bitmap, bool) {
	if ix == nil {
		return nil, false
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var narrowed *Bitmap

	for _, p := range set {
		if p.Value.IsAbsent() || p.Comparison != filter.Equal {
			continue
		}

		var postings *Bitmap
		switch p.Field {
		case filter.FieldDate:
			if d, ok := p.Value.AsDate(); ok {
				postings = ix.dates[dateKey(d)]
			}
		case filter.FieldHazardous:
			if h, ok := p.Value.AsBool(); ok {
				if h {
					postings = ix.hazardous
				} else {
					postings = ix.benign
				}
			}
		default:
			continue
		}

		if postings == nil {
			// No candidate carries this value at all.
			return NewBitmap(), true
		}
		if narrowed == nil {
			narrowed = postings.Clone()
			continue
		}

		narrowed.And(postings)
		if narrowed.IsEmpty() {
			return narrowed, true
		}
	}

	if narrowed == nil {
		return nil, false
	}
	return narrowed, true
}

// Stats reports the shape of the index, for logs.
type Stats struct {
	Dates       int
	Hazardous   uint64
	Benign      uint64
	SizeInBytes uint64
}

// Stats returns the current index statistics.
func (ix *Index) Stats() Stats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	st := Stats{
		Dates:     len(ix.dates),
		Hazardous: ix.hazardous.Cardinality(),
		Benign:    ix.benign.Cardinality(),
	}
	for _, bm := range ix.dates {
		st.SizeInBytes += bm.GetSizeInBytes()
	}
	st.SizeInBytes += ix.hazardous.GetSizeInBytes()
	st.SizeInBytes += ix.benign.GetSizeInBytes()

	return st
}

func dateKey(t time.Time) uint32 {
	u := t.UTC()
	return uint32(u.Year())*10000 + uint32(u.Month())*100 + uint32(u.Day())
}
