package housing

// PlotSize is the house footprint class of a plot: 'S', 'M' or 'L'.
type PlotSize byte

const (
	Small  PlotSize = 'S'
	Medium PlotSize = 'M'
	Large  PlotSize = 'L'
)

// Name returns the long form ("Small", "Medium", "Large").
func (s PlotSize) Name() string {
	switch s {
	case Small:
		return "Small"
	case Medium:
		return "Medium"
	case Large:
		return "Large"
	}
	return "Unknown"
}

// ParseSize extracts a size from a sheet cell value.
func ParseSize(v string) PlotSize {
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case 'S', 's':
			return Small
		case 'M', 'm':
			return Medium
		case 'L', 'l':
			return Large
		}
	}
	return Small
}

// PlotRecord is one row of a ward table.
type PlotRecord struct {
	Plot        int      // 1..60, identity within the ward
	Size        PlotSize // immutable per plot
	Available   bool     // Closed(false) / Open(true)
	ListingTime string   // "M/D/H" stamp, only meaningful while Available
	LastSweep   string   // reserved column, carried through untouched
	ListingID   string   // message ref of the announcement, empty when never announced
	WishList    []string // user ids in registration order, no duplicates
}

// Wished reports whether userID is on the wishlist.
func (r *PlotRecord) Wished(userID string) bool {
	for _, id := range r.WishList {
		if id == userID {
			return true
		}
	}
	return false
}

// AddWish appends userID; returns false if it was already present.
func (r *PlotRecord) AddWish(userID string) bool {
	if r.Wished(userID) {
		return false
	}
	r.WishList = append(r.WishList, userID)
	return true
}

// RemoveWish deletes userID; returns false if it was not present.
func (r *PlotRecord) RemoveWish(userID string) bool {
	for i, id := range r.WishList {
		if id == userID {
			r.WishList = append(r.WishList[:i], r.WishList[i+1:]...)
			return true
		}
	}
	return false
}

// WardTable is the full record set for one ward: exactly WardPlots rows,
// never reordered.
type WardTable struct {
	Ward    int
	Records []PlotRecord
}

// Normalize backfills a table to exactly WardPlots well-formed rows.
// Missing rows get defaults (Plot=index+1, closed, blank metadata); plot
// numbers of existing rows are repaired if unset.
func (t *WardTable) Normalize() {
	if len(t.Records) > WardPlots {
		t.Records = t.Records[:WardPlots]
	}
	for len(t.Records) < WardPlots {
		t.Records = append(t.Records, PlotRecord{})
	}
	for i := range t.Records {
		if t.Records[i].Plot == 0 {
			t.Records[i].Plot = i + 1
		}
	}
}

// Record returns the row for a 1-based plot number, or nil when out of range.
func (t *WardTable) Record(plot int) *PlotRecord {
	if plot < 1 || plot > len(t.Records) {
		return nil
	}
	return &t.Records[plot-1]
}
