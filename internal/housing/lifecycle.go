package housing

import "time"

// OpenResult is the outcome of an open transition.
type OpenResult struct {
	AlreadyOpen bool
	// ListingTime is the stamp already on record when AlreadyOpen, the
	// freshly recorded stamp otherwise.
	ListingTime string
	// Prime is the display value of the plot's prime time; only set when a
	// transition actually happened.
	Prime Clock12
}

// OpenPlot transitions a plot to Open. If it is already open nothing is
// mutated and the existing listing stamp is reported back. The caller is
// responsible for persisting the table and, after announcing, for filling in
// the record's ListingID.
func OpenPlot(t *WardTable, plot int, now time.Time) OpenResult {
	r := t.Record(plot)
	if r.Available {
		return OpenResult{AlreadyOpen: true, ListingTime: r.ListingTime}
	}
	r.Available = true
	r.ListingTime = Stamp(now)
	return OpenResult{
		ListingTime: r.ListingTime,
		Prime:       ToClock12(PrimeHour(now.Hour())),
	}
}

// CloseResult is the outcome of a close transition.
type CloseResult struct {
	NotOpen bool
	// Former is a copy of the record as it stood while open, so the caller
	// can edit the original announcement and log the sale.
	Former PlotRecord
}

// ClosePlot transitions a plot to Closed. Only Available is cleared; the
// stale listing stamp and message ref stay on the record and must not be
// trusted once Available is false.
func ClosePlot(t *WardTable, plot int) CloseResult {
	r := t.Record(plot)
	if !r.Available {
		return CloseResult{NotOpen: true}
	}
	former := *r
	r.Available = false
	return CloseResult{Former: former}
}
