package model

import "time"

// ClickEvent is one successful resolution of a link.
type ClickEvent struct {
	ID          int64
	LinkID      int64
	Timestamp   time.Time
	IPAddress   string
	VisitorHash string
	UserAgent   string
	Referer     string
	Country     *string
	City        *string
	Region      *string
	GeoSource   *string
}

// Location is a best-effort geographic attribution of an address.
type Location struct {
	Country string
	City    string
	Region  string
	// Source names the provider, or "heuristic" for the coarse range table.
	Source string
}

// LowConfidence reports whether the location came from the range heuristic.
func (l Location) LowConfidence() bool {
	return l.Source == GeoSourceHeuristic
}

const GeoSourceHeuristic = "heuristic"
