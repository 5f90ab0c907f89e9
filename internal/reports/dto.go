package reports

// PublicStats is the unscoped, public-facing aggregate.
type PublicStats struct {
	Total              int64   `json:"total"`
	Resolved           int64   `json:"resolved"`
	Pending            int64   `json:"pending"`
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
}

// SLAStats is the admin-facing deadline report, hostel-scoped for admins.
type SLAStats struct {
	Total              int64   `json:"total"`
	Resolved           int64   `json:"resolved"`
	Breached           int64   `json:"breached"`
	ResolvedWithinSLA  int64   `json:"resolved_within_sla"`
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
}

// HeatmapEntry is one (area, count) bucket.
type HeatmapEntry struct {
	Area  string `json:"area"`
	Count int64  `json:"count"`
}
