package types

// ------------------------------
// Response Types
// ------------------------------

// AckResponse is returned by write endpoints.
type AckResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse is the service's error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MetaCounts is the response of GET /api/meta/counts.
type MetaCounts struct {
	WithNotes int `json:"with_notes"`
	Easy      int `json:"easy"`
	Medium    int `json:"medium"`
	Hard      int `json:"hard"`
}

// StatsOverview is the response of GET /api/stats/overview.
type StatsOverview struct {
	TotalTerms   int `json:"total_terms"`
	Favorites    int `json:"favorites"`
	Bookmarks    int `json:"bookmarks"`
	RecentViews  int `json:"recent_views"`
	TestsCreated int `json:"tests_created,omitempty"`
}
