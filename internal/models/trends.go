package models

// TrendItem is one entry of the cached trend feed, fully coerced
// server-side: all text fields are strings, Score is clamped to [0,1],
// Sources holds at most six entries.
type TrendItem struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Score   float64  `json:"score"`
	Sources []string `json:"sources"`
}

// TrendsResponse is the GET /trends payload. UpdatedAt is null when no
// snapshot exists or the read failed; the endpoint still returns 200.
type TrendsResponse struct {
	UpdatedAt *int64      `json:"updatedAt"`
	Items     []TrendItem `json:"items"`
}
