package indicator

// Indicator is a project-spanning metric that output measurables and updates
// can be tagged against.
type Indicator struct {
	ID    int64  `json:"id"`
	Code  string `json:"code"`
	Title string `json:"title"`
	Unit  string `json:"unit"`
}

// Summary totals the impact updates recorded against one indicator.
type Summary struct {
	Indicator
	Total   float64 `json:"total"`
	Updates int     `json:"updates"`
	Display string  `json:"display"`
}
