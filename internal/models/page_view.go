package models

// PageView holds the counters the analytics backend reports for one page.
// It is fetched per request and never stored.
type PageView struct {
	// Label is the page path as reported by the analytics backend.
	Label string

	// Hits is the number of page views (nb_hits).
	Hits float64

	// TimeSpent is the total time spent on the page in seconds (sum_time_spent).
	TimeSpent float64

	// ExitRate is the exit percentage, e.g. 45 for "45%".
	ExitRate float64
}
