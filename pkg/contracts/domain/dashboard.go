package domain

// GenderSlice is one slice of the dashboard's gender distribution chart.
type GenderSlice struct {
	Label string `json:"label" validate:"required"`
	Count int    `json:"count" validate:"gte=0"`
}

// AgeGroupCount is one bucket of the dashboard's age group breakdown.
type AgeGroupCount struct {
	Range string `json:"range" validate:"required"`
	Count int    `json:"count" validate:"gte=0"`
}

// DashboardSnapshot is the already-fetched admin dashboard state the monthly
// report is built from.
type DashboardSnapshot struct {
	RecentUsers    []User          `json:"recentUsers"`
	RecentPosts    []Post          `json:"recentPosts"`
	UpcomingEvents []Event         `json:"upcomingEvents"`
	Gender         []GenderSlice   `json:"genderDistribution" validate:"dive"`
	AgeGroups      []AgeGroupCount `json:"ageGroups" validate:"dive"`
}
