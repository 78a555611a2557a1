package apiclient

import "lakbaycli/pkg/contracts/domain"

// UsersResponse is the body of GET /users
type UsersResponse struct {
	Users              []domain.User `json:"users"`
	TotalActiveUsers   int           `json:"totalActiveUsers"`
	TotalInactiveUsers int           `json:"totalInactiveUsers"`
}

// EventsResponse is the body of GET /events
type EventsResponse struct {
	Events              []domain.Event `json:"events"`
	TotalActiveEvents   int            `json:"totalActiveEvents"`
	TotalInactiveEvents int            `json:"totalInactiveEvents"`
}

// HotlinesResponse is the body of GET /hotlines
type HotlinesResponse struct {
	Hotlines              []domain.Hotline `json:"hotlines"`
	TotalActiveHotlines   int              `json:"totalActiveHotlines"`
	TotalInactiveHotlines int              `json:"totalInactiveHotlines"`
}
