package testutil

import (
	"fmt"
	"time"

	"lakbaycli/pkg/contracts/domain"
)

// FixedNow is the reference instant used by fixtures: 2024-06-15 10:30 Manila time
var FixedNow = time.Date(2024, time.June, 15, 10, 30, 0, 0, time.FixedZone("PST", 8*60*60))

// Users returns n users created one day apart, the first `active` of them active
func Users(n, active int) []domain.User {
	users := make([]domain.User, n)
	for i := range users {
		users[i] = domain.User{
			ID:        fmt.Sprintf("u%03d", i+1),
			FirstName: fmt.Sprintf("Juan%d", i+1),
			LastName:  "Dela Cruz",
			Email:     fmt.Sprintf("juan%d@example.ph", i+1),
			Gender:    []string{"Male", "Female"}[i%2],
			Role:      "user",
			IsActive:  i < active,
			CreatedAt: FixedNow.AddDate(0, 0, -i),
		}
	}
	return users
}

// Events returns n events starting one day apart, the first `active` of them active
func Events(n, active int) []domain.Event {
	events := make([]domain.Event, n)
	for i := range events {
		events[i] = domain.Event{
			ID:           fmt.Sprintf("e%03d", i+1),
			Title:        fmt.Sprintf("Kalayaan Festival %d", i+1),
			Description:  "Annual celebration at the Aguinaldo Shrine with parades and cultural shows",
			Venue:        "Aguinaldo Shrine",
			Municipality: "Kawit",
			Category:     "Festival",
			StartDate:    FixedNow.AddDate(0, 0, -i),
			IsActive:     i < active,
			CreatedAt:    FixedNow.AddDate(0, -1, 0),
		}
	}
	return events
}

// Hotlines returns one hotline per category, in order
func Hotlines(categories ...string) []domain.Hotline {
	hotlines := make([]domain.Hotline, len(categories))
	for i, category := range categories {
		hotlines[i] = domain.Hotline{
			ID:           fmt.Sprintf("h%03d", i+1),
			Name:         fmt.Sprintf("%s Hotline %d", category, i+1),
			Category:     category,
			PhoneNumber:  fmt.Sprintf("(046) 434-%04d", i+1),
			Location:     "Provincial Capitol",
			Municipality: "Trece Martires",
			IsActive:     true,
			CreatedAt:    FixedNow,
		}
	}
	return hotlines
}
