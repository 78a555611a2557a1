package domain

import (
	"strings"
	"time"
)

// User is an account record as returned by GET /users.
type User struct {
	ID         string     `json:"_id" validate:"required"`
	FirstName  string     `json:"firstName" validate:"required"`
	LastName   string     `json:"lastName" validate:"required"`
	Email      string     `json:"email" validate:"required,email"`
	Gender     string     `json:"gender,omitempty"`
	Role       string     `json:"role,omitempty"`
	Birthdate  *time.Time `json:"birthdate,omitempty"`
	IsActive   bool       `json:"isActive"`
	IsVerified bool       `json:"isVerified"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// FullName joins the first and last name, skipping blanks.
func (u User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// Event is a tourism event as returned by GET /events.
type Event struct {
	ID           string     `json:"_id" validate:"required"`
	Title        string     `json:"title" validate:"required"`
	Description  string     `json:"description,omitempty"`
	Venue        string     `json:"venue,omitempty"`
	Municipality string     `json:"municipality,omitempty"`
	Category     string     `json:"category,omitempty"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Hotline is an emergency contact as returned by GET /hotlines.
type Hotline struct {
	ID           string    `json:"_id" validate:"required"`
	Name         string    `json:"name" validate:"required"`
	Category     string    `json:"category" validate:"required"`
	PhoneNumber  string    `json:"phoneNumber" validate:"required"`
	Location     string    `json:"location,omitempty"`
	Municipality string    `json:"municipality,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Post is a community post. Posts only appear in the monthly dashboard.
type Post struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
