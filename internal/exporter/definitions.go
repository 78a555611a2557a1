package exporter

import (
	"context"
	"strings"

	"lakbaycli/internal/apiclient"
	"lakbaycli/internal/config"
	"lakbaycli/internal/render"
	"lakbaycli/internal/report"
	"lakbaycli/pkg/contracts/domain"
)

// API is the part of the Lakbay API client the generators read from
type API interface {
	ListUsers(ctx context.Context, q apiclient.Query) (*apiclient.UsersResponse, error)
	ListEvents(ctx context.Context, q apiclient.Query) (*apiclient.EventsResponse, error)
	ListHotlines(ctx context.Context, q apiclient.Query) (*apiclient.HotlinesResponse, error)
}

// StatusCategories are the category filter values of users and events
var StatusCategories = []string{report.LabelActive, report.LabelInactive}

func statusQuery(category string) apiclient.Query {
	return apiclient.Query{Status: strings.ToLower(category)}
}

// UserDefinition exports users
func UserDefinition(api API) Definition[domain.User] {
	return Definition[domain.User]{
		RecordType: domain.RecordTypeUsers,
		Title:      "User Report",
		Fetch: func(ctx context.Context, q apiclient.Query) ([]domain.User, error) {
			resp, err := api.ListUsers(ctx, q)
			if err != nil {
				return nil, err
			}
			return resp.Users, nil
		},
		Aggregate:     report.UserCounts,
		Template:      report.UserReport,
		Categories:    StatusCategories,
		CategoryQuery: statusQuery,
	}
}

// EventDefinition exports events
func EventDefinition(api API) Definition[domain.Event] {
	return Definition[domain.Event]{
		RecordType: domain.RecordTypeEvents,
		Title:      "Event Report",
		Fetch: func(ctx context.Context, q apiclient.Query) ([]domain.Event, error) {
			resp, err := api.ListEvents(ctx, q)
			if err != nil {
				return nil, err
			}
			return resp.Events, nil
		},
		Aggregate:     report.EventCounts,
		Template:      report.EventReport,
		Categories:    StatusCategories,
		CategoryQuery: statusQuery,
	}
}

// HotlineDefinition exports hotlines. The category filter takes the known
// hotline categories plus "Others".
func HotlineDefinition(api API) Definition[domain.Hotline] {
	categories := append(append([]string{}, config.HotlineCategories...), config.OtherCategory)
	return Definition[domain.Hotline]{
		RecordType: domain.RecordTypeHotlines,
		Title:      "Emergency Hotlines Report",
		Fetch: func(ctx context.Context, q apiclient.Query) ([]domain.Hotline, error) {
			resp, err := api.ListHotlines(ctx, q)
			if err != nil {
				return nil, err
			}
			return resp.Hotlines, nil
		},
		Aggregate:  report.HotlineCounts,
		Template:   report.HotlineReport,
		Categories: categories,
		CategoryQuery: func(category string) apiclient.Query {
			return apiclient.Query{Category: category}
		},
	}
}

// NewUserGenerator is NewGenerator(UserDefinition(api), ...)
func NewUserGenerator(api API, renderer render.Renderer, settings Settings) *Generator[domain.User] {
	return NewGenerator(UserDefinition(api), renderer, settings)
}

// NewEventGenerator is NewGenerator(EventDefinition(api), ...)
func NewEventGenerator(api API, renderer render.Renderer, settings Settings) *Generator[domain.Event] {
	return NewGenerator(EventDefinition(api), renderer, settings)
}

// NewHotlineGenerator is NewGenerator(HotlineDefinition(api), ...)
func NewHotlineGenerator(api API, renderer render.Renderer, settings Settings) *Generator[domain.Hotline] {
	return NewGenerator(HotlineDefinition(api), renderer, settings)
}
