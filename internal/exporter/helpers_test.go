package exporter

import (
	"context"
	"errors"
	"sync"
	"time"

	"lakbaycli/internal/apiclient"
	"lakbaycli/internal/report"
	"lakbaycli/internal/shared/testutil"
	"lakbaycli/pkg/contracts/domain"
)

var manila = time.FixedZone("PST", 8*60*60)

func testSettings() Settings {
	return Settings{
		AppName:        "Lakbay Cavite",
		FilenamePrefix: "LakbayCavite",
		Location:       manila,
		Now:            func() time.Time { return testutil.FixedNow },
	}
}

// callLog records pipeline stages in the order they ran
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (l *callLog) count(name string) int {
	n := 0
	for _, c := range l.list() {
		if c == name {
			n++
		}
	}
	return n
}

type spyFetcher[T any] struct {
	log     *callLog
	records []T
	err     error
	queries []apiclient.Query
}

func (f *spyFetcher[T]) fetch(_ context.Context, q apiclient.Query) ([]T, error) {
	f.log.add("fetch")
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type spyRenderer struct {
	log  *callLog
	err  error
	docs []*report.Document
}

func (r *spyRenderer) Render(doc *report.Document) ([]byte, error) {
	r.log.add("render")
	r.docs = append(r.docs, doc)
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-spy"), nil
}

func (r *spyRenderer) Extension() string   { return "pdf" }
func (r *spyRenderer) ContentType() string { return "application/pdf" }

type spySaver struct {
	log       *callLog
	err       error
	artifacts []*domain.ExportArtifact
}

func (s *spySaver) Save(_ context.Context, artifact *domain.ExportArtifact) error {
	s.log.add("save")
	if s.err != nil {
		return s.err
	}
	s.artifacts = append(s.artifacts, artifact)
	return nil
}

type userHarness struct {
	log      *callLog
	fetcher  *spyFetcher[domain.User]
	renderer *spyRenderer
	saver    *spySaver
	inputs   []report.TemplateInput[domain.User]
	gen      *Generator[domain.User]
}

func newUserHarness(records []domain.User, fetchErr error) *userHarness {
	log := &callLog{}
	h := &userHarness{
		log:      log,
		fetcher:  &spyFetcher[domain.User]{log: log, records: records, err: fetchErr},
		renderer: &spyRenderer{log: log},
		saver:    &spySaver{log: log},
	}

	def := Definition[domain.User]{
		RecordType: domain.RecordTypeUsers,
		Title:      "User Report",
		Fetch:      h.fetcher.fetch,
		Aggregate: func(users []domain.User) domain.AggregateCounts {
			log.add("aggregate")
			return report.UserCounts(users)
		},
		Template: func(in report.TemplateInput[domain.User]) *report.Document {
			log.add("template")
			h.inputs = append(h.inputs, in)
			return report.UserReport(in)
		},
		Categories:    StatusCategories,
		CategoryQuery: statusQuery,
	}
	h.gen = NewGenerator(def, h.renderer, testSettings())
	return h
}

var errAPIDown = errors.New("lakbay api: GET /users: connection refused")
