// Package panel holds the view state of the property search panel and drives its
// request lifecycle against the search service.
package panel

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/meetupaws/property_search/listings/internal/model"
	"github.com/meetupaws/property_search/listings/internal/searchclient"
)

const fallbackMessage = "An unexpected error occurred"

type Searcher interface {
	Search(ctx context.Context, query string) ([]model.Listing, error)
}

// State is a snapshot of the four cells of the panel.
type State struct {
	Query        string          `json:"query"`
	Results      []model.Listing `json:"properties"`
	IsLoading    bool            `json:"is_loading"`
	ErrorMessage string          `json:"error"`
}

// ShowEmpty reports whether the "no results" placeholder is shown.
func (s State) ShowEmpty() bool {
	return len(s.Results) == 0 && !s.IsLoading
}

// Outcome is the settled result of one submission: either Listings or a Failed Message.
type Outcome struct {
	SearchID string
	Listings []model.Listing
	Failed   bool
	Message  string
}

func Success(listings []model.Listing) Outcome {
	if listings == nil {
		listings = []model.Listing{}
	}
	return Outcome{Listings: listings}
}

func Failure(message string) Outcome {
	if message == "" {
		message = fallbackMessage
	}
	return Outcome{Failed: true, Message: message}
}

type Option func(*Panel)

// WithObserver registers fn to receive a snapshot after every state change.
// Snapshots are delivered one at a time in the order the changes were made, possibly from
// the goroutine running a submission. fn must not call SetQuery or Submit.
func WithObserver(fn func(State)) Option {
	return func(p *Panel) {
		p.observers = append(p.observers, fn)
	}
}

// WithSettleHook registers fn to receive the Outcome of every submission once it is applied.
func WithSettleHook(fn func(State, Outcome)) Option {
	return func(p *Panel) {
		p.settleHooks = append(p.settleHooks, fn)
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Panel) {
		p.logger = logger
	}
}

// Panel owns the search panel state. Every transition into loading goes through Submit.
//
// Submissions are not cancelled or sequenced: when several overlap, each one applies its
// outcome and clears the loading flag as it settles, so the last to settle wins.
type Panel struct {
	searcher    Searcher
	logger      logrus.FieldLogger
	observers   []func(State)
	settleHooks []func(State, Outcome)

	// notifyMu orders each change with its notifications; mu guards state alone so
	// State stays readable while observers run.
	notifyMu sync.Mutex
	mu       sync.Mutex
	state    State
}

func New(searcher Searcher, opts ...Option) *Panel {
	p := &Panel{
		searcher: searcher,
		logger:   logrus.StandardLogger(),
		state: State{
			Results: []model.Listing{},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns a snapshot of the current state.
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// SetQuery replaces the query text.
func (p *Panel) SetQuery(query string) {
	p.update(func(s *State) {
		s.Query = query
	})
}

// Submit starts a search for the current query. Loading is set and the previous error
// cleared before Submit returns; the returned channel is closed once the search has
// settled and loading has been cleared again.
func (p *Panel) Submit(ctx context.Context) <-chan struct{} {
	var query string
	p.update(func(s *State) {
		s.IsLoading = true
		s.ErrorMessage = ""
		query = s.Query
	})

	id := uuid.New().String()
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer p.update(func(s *State) {
			s.IsLoading = false
		})

		outcome := p.search(ctx, id, query)
		p.apply(outcome)
	}()

	return done
}

func (p *Panel) search(ctx context.Context, id string, query string) (outcome Outcome) {
	log := p.logger.WithFields(logrus.Fields{"search_id": id, "query": query})

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("search panicked")
			outcome = Failure(fallbackMessage)
		}
		outcome.SearchID = id
	}()

	listings, err := p.searcher.Search(searchclient.WithSearchID(ctx, id), query)
	if err != nil {
		log.WithError(err).Warn("search failed")
		return Failure(err.Error())
	}

	log.WithField("count", len(listings)).Info("search settled")
	return Success(listings)
}

// apply replaces the results on success and sets the error message on failure.
// Results are left untouched by a failure.
func (p *Panel) apply(outcome Outcome) {
	snapshot := p.update(func(s *State) {
		if outcome.Failed {
			s.ErrorMessage = outcome.Message
			return
		}
		s.Results = outcome.Listings
	})

	for _, fn := range p.settleHooks {
		p.callback("settle hook", func() { fn(snapshot, outcome) })
	}
}

func (p *Panel) update(fn func(s *State)) State {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()

	p.mu.Lock()
	fn(&p.state)
	snapshot := p.state
	p.mu.Unlock()

	for _, observer := range p.observers {
		p.callback("observer", func() { observer(snapshot) })
	}
	return snapshot
}

// callback runs fn, logging and swallowing a panic so a faulty callback cannot end the process.
func (p *Panel) callback(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.WithField("panic", r).Errorf("%s panicked", kind)
		}
	}()
	fn()
}
