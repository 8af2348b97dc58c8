// Package session holds the state of one page view: the last task snapshot,
// the active search and the selected sort order.
package session

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"taskview/internal/filter"
	"taskview/internal/search"
	"taskview/internal/service"
	"taskview/internal/sorter"
)

// ErrStale is returned when a response arrives after a newer request was
// issued. The response is discarded and the session state is unchanged.
var ErrStale = errors.New("stale response discarded")

// Result is what a view renders after Load or Search.
type Result struct {
	Tasks []service.Task

	// Query is the search the result reflects; empty for the full listing.
	Query string

	// Degraded is set when the backend search failed and Tasks were
	// filtered locally from the last snapshot. Err holds the failure.
	Degraded bool
	Err      error
}

// Session is safe for concurrent use. Only the response to the most
// recently issued request is applied; issuing a request cancels the
// previous one.
type Session struct {
	mu       sync.Mutex
	all      []service.Task
	query    string
	mode     search.Mode
	sortKey  sorter.Key
	sorter   *sorter.Sorter
	gen      uint64
	cancel   context.CancelFunc
	loadedAt uint64 // generation of the current snapshot; 0 if never loaded
}

// New returns an empty session that sorts titles using locale.
func New(locale string) *Session {
	return &Session{
		mode:    search.ResolveMode(false, false),
		sortKey: sorter.Default,
		sorter:  sorter.New(locale),
	}
}

// SetModes selects the search modes used by later calls to Search.
func (s *Session) SetModes(useSemantic, useContains bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = search.ResolveMode(useSemantic, useContains)
}

// Mode returns the selected search modes.
func (s *Session) Mode() search.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetSortKey selects the sort order. Unknown keys select sorter.Default.
func (s *Session) SetSortKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortKey = sorter.ParseKey(key)
}

// SortKey returns the selected sort order.
func (s *Session) SortKey() sorter.Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortKey
}

// Query returns the active search query, or "" when none is active.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Snapshot returns a copy of the last unfiltered listing.
func (s *Session) Snapshot() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.all)
}

// Loaded reports whether a snapshot has been fetched.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadedAt != 0
}

// Sort orders tasks by the selected sort key.
func (s *Session) Sort(tasks []service.Task) []service.Task {
	s.mu.Lock()
	key, srt := s.sortKey, s.sorter
	s.mu.Unlock()
	return srt.Sort(tasks, key)
}

// Load fetches the unfiltered listing and replaces the snapshot wholesale.
// On failure the previous snapshot is kept.
func (s *Session) Load(ctx context.Context, svc service.Service) (Result, error) {
	gen, reqCtx := s.begin(ctx)
	tasks, err := svc.ListTasks(reqCtx, service.Query{})

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finish(gen) {
		return Result{}, ErrStale
	}
	if err != nil {
		return Result{}, err
	}
	s.all = tasks
	s.loadedAt = gen
	log.FromContext(ctx).Debug("loaded tasks", "count", len(tasks))
	return Result{Tasks: slices.Clone(tasks), Query: s.query}, nil
}

// Search runs query against the backend with the selected modes.
//
// A blank query clears the search and returns the snapshot. A too-short
// query returns a *search.ValidationError without contacting the backend.
// If the backend fails, the snapshot is filtered locally and the result is
// marked Degraded; the query is recorded either way.
func (s *Session) Search(ctx context.Context, svc service.Service, query string) (Result, error) {
	logger := log.FromContext(ctx)

	s.mu.Lock()
	mode := s.mode
	s.mu.Unlock()

	req, err := search.BuildRequest(query, mode.Semantic, mode.Contains)
	if errors.Is(err, search.ErrEmptyQuery) {
		return s.Clear(), nil
	}
	if err != nil {
		return Result{Query: query}, err
	}

	gen, reqCtx := s.begin(ctx)
	logger.Debug("searching", "query", query, "mode", mode)
	tasks, err := svc.ListTasks(reqCtx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finish(gen) {
		return Result{}, ErrStale
	}
	s.query = query
	if err != nil {
		logger.Warn("backend search failed, filtering locally", "query", query, "err", err)
		return Result{
			Tasks:    filter.Filter(s.all, query),
			Query:    query,
			Degraded: true,
			Err:      err,
		}, nil
	}
	return Result{Tasks: tasks, Query: query}, nil
}

// Clear drops the active search, discards any in-flight request and
// returns the unfiltered snapshot.
func (s *Session) Clear() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.query = ""
	return Result{Tasks: slices.Clone(s.all)}
}

// begin issues a new request generation and cancels the previous request.
func (s *Session) begin(ctx context.Context) (uint64, context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	reqCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	return s.gen, reqCtx
}

// finish reports whether gen is still the latest request and releases its
// context if so. Callers hold s.mu.
func (s *Session) finish(gen uint64) bool {
	if gen != s.gen {
		return false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return true
}
