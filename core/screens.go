package core

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	v1 "fieldwork.com/console/api/v1"
	"fieldwork.com/console/collection"
	"fieldwork.com/console/utils"
)

var ErrConfirmationRequired = errors.New("delete requires confirmation")

// ListSpec describes how one entity's list screen searches, filters and
// sorts its records.
type ListSpec[T any] struct {
	Name    string
	ID      func(T) int
	Search  func(T) []string
	Filters map[string]func(item T, value string) bool
	SortKey func(T) int64
}

// ListState is the operator's local view state for a list screen.
type ListState struct {
	Search  string               `json:"search"`
	Filters map[string]string    `json:"filters"`
	Sort    collection.SortOrder `json:"sort"`
	Page    int                  `json:"page"`
}

func DefaultListState() ListState {
	return ListState{Filters: map[string]string{}, Sort: collection.Newest, Page: 1}
}

// ListChange carries the state changes of one request. Nil fields are
// left as they are.
type ListChange struct {
	Search  *string
	Filters map[string]string
	Sort    *collection.SortOrder
	Page    *int
}

// Query turns state into a collection query. Unknown filter keys and
// empty filter values are ignored.
func (spec ListSpec[T]) Query(state ListState) collection.Query[T] {
	predicates := make([]func(T) bool, 0, len(state.Filters)+1)
	if state.Search != "" && spec.Search != nil {
		term := state.Search
		predicates = append(predicates, func(item T) bool {
			return collection.ContainsFold(term, spec.Search(item)...)
		})
	}
	for key, value := range state.Filters {
		match, ok := spec.Filters[key]
		if !ok || value == "" {
			continue
		}
		predicates = append(predicates, func(item T) bool { return match(item, value) })
	}

	q := collection.Query[T]{
		Predicate: collection.And(predicates...),
		Page:      state.Page,
		PageSize:  collection.DefaultPageSize,
	}
	if spec.SortKey != nil {
		q.Less = collection.By(state.Sort, spec.SortKey)
	}
	return q
}

// ListScreen holds one fetched collection and the view state over it.
type ListScreen[T any] struct {
	mu     sync.Mutex
	spec   ListSpec[T]
	items  []T
	loaded bool
	state  ListState
}

func NewListScreen[T any](spec ListSpec[T]) *ListScreen[T] {
	return &ListScreen[T]{spec: spec, state: DefaultListState()}
}

func (s *ListScreen[T]) Spec() ListSpec[T] {
	return s.spec
}

// Load fetches the collection the first time, or again when refresh is
// set. A failed fetch keeps whatever was loaded before.
func (s *ListScreen[T]) Load(ctx context.Context, fetch func(context.Context) ([]T, error), refresh bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && !refresh {
		return nil
	}
	items, err := fetch(ctx)
	if err != nil {
		return err
	}
	s.items = items
	s.loaded = true
	return nil
}

func (s *ListScreen[T]) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Invalidate forces the next Load to fetch.
func (s *ListScreen[T]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
}

// Update applies change to the view state. A new search, filter or sort
// order sends the operator back to the first page.
func (s *ListScreen[T]) Update(change ListChange) ListState {
	s.mu.Lock()
	defer s.mu.Unlock()

	reset := false
	if change.Search != nil && *change.Search != s.state.Search {
		s.state.Search = *change.Search
		reset = true
	}
	if change.Filters != nil && !maps.Equal(change.Filters, s.state.Filters) {
		s.state.Filters = maps.Clone(change.Filters)
		reset = true
	}
	if change.Sort != nil && *change.Sort != s.state.Sort {
		s.state.Sort = *change.Sort
		reset = true
	}
	switch {
	case reset:
		s.state.Page = 1
	case change.Page != nil:
		s.state.Page = *change.Page
	}
	return s.stateCopy()
}

func (s *ListScreen[T]) State() ListState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateCopy()
}

func (s *ListScreen[T]) stateCopy() ListState {
	state := s.state
	state.Filters = maps.Clone(s.state.Filters)
	return state
}

// Items returns a copy of the loaded collection.
func (s *ListScreen[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.items...)
}

// View filters, sorts and pages the loaded collection.
func (s *ListScreen[T]) View() collection.Page[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := collection.Apply(s.items, s.spec.Query(s.state))
	// clamped pages are remembered so "next" starts from what was shown
	s.state.Page = page.Page
	return page
}

func (s *ListScreen[T]) Find(id int) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := utils.Find(s.items, func(item T) bool { return s.spec.ID(item) == id })
	if item == nil {
		var zero T
		return zero, false
	}
	return *item, true
}

// Delete removes record id through del. Nothing happens without
// confirmation. The record leaves local state only once the server has
// accepted the delete; a rejection leaves the list as it was.
func (s *ListScreen[T]) Delete(ctx context.Context, id int, confirmed bool, del func(context.Context, int) error) (Toast, error) {
	if !confirmed {
		return Info("Please confirm the delete"), ErrConfirmationRequired
	}
	if err := del(ctx, id); err != nil {
		return FromError(err), err
	}

	s.mu.Lock()
	s.items = utils.Filter(s.items, func(item T) bool { return s.spec.ID(item) != id })
	s.mu.Unlock()

	return Success(s.spec.Name + " deleted successfully"), nil
}

// Screens is the list state of one session.
type Screens struct {
	Users       *ListScreen[v1.UserDTO]
	Employees   *ListScreen[v1.EmployeeDTO]
	Fields      *ListScreen[v1.FieldDTO]
	Departments *ListScreen[v1.DepartmentDTO]
	Assignments *ListScreen[v1.AssignmentDTO]
	Attendance  *ListScreen[v1.AttendanceDTO]
}

func NewScreens() *Screens {
	return &Screens{
		Users:       NewListScreen(UserList),
		Employees:   NewListScreen(EmployeeList),
		Fields:      NewListScreen(FieldList),
		Departments: NewListScreen(DepartmentList),
		Assignments: NewListScreen(AssignmentList),
		Attendance:  NewListScreen(AttendanceRecordList),
	}
}

// ScreenIdleTimeout is how long a session's screens survive without a
// request before the registry forgets them.
const ScreenIdleTimeout = 12 * time.Hour

type registryEntry struct {
	screens  *Screens
	lastUsed time.Time
}

// ScreenRegistry keeps Screens per session id. Entries idle for longer
// than ScreenIdleTimeout are pruned as the registry is used.
type ScreenRegistry struct {
	mu        sync.Mutex
	screens   map[string]*registryEntry
	now       func() time.Time
	lastPrune time.Time
}

func NewScreenRegistry() *ScreenRegistry {
	return &ScreenRegistry{screens: make(map[string]*registryEntry), now: time.Now}
}

func (r *ScreenRegistry) For(sessionID string) *Screens {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.lastPrune) > time.Minute {
		r.prune(now.Add(-ScreenIdleTimeout))
		r.lastPrune = now
	}

	e, ok := r.screens[sessionID]
	if !ok {
		e = &registryEntry{screens: NewScreens()}
		r.screens[sessionID] = e
	}
	e.lastUsed = now
	return e.screens
}

func (r *ScreenRegistry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.screens, sessionID)
}

// Prune forgets every session whose screens were last used before cutoff
// and reports how many were dropped.
func (r *ScreenRegistry) Prune(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prune(cutoff)
}

func (r *ScreenRegistry) prune(cutoff time.Time) int {
	n := 0
	for id, e := range r.screens {
		if e.lastUsed.Before(cutoff) {
			delete(r.screens, id)
			n++
		}
	}
	return n
}

func (r *ScreenRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.screens)
}
