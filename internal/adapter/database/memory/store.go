package memory

import (
	"fmt"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"todoref/internal/core/domain"
	"todoref/internal/core/port"
	"todoref/pkg/observable"
)

type SeedTodo struct {
	Title       string
	Description string
	Status      domain.TodoStatus
}

func DefaultSeed() []SeedTodo {
	return []SeedTodo{
		{Title: "Learn Angular", Description: "Work through the tour of heroes tutorial", Status: domain.TodoStatusOpen},
		{Title: "Buy groceries", Description: "Milk, eggs and bread", Status: domain.TodoStatusDone},
	}
}

// SequenceIDs returns a process-local counter rendered as decimal strings,
// starting at start.
func SequenceIDs(start int64) func() string {
	next := start - 1

	return func() string {
		return strconv.FormatInt(atomic.AddInt64(&next, 1), 10)
	}
}

type Option func(*TodoStore)

func WithIDGenerator(gen func() string) Option {
	return func(s *TodoStore) {
		s.nextID = gen
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *TodoStore) {
		s.now = now
	}
}

func WithSeed(seed ...SeedTodo) Option {
	return func(s *TodoStore) {
		s.seed = append(s.seed, seed...)
	}
}

// TodoStore is the in-memory, observable todo collection. Slices handed to
// subscribers are shared between them and must not be modified.
//
// Mutations hold writeMu from the change until every subscriber has been
// called, so snapshots are published in commit order.
type TodoStore struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	todos   []domain.Todo
	index   map[string]int
	seed    []SeedTodo

	nextID func() string
	now    func() time.Time

	all       *observable.Value[[]domain.Todo]
	active    *observable.Value[[]domain.Todo]
	selection *observable.Value[*domain.Todo]
}

var _ port.TodoStore = (*TodoStore)(nil)

func NewTodoStore(opts ...Option) *TodoStore {
	s := &TodoStore{
		index:     make(map[string]int),
		nextID:    SequenceIDs(1),
		now:       time.Now,
		all:       observable.New([]domain.Todo{}),
		active:    observable.New([]domain.Todo{}),
		selection: observable.New[*domain.Todo](nil),
	}

	for _, opt := range opts {
		opt(s)
	}

	for _, seed := range s.seed {
		s.insert(seed.Title, seed.Description, seed.Status)
	}

	s.seed = nil
	s.all.Set(s.snapshot())
	s.active.Set(s.activeSnapshot())

	return s
}

func (s *TodoStore) List() []domain.Todo {
	return slices.Clone(s.all.Get())
}

func (s *TodoStore) ListActive() []domain.Todo {
	return slices.Clone(s.active.Get())
}

func (s *TodoStore) GetByID(id string) (domain.Todo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]

	if !ok {
		return domain.Todo{}, false
	}

	return s.todos[i], true
}

// Create does not validate; callers trim and check the fields first.
func (s *TodoStore) Create(title, description string) domain.Todo {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	todo := s.insert(title, description, domain.TodoStatusOpen)
	s.publish(nil)

	return todo
}

// CreateWithStatus is Create with an initial status, committed and published
// as a single change. A new record cannot start out deleted.
func (s *TodoStore) CreateWithStatus(title, description string, status domain.TodoStatus) (domain.Todo, error) {
	if !status.IsValid() {
		return domain.Todo{}, fmt.Errorf("%w: %d", domain.ErrInvalidStatus, int(status))
	}

	if status == domain.TodoStatusDeleted {
		return domain.Todo{}, fmt.Errorf("%w: new todos cannot be deleted", domain.ErrInvalidTransition)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	todo := s.insert(title, description, status)
	s.publish(nil)

	return todo, nil
}

func (s *TodoStore) Update(id string, patch domain.TodoPatch) (domain.Todo, error) {
	todo, err := s.mutate(id, func(domain.Todo) (domain.TodoPatch, bool) {
		return patch, true
	})

	if err != nil {
		return todo, fmt.Errorf("update %q: %w", id, err)
	}

	return todo, nil
}

func (s *TodoStore) SoftDelete(id string) (domain.Todo, error) {
	return s.Update(id, domain.TodoPatch{Status: domain.StatusPtr(domain.TodoStatusDeleted)})
}

// ToggleStatus flips open and done. A deleted record is returned unchanged
// and nobody is notified.
func (s *TodoStore) ToggleStatus(id string) (domain.Todo, error) {
	todo, err := s.mutate(id, func(current domain.Todo) (domain.TodoPatch, bool) {
		if current.IsDeleted() {
			return domain.TodoPatch{}, false
		}

		return domain.TodoPatch{Status: domain.StatusPtr(current.Status.Toggled())}, true
	})

	if err != nil {
		return todo, fmt.Errorf("toggle %q: %w", id, err)
	}

	return todo, nil
}

func (s *TodoStore) Select(todo domain.Todo) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.selection.Set(&todo)
}

func (s *TodoStore) ClearSelection() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.selection.Set(nil)
}

func (s *TodoStore) Selected() (domain.Todo, bool) {
	selected := s.selection.Get()

	if selected == nil {
		return domain.Todo{}, false
	}

	return *selected, true
}

func (s *TodoStore) SubscribeAll(fn func([]domain.Todo)) func() {
	return s.all.Subscribe(fn)
}

func (s *TodoStore) SubscribeActive(fn func([]domain.Todo)) func() {
	return s.active.Subscribe(fn)
}

func (s *TodoStore) SubscribeSelection(fn func(*domain.Todo)) func() {
	return s.selection.Subscribe(func(todo *domain.Todo) {
		if todo == nil {
			fn(nil)
			return
		}

		copied := *todo
		fn(&copied)
	})
}

// SubscriberCount is the number of live subscriptions across all three
// views.
func (s *TodoStore) SubscriberCount() int {
	return s.all.Subscribers() + s.active.Subscribers() + s.selection.Subscribers()
}

// mutate looks up id and applies the patch returned by fn. When fn reports
// no change the current record is returned and nothing is published.
func (s *TodoStore) mutate(id string, fn func(domain.Todo) (domain.TodoPatch, bool)) (domain.Todo, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()

	i, ok := s.index[id]

	if !ok {
		s.mu.Unlock()
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	current := s.todos[i]
	patch, apply := fn(current)

	if !apply {
		s.mu.Unlock()
		return current, nil
	}

	updated, err := patch.Apply(current)

	if err != nil {
		s.mu.Unlock()
		return current, err
	}

	s.todos[i] = updated
	s.mu.Unlock()

	s.publish(&updated)

	return updated, nil
}

func (s *TodoStore) insert(title, description string, status domain.TodoStatus) domain.Todo {
	todo := domain.Todo{
		ID:           s.nextID(),
		Title:        title,
		Description:  description,
		CreationDate: s.now(),
		Status:       status,
	}

	s.mu.Lock()
	s.index[todo.ID] = len(s.todos)
	s.todos = append(s.todos, todo)
	s.mu.Unlock()

	return todo
}

// publish recomputes the derived views and notifies subscribers. changed is
// the record touched by an update, used to refresh the selection.
func (s *TodoStore) publish(changed *domain.Todo) {
	s.mu.RLock()
	all := s.snapshot()
	active := s.activeSnapshot()
	s.mu.RUnlock()

	s.all.Set(all)
	s.active.Set(active)

	if changed != nil {
		if selected := s.selection.Get(); selected != nil && selected.ID == changed.ID {
			refreshed := *changed
			s.selection.Set(&refreshed)
		}
	}
}

func (s *TodoStore) snapshot() []domain.Todo {
	return append(make([]domain.Todo, 0, len(s.todos)), s.todos...)
}

func (s *TodoStore) activeSnapshot() []domain.Todo {
	active := make([]domain.Todo, 0, len(s.todos))

	for _, todo := range s.todos {
		if todo.IsActive() {
			active = append(active, todo)
		}
	}

	return active
}
