package memory

import (
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"todoref/internal/core/domain"
)

type TodoStoreSuite struct {
	suite.Suite
	Store *TodoStore
	Now   time.Time
}

func (s *TodoStoreSuite) SetupTest() {
	s.Now = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	s.Store = NewTodoStore(
		WithSeed(DefaultSeed()...),
		WithClock(func() time.Time { return s.Now }),
	)
}

func TestTodoStoreSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoStoreSuite))
}

func (s *TodoStoreSuite) TestSeed() {
	todos := s.Store.List()

	Expect(todos).To(HaveLen(2))
	Expect(todos[0].ID).To(Equal("1"))
	Expect(todos[0].Title).To(Equal("Learn Angular"))
	Expect(todos[0].Status).To(Equal(domain.TodoStatusOpen))
	Expect(todos[1].ID).To(Equal("2"))
	Expect(todos[1].Title).To(Equal("Buy groceries"))
	Expect(todos[1].Status).To(Equal(domain.TodoStatusDone))
	Expect(s.Store.ListActive()).To(HaveLen(2))
}

func (s *TodoStoreSuite) TestCreate() {
	before := len(s.Store.ListActive())

	todo := s.Store.Create("Write tests", "cover the store")

	Expect(todo.ID).To(Equal("3"))
	Expect(todo.Status).To(Equal(domain.TodoStatusOpen))
	Expect(todo.CreationDate).To(Equal(s.Now))
	Expect(s.Store.ListActive()).To(HaveLen(before + 1))

	other := s.Store.Create("Another", "one")
	Expect(other.ID).ToNot(Equal(todo.ID))

	list := s.Store.List()
	Expect(list[len(list)-1].ID).To(Equal(other.ID))
}

func (s *TodoStoreSuite) TestCreateWithStatusPublishesOnce() {
	var snapshots [][]domain.Todo
	unsubscribe := s.Store.SubscribeAll(func(todos []domain.Todo) {
		snapshots = append(snapshots, todos)
	})
	defer unsubscribe()

	todo, err := s.Store.CreateWithStatus("Write tests", "already done", domain.TodoStatusDone)

	Expect(err).To(BeNil())
	Expect(todo.ID).To(Equal("3"))
	Expect(todo.Status).To(Equal(domain.TodoStatusDone))
	Expect(snapshots).To(HaveLen(2))
	Expect(snapshots[1]).To(HaveLen(3))
	Expect(snapshots[1][2].Status).To(Equal(domain.TodoStatusDone))
}

func (s *TodoStoreSuite) TestCreateWithStatusRejectsDeleted() {
	_, err := s.Store.CreateWithStatus("Write tests", "gone", domain.TodoStatusDeleted)

	Expect(err).To(MatchError(domain.ErrInvalidTransition))
	Expect(s.Store.List()).To(HaveLen(2))

	_, err = s.Store.CreateWithStatus("Write tests", "unknown", domain.TodoStatus(9))

	Expect(err).To(MatchError(domain.ErrInvalidStatus))
	Expect(s.Store.List()).To(HaveLen(2))
}

func (s *TodoStoreSuite) TestCreateThenSoftDeleteScenario() {
	todo := s.Store.Create("Write tests", "cover the store")

	active := s.Store.ListActive()
	Expect(active).To(HaveLen(3))
	Expect(active[2].Status).To(Equal(domain.TodoStatusOpen))

	_, err := s.Store.SoftDelete(todo.ID)
	Expect(err).To(BeNil())

	Expect(s.Store.ListActive()).To(HaveLen(2))
	Expect(s.Store.List()).To(HaveLen(3))

	stored, ok := s.Store.GetByID(todo.ID)
	Expect(ok).To(BeTrue())
	Expect(stored.Status).To(Equal(domain.TodoStatusDeleted))
}

func (s *TodoStoreSuite) TestSoftDeleteIsIdempotent() {
	first, err := s.Store.SoftDelete("1")
	Expect(err).To(BeNil())
	Expect(first.Status).To(Equal(domain.TodoStatusDeleted))

	second, err := s.Store.SoftDelete("1")
	Expect(err).To(BeNil())
	Expect(second.Status).To(Equal(domain.TodoStatusDeleted))
	Expect(s.Store.List()).To(HaveLen(2))
}

func (s *TodoStoreSuite) TestToggleStatus() {
	done, err := s.Store.ToggleStatus("1")
	Expect(err).To(BeNil())
	Expect(done.Status).To(Equal(domain.TodoStatusDone))

	open, err := s.Store.ToggleStatus("1")
	Expect(err).To(BeNil())
	Expect(open.Status).To(Equal(domain.TodoStatusOpen))
}

func (s *TodoStoreSuite) TestToggleStatusOnDeletedIsNoop() {
	s.Store.SoftDelete("2")

	notified := 0
	unsubscribe := s.Store.SubscribeAll(func([]domain.Todo) { notified++ })
	defer unsubscribe()

	todo, err := s.Store.ToggleStatus("2")

	Expect(err).To(BeNil())
	Expect(todo.Status).To(Equal(domain.TodoStatusDeleted))
	Expect(notified).To(Equal(1))
}

func (s *TodoStoreSuite) TestToggleStatusMissing() {
	_, err := s.Store.ToggleStatus("missing-id")

	Expect(err).To(MatchError(domain.ErrTodoNotFound))
}

func (s *TodoStoreSuite) TestUpdatePartial() {
	original, _ := s.Store.GetByID("1")

	updated, err := s.Store.Update("1", domain.TodoPatch{Title: domain.StringPtr("Learn Go")})

	Expect(err).To(BeNil())
	Expect(updated.Title).To(Equal("Learn Go"))
	Expect(updated.Description).To(Equal(original.Description))
	Expect(updated.Status).To(Equal(original.Status))
	Expect(updated.CreationDate).To(Equal(original.CreationDate))
}

func (s *TodoStoreSuite) TestUpdateMissingChangesNothing() {
	before := s.Store.List()

	notified := 0
	unsubscribe := s.Store.SubscribeAll(func([]domain.Todo) { notified++ })
	defer unsubscribe()

	Expect(func() {
		_, err := s.Store.Update("missing-id", domain.TodoPatch{Title: domain.StringPtr("x")})
		Expect(err).To(MatchError(domain.ErrTodoNotFound))
	}).ToNot(Panic())

	Expect(s.Store.List()).To(Equal(before))
	Expect(notified).To(Equal(1))
}

func (s *TodoStoreSuite) TestUpdateCannotResurrect() {
	s.Store.SoftDelete("1")

	_, err := s.Store.Update("1", domain.TodoPatch{Status: domain.StatusPtr(domain.TodoStatusOpen)})

	Expect(err).To(MatchError(domain.ErrInvalidTransition))

	todo, _ := s.Store.GetByID("1")
	Expect(todo.Status).To(Equal(domain.TodoStatusDeleted))
}

func (s *TodoStoreSuite) TestListReturnsCopies() {
	list := s.Store.List()
	list[0].Title = "mutated"

	todo, _ := s.Store.GetByID("1")
	Expect(todo.Title).To(Equal("Learn Angular"))
}

func (s *TodoStoreSuite) TestSubscribeActive() {
	var snapshots [][]domain.Todo
	unsubscribe := s.Store.SubscribeActive(func(todos []domain.Todo) {
		snapshots = append(snapshots, todos)
	})

	todo := s.Store.Create("Write tests", "cover the store")
	s.Store.SoftDelete(todo.ID)
	unsubscribe()
	s.Store.Create("Ignored", "after unsubscribe")

	Expect(snapshots).To(HaveLen(3))
	Expect(snapshots[0]).To(HaveLen(2))
	Expect(snapshots[1]).To(HaveLen(3))
	Expect(snapshots[2]).To(HaveLen(2))
}

func (s *TodoStoreSuite) TestSubscriberCanReadStore() {
	var seen int
	unsubscribe := s.Store.SubscribeAll(func([]domain.Todo) {
		seen = len(s.Store.List())
	})
	defer unsubscribe()

	s.Store.Create("Write tests", "cover the store")

	Expect(seen).To(Equal(3))
}

func (s *TodoStoreSuite) TestSelection() {
	_, ok := s.Store.Selected()
	Expect(ok).To(BeFalse())

	var last *domain.Todo
	unsubscribe := s.Store.SubscribeSelection(func(todo *domain.Todo) { last = todo })
	defer unsubscribe()

	todo, _ := s.Store.GetByID("1")
	s.Store.Select(todo)

	selected, ok := s.Store.Selected()
	Expect(ok).To(BeTrue())
	Expect(selected.ID).To(Equal("1"))
	Expect(last).ToNot(BeNil())

	s.Store.Update("1", domain.TodoPatch{Title: domain.StringPtr("Renamed")})

	selected, _ = s.Store.Selected()
	Expect(selected.Title).To(Equal("Renamed"))
	Expect(s.Store.List()).To(HaveLen(2))

	s.Store.ClearSelection()

	_, ok = s.Store.Selected()
	Expect(ok).To(BeFalse())
	Expect(last).To(BeNil())
}

func (s *TodoStoreSuite) TestConcurrentCreatesHaveUniqueIDs() {
	var wg sync.WaitGroup
	ids := make(chan string, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- s.Store.Create("t", "d").ID
		}()
	}

	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		Expect(seen).ToNot(HaveKey(id))
		seen[id] = true
	}

	Expect(s.Store.List()).To(HaveLen(102))
}

func TestSequenceIDs(t *testing.T) {
	RegisterTestingT(t)

	next := SequenceIDs(3)

	Expect(next()).To(Equal("3"))
	Expect(next()).To(Equal("4"))
}

func TestNewTodoStoreWithoutSeed(t *testing.T) {
	RegisterTestingT(t)

	store := NewTodoStore(WithIDGenerator(func() string { return "fixed" }))

	Expect(store.List()).ToNot(BeNil())
	Expect(store.List()).To(BeEmpty())
	Expect(store.Create("a", "b").ID).To(Equal("fixed"))
}
