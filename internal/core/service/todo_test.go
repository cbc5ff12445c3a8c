package service_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"todoref/internal/adapter/database/memory"
	"todoref/internal/core/domain"
	"todoref/internal/core/service"
	"todoref/internal/core/telemetry"
	. "todoref/pkg/test"
	"todoref/pkg/test/factory"
)

type TodoServiceTestSuite struct {
	suite.Suite
	Store   *memory.TodoStore
	Service *service.TodoService
}

var ctx = context.Background()

func (s *TodoServiceTestSuite) SetupTest() {
	s.Store = NewTestStore()
	s.Service = service.NewTodoService(s.Store, telemetry.NewNoOpProbe(), telemetry.NewAppMetrics(prometheus.NewRegistry()))
}

func TestTodoServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)

	suite.Run(t, new(TodoServiceTestSuite))
}

func (s *TodoServiceTestSuite) TestListActive() {
	todos := s.Service.ListActive(ctx)

	Expect(todos).To(HaveLen(2))
}

func (s *TodoServiceTestSuite) TestCreate_Success() {
	draft := factory.NewTodoDraft(map[string]any{"Title": "  Write tests  ", "Description": "cover the store"})

	todo, err := s.Service.Create(ctx, draft)

	Expect(err).To(BeNil())
	Expect(todo.ID).To(Equal("3"))
	Expect(todo.Title).To(Equal("Write tests"))
	Expect(todo.Status).To(Equal(domain.TodoStatusOpen))
	Expect(todo.CreationDate).To(Equal(FixedNow))
	Expect(s.Service.ListActive(ctx)).To(HaveLen(3))
}

func (s *TodoServiceTestSuite) TestCreate_WithDoneStatus() {
	draft := factory.NewTodoDraft()
	draft.Status = domain.StatusPtr(domain.TodoStatusDone)

	var statuses []domain.TodoStatus
	unsubscribe := s.Service.SubscribeAll(func(todos []domain.Todo) {
		if len(todos) == 3 {
			statuses = append(statuses, todos[2].Status)
		}
	})
	defer unsubscribe()

	todo, err := s.Service.Create(ctx, draft)

	Expect(err).To(BeNil())
	Expect(todo.Status).To(Equal(domain.TodoStatusDone))
	Expect(statuses).To(Equal([]domain.TodoStatus{domain.TodoStatusDone}))
}

func (s *TodoServiceTestSuite) TestCreate_RejectsDeletedStatus() {
	draft := factory.NewTodoDraft()
	draft.Status = domain.StatusPtr(domain.TodoStatusDeleted)

	_, err := s.Service.Create(ctx, draft)

	Expect(err).To(MatchError(domain.ErrInvalidTransition))
	Expect(s.Store.List()).To(HaveLen(2))
}

func (s *TodoServiceTestSuite) TestCreate_ValidationError() {
	_, err := s.Service.Create(ctx, domain.TodoDraft{Title: " ", Description: "x"})

	assert.ErrorIs(s.T(), err, domain.ErrBlankField)
	Expect(s.Store.List()).To(HaveLen(2))
}

func (s *TodoServiceTestSuite) TestGetByID_NotFound() {
	_, err := s.Service.GetByID(ctx, "missing-id")

	Expect(err).To(MatchError(domain.ErrTodoNotFound))
}

func (s *TodoServiceTestSuite) TestUpdate_Partial() {
	todo, err := s.Service.Update(ctx, "2", domain.TodoPatch{Description: domain.StringPtr(" Just milk ")})

	Expect(err).To(BeNil())
	Expect(todo.Title).To(Equal("Buy groceries"))
	Expect(todo.Description).To(Equal("Just milk"))
	Expect(todo.Status).To(Equal(domain.TodoStatusDone))
}

func (s *TodoServiceTestSuite) TestUpdate_MissingIsReported() {
	before := s.Store.List()

	_, err := s.Service.Update(ctx, "missing-id", domain.TodoPatch{Title: domain.StringPtr("x")})

	Expect(err).To(MatchError(domain.ErrTodoNotFound))
	Expect(s.Store.List()).To(Equal(before))
}

func (s *TodoServiceTestSuite) TestSave_NewSentinelCreates() {
	todo, created, err := s.Service.Save(ctx, domain.NewTodoID, factory.NewTodoDraft())

	Expect(err).To(BeNil())
	Expect(created).To(BeTrue())
	Expect(todo.ID).To(Equal("3"))
}

func (s *TodoServiceTestSuite) TestSave_ExistingUpdates() {
	todo, created, err := s.Service.Save(ctx, "1", domain.TodoDraft{Title: "Learn Go", Description: "Tour of Go"})

	Expect(err).To(BeNil())
	Expect(created).To(BeFalse())
	Expect(todo.Title).To(Equal("Learn Go"))
	Expect(todo.Status).To(Equal(domain.TodoStatusOpen))
	Expect(s.Store.List()).To(HaveLen(2))
}

func (s *TodoServiceTestSuite) TestSave_BlankDraftRejected() {
	_, _, err := s.Service.Save(ctx, "1", domain.TodoDraft{Title: "Learn Go"})

	Expect(err).To(MatchError(domain.ErrBlankField))

	todo, _ := s.Store.GetByID("1")
	Expect(todo.Title).To(Equal("Learn Angular"))
}

func (s *TodoServiceTestSuite) TestToggleAndSoftDelete() {
	todo, err := s.Service.ToggleStatus(ctx, "1")
	Expect(err).To(BeNil())
	Expect(todo.Status).To(Equal(domain.TodoStatusDone))

	todo, err = s.Service.SoftDelete(ctx, "1")
	Expect(err).To(BeNil())
	Expect(todo.Status).To(Equal(domain.TodoStatusDeleted))

	todo, err = s.Service.ToggleStatus(ctx, "1")
	Expect(err).To(BeNil())
	Expect(todo.Status).To(Equal(domain.TodoStatusDeleted))

	Expect(s.Service.ListActive(ctx)).To(HaveLen(1))
	Expect(s.Service.List(ctx)).To(HaveLen(2))
}

func (s *TodoServiceTestSuite) TestSelection() {
	_, err := s.Service.Select(ctx, "missing-id")
	Expect(err).To(MatchError(domain.ErrTodoNotFound))

	todo, err := s.Service.Select(ctx, "2")
	Expect(err).To(BeNil())
	Expect(todo.Title).To(Equal("Buy groceries"))

	selected, ok := s.Service.Selected(ctx)
	Expect(ok).To(BeTrue())
	Expect(selected.ID).To(Equal("2"))

	s.Service.ClearSelection(ctx)

	_, ok = s.Service.Selected(ctx)
	Expect(ok).To(BeFalse())
}

func (s *TodoServiceTestSuite) TestSubscribeActive() {
	var sizes []int
	unsubscribe := s.Service.SubscribeActive(func(todos []domain.Todo) {
		sizes = append(sizes, len(todos))
	})
	defer unsubscribe()

	todo, _ := s.Service.Create(ctx, factory.NewTodoDraft())
	s.Service.SoftDelete(ctx, todo.ID)

	Expect(sizes).To(Equal([]int{2, 3, 2}))
}

type unavailableStore struct {
	*memory.TodoStore
}

func (unavailableStore) Update(id string, patch domain.TodoPatch) (domain.Todo, error) {
	return domain.Todo{}, errors.New("store unavailable")
}

func TestTodoService_RecordsUnexpectedErrors(t *testing.T) {
	RegisterTestingT(t)

	probe := NewRecordingProbe()
	svc := service.NewTodoService(unavailableStore{NewTestStore()}, probe, nil)

	_, err := svc.GetByID(ctx, "missing-id")
	Expect(err).To(MatchError(domain.ErrTodoNotFound))
	Expect(probe.Errors()).To(BeEmpty())

	_, err = svc.Update(ctx, "1", domain.TodoPatch{Title: domain.StringPtr("Learn Go")})
	Expect(err).To(MatchError("store unavailable"))

	recorded := probe.Errors()
	Expect(recorded).To(HaveLen(1))
	Expect(recorded[0].Operation).To(Equal("todo.Update"))
}
