package service_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"todoapi/internal/adapter/http/validation"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	"todoapi/internal/core/service"
	"todoapi/internal/core/telemetry"
	. "todoapi/pkg/test"
	"todoapi/pkg/test/factory"
)

type TodoServiceTestSuite struct {
	suite.Suite
	Store   NamedStore
	Service *service.TodoService
	ctx     context.Context
}

func (s *TodoServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func TestTodoServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)

	for _, store := range TodoStores(t) {
		t.Run(store.Name, func(t *testing.T) {
			suite.Run(t, &TodoServiceTestSuite{Store: store})
		})
	}
}

// One store serves every method of a run; assertions are relative to what
// each test created.
func (s *TodoServiceTestSuite) SetupSuite() {
	s.Service = service.NewTodoService(s.Store.Repo, validation.NewValidator(), telemetry.NewNoOpProbe())
}

func (s *TodoServiceTestSuite) create(description, dueDate string) domain.Todo {
	todo, err := s.Service.CreateTodo(s.ctx, description, dueDate)
	s.Require().NoError(err)

	return todo
}

func (s *TodoServiceTestSuite) TestCreateTodo_StartsNotCompleted() {
	item := factory.NewTodo()

	todo := s.create(item.Description, factory.DueDateInput(item))

	Expect(todo.ID).To(BeNumerically(">", 0))
	Expect(todo.Completed).To(BeFalse())
	Expect(todo.DueDate).To(Equal(item.DueDate))
}

func (s *TodoServiceTestSuite) TestCreateTodo_RoundTrip() {
	created := s.create("Buy milk", "01-01-2030")

	found, err := s.Service.GetTodo(s.ctx, domain.FormatID(created.ID))

	Expect(err).To(BeNil())
	Expect(found.Description).To(Equal("Buy milk"))
	Expect(found.DueDateString()).To(Equal("2030-01-01"))
}

func (s *TodoServiceTestSuite) TestCreateTodo_RejectsEmptyDescription() {
	before, _ := s.Service.ListTodos(s.ctx)

	_, err := s.Service.CreateTodo(s.ctx, "", "01-01-2030")

	var invalid *service.InvalidInputError
	Expect(errors.As(err, &invalid)).To(BeTrue())
	Expect(errors.Is(err, domain.ErrInvalidTodo)).To(BeTrue())
	Expect(invalid.Fields[0].Field).To(Equal("description"))

	after, _ := s.Service.ListTodos(s.ctx)
	Expect(after).To(HaveLen(len(before)))
}

func (s *TodoServiceTestSuite) TestCreateTodo_KeepsWhitespaceDescription() {
	todo := s.create("   ", "01-01-2030")

	Expect(todo.Description).To(Equal("   "))
}

func (s *TodoServiceTestSuite) TestCreateTodo_RejectsBadDate() {
	before, _ := s.Service.ListTodos(s.ctx)

	_, err := s.Service.CreateTodo(s.ctx, "Buy milk", "2030-01-01")

	Expect(errors.Is(err, domain.ErrInvalidDueDate)).To(BeTrue())

	after, _ := s.Service.ListTodos(s.ctx)
	Expect(after).To(HaveLen(len(before)))
}

func (s *TodoServiceTestSuite) TestMarkDone_IsIdempotent() {
	created := s.create("Walk dog", "02-02-2030")
	id := domain.FormatID(created.ID)

	first, err := s.Service.MarkDone(s.ctx, id)
	Expect(err).To(BeNil())
	Expect(first.Completed).To(BeTrue())

	second, err := s.Service.MarkDone(s.ctx, id)
	Expect(err).To(BeNil())
	Expect(second.Completed).To(BeTrue())

	todos, _ := s.Service.ListTodos(s.ctx)

	for _, todo := range todos {
		if todo.ID == created.ID {
			Expect(todo.Completed).To(BeTrue())
		}
	}
}

func (s *TodoServiceTestSuite) TestMarkDone_NotFound() {
	for _, id := range []string{"999999", "abc", ""} {
		_, err := s.Service.MarkDone(s.ctx, id)

		assert.ErrorIs(s.T(), err, domain.ErrTodoNotFound, id)
	}
}

func (s *TodoServiceTestSuite) TestDeleteTodo_Cardinality() {
	created := s.create("Pay rent", "03-03-2030")
	id := domain.FormatID(created.ID)

	before, _ := s.Service.ListTodos(s.ctx)

	deleted, err := s.Service.DeleteTodo(s.ctx, id)
	Expect(err).To(BeNil())
	Expect(deleted).To(BeTrue())

	after, _ := s.Service.ListTodos(s.ctx)
	Expect(after).To(HaveLen(len(before) - 1))

	_, err = s.Service.GetTodo(s.ctx, id)
	Expect(errors.Is(err, domain.ErrTodoNotFound)).To(BeTrue())

	deleted, err = s.Service.DeleteTodo(s.ctx, id)
	Expect(err).To(BeNil())
	Expect(deleted).To(BeFalse())

	unchanged, _ := s.Service.ListTodos(s.ctx)
	Expect(unchanged).To(HaveLen(len(after)))

	deleted, err = s.Service.DeleteTodo(s.ctx, "not-an-id")
	Expect(err).To(BeNil())
	Expect(deleted).To(BeFalse())
}

func (s *TodoServiceTestSuite) TestUpdateDueDate() {
	created := s.create("File taxes", "01-01-2030")

	updated, err := s.Service.UpdateDueDate(s.ctx, domain.FormatID(created.ID), "15-03-2025")
	Expect(err).To(BeNil())
	Expect(updated.DueDateString()).To(Equal("2025-03-15"))

	found, _ := s.Service.GetTodo(s.ctx, domain.FormatID(created.ID))
	Expect(found.DueDateString()).To(Equal("2025-03-15"))
	Expect(found.Description).To(Equal("File taxes"))
}

func (s *TodoServiceTestSuite) TestUpdateDueDate_Errors() {
	created := s.create("File taxes", "01-01-2030")
	id := domain.FormatID(created.ID)

	_, err := s.Service.UpdateDueDate(s.ctx, id, "2025/03/15")
	Expect(errors.Is(err, domain.ErrInvalidDueDate)).To(BeTrue())

	found, _ := s.Service.GetTodo(s.ctx, id)
	Expect(found.DueDateString()).To(Equal("2030-01-01"))

	_, err = s.Service.UpdateDueDate(s.ctx, "999999", "15-03-2025")
	Expect(errors.Is(err, domain.ErrTodoNotFound)).To(BeTrue())

	_, err = s.Service.UpdateDueDate(s.ctx, "999999", "bad")
	Expect(errors.Is(err, domain.ErrInvalidDueDate)).To(BeTrue())
}

func TestTodoService_EmptyStore(t *testing.T) {
	RegisterTestingT(t)

	for _, store := range TodoStores(t) {
		svc := service.NewTodoService(store.Repo, validation.NewValidator(), telemetry.NewNoOpProbe())

		todos, err := svc.ListTodos(context.Background())

		Expect(err).To(BeNil(), store.Name)
		Expect(todos).ToNot(BeNil(), store.Name)
		Expect(todos).To(BeEmpty(), store.Name)
	}
}

type failingRepository struct {
	port.TodoRepository
}

func (failingRepository) List(ctx context.Context) ([]domain.Todo, error) {
	return nil, errors.New("disk on fire")
}

func TestTodoService_PropagatesStoreFailures(t *testing.T) {
	svc := service.NewTodoService(failingRepository{}, validation.NewValidator(), telemetry.NewNoOpProbe())

	_, err := svc.ListTodos(context.Background())

	assert.ErrorContains(t, err, "disk on fire")
	assert.False(t, errors.Is(err, domain.ErrTodoNotFound))
}
