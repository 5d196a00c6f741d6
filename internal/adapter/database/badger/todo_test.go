package badger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"todoapi/internal/adapter/database/badger"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
)

type BadgerTodoRepositorySuite struct {
	suite.Suite
	repo port.TodoRepository
	ctx  context.Context
	due  time.Time
}

func (s *BadgerTodoRepositorySuite) SetupTest() {
	db, err := badger.NewDB(badger.Config{})
	s.Require().NoError(err)

	s.repo = badger.NewTodoRepository(db, nil)
	s.ctx = context.Background()
	s.due = time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func (s *BadgerTodoRepositorySuite) TearDownTest() {
	s.repo.Close()
}

func TestBadgerTodoRepositorySuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(BadgerTodoRepositorySuite))
}

func (s *BadgerTodoRepositorySuite) TestList_Empty() {
	todos, err := s.repo.List(s.ctx)

	Expect(err).To(BeNil())
	Expect(todos).ToNot(BeNil())
	Expect(todos).To(BeEmpty())
}

func (s *BadgerTodoRepositorySuite) TestInsertAndGet() {
	created, err := s.repo.Insert(s.ctx, "Buy milk", s.due)
	Expect(err).To(BeNil())
	Expect(created.ID).To(Equal(int64(1)))

	found, err := s.repo.Get(s.ctx, created.ID)
	Expect(err).To(BeNil())

	if diff := cmp.Diff(created, found); diff != "" {
		s.T().Errorf("stored todo mismatch (-want +got):\n%s", diff)
	}
}

func (s *BadgerTodoRepositorySuite) TestList_KeepsIDOrder() {
	for i := 0; i < 300; i++ {
		_, err := s.repo.Insert(s.ctx, "task", s.due)
		Expect(err).To(BeNil())
	}

	todos, err := s.repo.List(s.ctx)
	Expect(err).To(BeNil())
	Expect(todos).To(HaveLen(300))

	for i, todo := range todos {
		Expect(todo.ID).To(Equal(int64(i + 1)))
	}
}

func (s *BadgerTodoRepositorySuite) TestDelete() {
	created, _ := s.repo.Insert(s.ctx, "Buy milk", s.due)

	deleted, err := s.repo.Delete(s.ctx, created.ID)
	Expect(err).To(BeNil())
	Expect(deleted).To(BeTrue())

	deleted, err = s.repo.Delete(s.ctx, created.ID)
	Expect(err).To(BeNil())
	Expect(deleted).To(BeFalse())

	_, err = s.repo.Get(s.ctx, created.ID)
	Expect(err).To(MatchError(domain.ErrTodoNotFound))

	next, _ := s.repo.Insert(s.ctx, "Walk dog", s.due)
	Expect(next.ID).To(Equal(int64(2)))
}

func (s *BadgerTodoRepositorySuite) TestUpdate() {
	created, _ := s.repo.Insert(s.ctx, "Buy milk", s.due)
	newDate := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

	updated, err := s.repo.Update(s.ctx, created.ID, func(t *domain.Todo) {
		t.MarkDone()
		t.Reschedule(newDate)
	})

	Expect(err).To(BeNil())
	Expect(updated.Completed).To(BeTrue())
	Expect(updated.DueDateString()).To(Equal("2025-03-15"))

	found, _ := s.repo.Get(s.ctx, created.ID)
	Expect(found).To(Equal(updated))

	_, err = s.repo.Update(s.ctx, 999, func(t *domain.Todo) { t.MarkDone() })
	Expect(err).To(MatchError(domain.ErrTodoNotFound))
}

func (s *BadgerTodoRepositorySuite) TestPing() {
	Expect(s.repo.Ping(s.ctx)).To(Succeed())
}
