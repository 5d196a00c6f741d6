package graphql_test

import (
	"context"
	"encoding/json"
	"testing"

	gql "github.com/graph-gophers/graphql-go"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"todoapi/internal/adapter/database/memory"
	"todoapi/internal/adapter/graphql"
	"todoapi/internal/adapter/http/validation"
	"todoapi/internal/core/service"
	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"
)

type ResolverTestSuite struct {
	suite.Suite
	Schema *gql.Schema
}

func (s *ResolverTestSuite) SetupTest() {
	svc := service.NewTodoService(memory.NewTodoRepository(), validation.NewValidator(), telemetry.NewNoOpProbe())

	schema, err := graphql.NewSchema(svc, config.NewNopLogger())
	s.Require().NoError(err)

	s.Schema = schema
}

func TestResolverTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(ResolverTestSuite))
}

type todoPayload struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	DueDate     string `json:"dueDate"`
}

type gqlError struct {
	Message    string                 `json:"message"`
	Path       []interface{}          `json:"path"`
	Extensions map[string]interface{} `json:"extensions"`
}

func (s *ResolverTestSuite) exec(query string, variables map[string]interface{}, data interface{}) []gqlError {
	resp := s.Schema.Exec(context.Background(), query, "", variables)

	if data != nil && len(resp.Data) > 0 {
		s.Require().NoError(json.Unmarshal(resp.Data, data))
	}

	raw, err := json.Marshal(resp.Errors)
	s.Require().NoError(err)

	var errs []gqlError
	s.Require().NoError(json.Unmarshal(raw, &errs))

	return errs
}

func (s *ResolverTestSuite) createTodo(description, dueDate string) todoPayload {
	var data struct {
		CreateTodo todoPayload `json:"createTodo"`
	}

	errs := s.exec(`mutation($d: String!, $due: String!) { createTodo(description: $d, dueDate: $due) { id description completed dueDate } }`,
		map[string]interface{}{"d": description, "due": dueDate}, &data)

	s.Require().Empty(errs)

	return data.CreateTodo
}

func (s *ResolverTestSuite) TestTodos_EmptyStore() {
	var data struct {
		Todos []todoPayload `json:"todos"`
	}

	errs := s.exec(`{ todos { id } }`, nil, &data)

	Expect(errs).To(BeEmpty())
	Expect(data.Todos).ToNot(BeNil())
	Expect(data.Todos).To(BeEmpty())
}

func (s *ResolverTestSuite) TestCreateTodo_RoundTrip() {
	created := s.createTodo("Buy milk", "01-01-2030")

	Expect(created.ID).To(Equal("1"))
	Expect(created.Completed).To(BeFalse())
	Expect(created.DueDate).To(Equal("2030-01-01"))

	var data struct {
		Todo *todoPayload `json:"todo"`
	}

	errs := s.exec(`query($id: ID!) { todo(todoId: $id) { description dueDate } }`, map[string]interface{}{"id": created.ID}, &data)

	Expect(errs).To(BeEmpty())
	Expect(data.Todo.Description).To(Equal("Buy milk"))
	Expect(data.Todo.DueDate).To(Equal("2030-01-01"))
}

func (s *ResolverTestSuite) TestTodo_UnknownIDIsNull() {
	var data struct {
		Todo *todoPayload `json:"todo"`
	}

	errs := s.exec(`{ todo(todoId: "42") { id } }`, nil, &data)

	Expect(errs).To(BeEmpty())
	Expect(data.Todo).To(BeNil())
}

func (s *ResolverTestSuite) TestCreateTodo_InvalidDate() {
	errs := s.exec(`mutation { createTodo(description: "Buy milk", dueDate: "2030-01-01") { id } }`, nil, nil)

	Expect(errs).To(HaveLen(1))
	Expect(errs[0].Extensions["code"]).To(Equal(graphql.CodeInvalidDueDate))
	Expect(errs[0].Message).To(ContainSubstring("DD-MM-YYYY"))
}

func (s *ResolverTestSuite) TestCreateTodo_EmptyDescription() {
	errs := s.exec(`mutation { createTodo(description: "", dueDate: "01-01-2030") { id } }`, nil, nil)

	Expect(errs).To(HaveLen(1))
	Expect(errs[0].Extensions["code"]).To(Equal(graphql.CodeValidation))

	var data struct {
		Todos []todoPayload `json:"todos"`
	}

	s.exec(`{ todos { id } }`, nil, &data)
	Expect(data.Todos).To(BeEmpty())
}

func (s *ResolverTestSuite) TestMarkDone() {
	created := s.createTodo("Buy milk", "01-01-2030")

	var data struct {
		MarkDone *todoPayload `json:"markDone"`
	}

	for i := 0; i < 2; i++ {
		errs := s.exec(`mutation($id: String!) { markDone(todoId: $id) { id completed } }`, map[string]interface{}{"id": created.ID}, &data)

		Expect(errs).To(BeEmpty())
		Expect(data.MarkDone.Completed).To(BeTrue())
	}
}

func (s *ResolverTestSuite) TestMarkDone_NotFound() {
	var data struct {
		MarkDone *todoPayload `json:"markDone"`
	}

	errs := s.exec(`mutation { markDone(todoId: "99") { id } }`, nil, &data)

	Expect(data.MarkDone).To(BeNil())
	Expect(errs).To(HaveLen(1))
	Expect(errs[0].Extensions["code"]).To(Equal(graphql.CodeNotFound))
	Expect(errs[0].Path).To(Equal([]interface{}{"markDone"}))
}

func (s *ResolverTestSuite) TestDeleteTodo() {
	created := s.createTodo("Buy milk", "01-01-2030")

	var data struct {
		DeleteTodo struct {
			Success bool      `json:"success"`
			Errors  []*string `json:"errors"`
		} `json:"deleteTodo"`
	}

	errs := s.exec(`mutation($id: ID!) { deleteTodo(todoId: $id) { success errors } }`, map[string]interface{}{"id": created.ID}, &data)
	Expect(errs).To(BeEmpty())
	Expect(data.DeleteTodo.Success).To(BeTrue())
	Expect(data.DeleteTodo.Errors).To(BeNil())

	errs = s.exec(`mutation($id: ID!) { deleteTodo(todoId: $id) { success } }`, map[string]interface{}{"id": created.ID}, &data)
	Expect(errs).To(BeEmpty())
	Expect(data.DeleteTodo.Success).To(BeFalse())
}

func (s *ResolverTestSuite) TestUpdateDueDate() {
	created := s.createTodo("Buy milk", "01-01-2030")

	var data struct {
		UpdateDueDate *todoPayload `json:"updateDueDate"`
	}

	errs := s.exec(`mutation($id: String) { updateDueDate(todoId: $id, newDate: "15-03-2025") { dueDate } }`, map[string]interface{}{"id": created.ID}, &data)

	Expect(errs).To(BeEmpty())
	Expect(data.UpdateDueDate.DueDate).To(Equal("2025-03-15"))
}

func (s *ResolverTestSuite) TestUpdateDueDate_NullID() {
	var data struct {
		UpdateDueDate *todoPayload `json:"updateDueDate"`
	}

	errs := s.exec(`mutation { updateDueDate(newDate: "15-03-2025") { id } }`, nil, &data)

	Expect(data.UpdateDueDate).To(BeNil())
	Expect(errs).To(HaveLen(1))
	Expect(errs[0].Extensions["code"]).To(Equal(graphql.CodeNotFound))
}

func (s *ResolverTestSuite) TestSyntaxErrorHasNoData() {
	resp := s.Schema.Exec(context.Background(), `{ todos { id `, "", nil)

	Expect(resp.Data).To(BeEmpty())
	Expect(resp.Errors).ToNot(BeEmpty())
}
