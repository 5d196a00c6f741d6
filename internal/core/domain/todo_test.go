package domain

import (
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

func TestParseDueDate(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should parse a DD-MM-YYYY date", func(t *testing.T) {
		date, err := ParseDueDate("25-12-2024")

		Expect(err).To(BeNil())
		Expect(date).To(Equal(time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("should reject other formats", func(t *testing.T) {
		for _, value := range []string{
			"2024-12-25",
			"25/12/2024",
			"5-12-2024",
			"25-1-2024",
			"25-12-24",
			"25-12-2024 ",
			" 25-12-2024",
			"31-02-2024",
			"",
			"tomorrow",
		} {
			_, err := ParseDueDate(value)

			assert.Error(t, err, value)
			assert.True(t, errors.Is(err, ErrInvalidDueDate), value)
		}
	})
}

func TestFormatDueDate(t *testing.T) {
	date, _ := ParseDueDate("15-03-2025")

	assert.Equal(t, "2025-03-15", FormatDueDate(date))
}

func TestTodo_MarkDone(t *testing.T) {
	todo := Todo{Description: "Buy milk"}

	todo.MarkDone()
	assert.True(t, todo.Completed)

	todo.MarkDone()
	assert.True(t, todo.Completed)
}

func TestTodo_Reschedule(t *testing.T) {
	todo := Todo{}
	location := time.FixedZone("UTC-3", -3*60*60)

	todo.Reschedule(time.Date(2030, time.January, 1, 22, 30, 0, 0, location))

	assert.Equal(t, time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC), todo.DueDate)
	assert.Equal(t, "2030-01-01", todo.DueDateString())
}

func TestParseID(t *testing.T) {
	t.Run("should accept positive integers", func(t *testing.T) {
		id, ok := ParseID("42")

		assert.True(t, ok)
		assert.Equal(t, int64(42), id)
	})

	t.Run("should reject anything else", func(t *testing.T) {
		for _, value := range []string{"", "0", "-1", "abc", "1.5", "99999999999999999999"} {
			_, ok := ParseID(value)
			assert.False(t, ok, value)
		}
	})

	t.Run("should format ids back to strings", func(t *testing.T) {
		assert.Equal(t, "7", FormatID(7))
	})
}
