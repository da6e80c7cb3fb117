package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"bookypedia/internal/core/domain/model/kernel"
	"bookypedia/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	authorID, err := kernel.UUIDFromString("6f1c1e4e-8a3b-4c55-9d2e-0b7f7a8e2c11")
	require.NoError(t, err)

	t.Run("unknown author of a book", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("author_id", authorID)

		assert.Equal(t, "author_id", err.ParamName)
		assert.Equal(t, authorID, err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 6f1c1e4e-8a3b-4c55-9d2e-0b7f7a8e2c11", err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("lookup failed in the store", func(t *testing.T) {
		cause := errors.New("unit of work has no active transaction")
		err := errs.NewObjectNotFoundErrorWithCause("book_id", authorID, cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: book_id, ID is: 6f1c1e4e-8a3b-4c55-9d2e-0b7f7a8e2c11 "+
				"(cause: unit of work has no active transaction)",
			err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("survives wrapping by the use cases", func(t *testing.T) {
		wrapped := fmt.Errorf("get book author: %w", errs.NewObjectNotFoundError("book_id", authorID))

		var notFound *errs.ObjectNotFoundError
		require.ErrorAs(t, wrapped, &notFound)
		assert.Equal(t, "book_id", notFound.ParamName)
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("tag without cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("tags")

		assert.Equal(t, "tags", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: tags", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("author name over the column limit", func(t *testing.T) {
		cause := errors.New("101 characters exceed the limit of 100")
		err := errs.NewValueIsInvalidErrorWithCause("name", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: name (cause: 101 characters exceed the limit of 100)", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.NotErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("publication year after the range", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("publication_year", 10000, 0, 9999)

		assert.Equal(t, "publication_year", err.ParamName)
		assert.Equal(t, 10000, err.Value)
		assert.Equal(t, 0, err.Min)
		assert.Equal(t, 9999, err.Max)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: 10000 is publication_year, min value is 0, max value is 9999", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("publication year parsed from console input", func(t *testing.T) {
		cause := errors.New(`strconv.Atoi: parsing "-5": value out of range`)
		err := errs.NewValueIsOutOfRangeErrorWithCause("publication_year", -5, 0, 9999, cause)

		assert.Equal(t, cause, err.Cause)
		assert.Contains(t, err.Error(), "-5 is publication_year, min value is 0, max value is 9999")
		assert.Contains(t, err.Error(), "(cause: ")
	})

	t.Run("multi-line value is logged on one line", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("title", "War\nand Peace", 1, 100)

		assert.Contains(t, err.Error(), "War and Peace")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("blank title", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("title")

		assert.Equal(t, "title", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is required: title", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("book without author", func(t *testing.T) {
		cause := errors.New("UUID must be created via NewUUID")
		err := errs.NewValueIsRequiredErrorWithCause("author_id", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is required: author_id (cause: UUID must be created via NewUUID)", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestJoinedErrorsKeepEveryKind(t *testing.T) {
	// A book built from a blank title and an out-of-range year reports both.
	err := errors.Join(
		errs.NewValueIsRequiredError("title"),
		errs.NewValueIsOutOfRangeError("publication_year", -1, 0, 9999),
	)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	assert.NotErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Contains(t, err.Error(), "value is required: title\nvalue is invalid: -1 is publication_year")
}

func TestSentinelMessages(t *testing.T) {
	assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
	assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
	assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
	assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
}
