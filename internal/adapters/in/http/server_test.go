package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "bookypedia/internal/adapters/in/http"
	"bookypedia/internal/core/application/usecases"
	"bookypedia/internal/core/domain/model/kernel"
	"bookypedia/internal/core/ports"
	"bookypedia/internal/pkg/validation"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	m.Called(err == nil)
	if errors.Is(err, usecases.ErrAborted) {
		return nil
	}
	return err
}

func (m *MockCatalog) AddAuthor(_ context.Context, name string) (kernel.UUID, bool, error) {
	args := m.Called(name)
	return args.Get(0).(kernel.UUID), args.Bool(1), args.Error(2)
}

func (m *MockCatalog) AddBook(_ context.Context, title string, year int, authorID kernel.UUID) (kernel.UUID, bool, error) {
	args := m.Called(title, year, authorID)
	return args.Get(0).(kernel.UUID), args.Bool(1), args.Error(2)
}

func (m *MockCatalog) AddBookTags(_ context.Context, bookID kernel.UUID, tags []string) error {
	return m.Called(bookID, tags).Error(0)
}

func (m *MockCatalog) GetAuthors(_ context.Context) ([]ports.AuthorInfo, error) {
	args := m.Called()
	return args.Get(0).([]ports.AuthorInfo), args.Error(1)
}

func (m *MockCatalog) GetBooks(_ context.Context) ([]ports.BookInfo, error) {
	args := m.Called()
	return args.Get(0).([]ports.BookInfo), args.Error(1)
}

func (m *MockCatalog) GetAuthorBooks(_ context.Context, authorID kernel.UUID) ([]ports.BookInfo, error) {
	args := m.Called(authorID)
	return args.Get(0).([]ports.BookInfo), args.Error(1)
}

func (m *MockCatalog) FindAuthorByName(_ context.Context, name string) (ports.AuthorInfo, bool, error) {
	args := m.Called(name)
	return args.Get(0).(ports.AuthorInfo), args.Bool(1), args.Error(2)
}

func (m *MockCatalog) FindAuthorByID(_ context.Context, id kernel.UUID) (ports.AuthorInfo, bool, error) {
	args := m.Called(id)
	return args.Get(0).(ports.AuthorInfo), args.Bool(1), args.Error(2)
}

func (m *MockCatalog) FindBookByTitle(_ context.Context, title string) ([]ports.BookInfo, error) {
	args := m.Called(title)
	return args.Get(0).([]ports.BookInfo), args.Error(1)
}

func (m *MockCatalog) GetBookAuthor(_ context.Context, bookID kernel.UUID) (ports.AuthorInfo, bool, error) {
	args := m.Called(bookID)
	return args.Get(0).(ports.AuthorInfo), args.Bool(1), args.Error(2)
}

func (m *MockCatalog) GetBookTags(_ context.Context, bookID kernel.UUID) ([]string, error) {
	args := m.Called(bookID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCatalog) DeleteAuthor(_ context.Context, authorID kernel.UUID) error {
	return m.Called(authorID).Error(0)
}

func (m *MockCatalog) DeleteBook(_ context.Context, bookID kernel.UUID) error {
	return m.Called(bookID).Error(0)
}

func (m *MockCatalog) EditAuthor(_ context.Context, authorID kernel.UUID, newName string) error {
	return m.Called(authorID, newName).Error(0)
}

func (m *MockCatalog) EditBook(_ context.Context, book ports.BookInfo) error {
	return m.Called(book).Error(0)
}

func (m *MockCatalog) EditBookTags(_ context.Context, bookID kernel.UUID, tags []string) error {
	return m.Called(bookID, tags).Error(0)
}

func newCatalog() *MockCatalog {
	catalog := new(MockCatalog)
	catalog.On("WithinTransaction", mock.Anything)
	return catalog
}

func newRouter(catalog *MockCatalog) *echo.Echo {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := api.NewServer(func() api.Catalog { return catalog }, logger)
	return api.NewRouter(server, validation.New())
}

func do(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.Error {
	t.Helper()

	var body api.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestServer_Health(t *testing.T) {
	rec := do(t, newRouter(newCatalog()), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestServer_CreateAuthor(t *testing.T) {
	id := kernel.NewUUID()
	catalog := newCatalog()
	catalog.On("AddAuthor", "Leo Tolstoy").Return(id, true, nil).Once()

	rec := do(t, newRouter(catalog), http.MethodPost, "/api/v1/authors", `{"name":"Leo Tolstoy"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body api.Author
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, api.Author{ID: id.String(), Name: "Leo Tolstoy"}, body)
	catalog.AssertCalled(t, "WithinTransaction", true)
}

func TestServer_CreateAuthor_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*MockCatalog)
		wantStatus int
	}{
		{
			name: "duplicate name",
			body: `{"name":"Leo Tolstoy"}`,
			setup: func(c *MockCatalog) {
				c.On("AddAuthor", "Leo Tolstoy").Return(kernel.UUID{}, false, nil).Once()
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "missing name",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "name too long",
			body:       `{"name":"` + strings.Repeat("n", 101) + `"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "store fault",
			body: `{"name":"Leo Tolstoy"}`,
			setup: func(c *MockCatalog) {
				c.On("AddAuthor", "Leo Tolstoy").Return(kernel.UUID{}, false, errors.New("connection reset")).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := newCatalog()
			if tt.setup != nil {
				tt.setup(catalog)
			}

			rec := do(t, newRouter(catalog), http.MethodPost, "/api/v1/authors", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus, decodeError(t, rec).Code)
		})
	}
}

func TestServer_StoreFaultHidesDetails(t *testing.T) {
	catalog := newCatalog()
	catalog.On("GetBooks").Return([]ports.BookInfo(nil), errors.New("pq: secret detail")).Once()

	rec := do(t, newRouter(catalog), http.MethodGet, "/api/v1/books", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal error", decodeError(t, rec).Message)
	catalog.AssertCalled(t, "WithinTransaction", false)
}

func TestServer_UpdateAuthor_TakenName(t *testing.T) {
	id := kernel.NewUUID()
	catalog := newCatalog()
	catalog.On("FindAuthorByID", id).Return(ports.AuthorInfo{ID: id, Name: "Samuel Clemens"}, true, nil).Once()
	catalog.On("FindAuthorByName", "Mark Twain").
		Return(ports.AuthorInfo{ID: kernel.NewUUID(), Name: "Mark Twain"}, true, nil).Once()

	rec := do(t, newRouter(catalog), http.MethodPut, "/api/v1/authors/"+id.String(), `{"name":"Mark Twain"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	catalog.AssertNotCalled(t, "EditAuthor", mock.Anything, mock.Anything)
}

func TestServer_UpdateAuthor(t *testing.T) {
	id := kernel.NewUUID()
	catalog := newCatalog()
	catalog.On("FindAuthorByID", id).Return(ports.AuthorInfo{ID: id, Name: "Samuel Clemens"}, true, nil).Once()
	catalog.On("FindAuthorByName", "Mark Twain").Return(ports.AuthorInfo{}, false, nil).Once()
	catalog.On("EditAuthor", id, "Mark Twain").Return(nil).Once()

	rec := do(t, newRouter(catalog), http.MethodPut, "/api/v1/authors/"+id.String(), `{"name":"Mark Twain"}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	catalog.AssertExpectations(t)
}

func TestServer_DeleteAuthor_NotFound(t *testing.T) {
	id := kernel.NewUUID()
	catalog := newCatalog()
	catalog.On("FindAuthorByID", id).Return(ports.AuthorInfo{}, false, nil).Once()

	rec := do(t, newRouter(catalog), http.MethodDelete, "/api/v1/authors/"+id.String(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	catalog.AssertNotCalled(t, "DeleteAuthor", mock.Anything)
}

func TestServer_InvalidID(t *testing.T) {
	rec := do(t, newRouter(newCatalog()), http.MethodGet, "/api/v1/authors/not-a-uuid/books", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_GetAuthorBooks(t *testing.T) {
	id := kernel.NewUUID()
	bookID := kernel.NewUUID()
	catalog := newCatalog()
	catalog.On("FindAuthorByID", id).Return(ports.AuthorInfo{ID: id, Name: "Homer"}, true, nil).Once()
	catalog.On("GetAuthorBooks", id).Return([]ports.BookInfo{
		{ID: bookID, AuthorID: id, Title: "Iliad", AuthorName: "Homer", PublicationYear: 1},
	}, nil).Once()

	rec := do(t, newRouter(catalog), http.MethodGet, "/api/v1/authors/"+id.String()+"/books", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var books []api.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "Iliad", books[0].Title)
}

func TestServer_GetBooks_ByTitle(t *testing.T) {
	catalog := newCatalog()
	catalog.On("FindBookByTitle", "Iliad").Return([]ports.BookInfo{}, nil).Once()

	rec := do(t, newRouter(catalog), http.MethodGet, "/api/v1/books?title=Iliad", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	catalog.AssertNotCalled(t, "GetBooks")
}

func TestServer_CreateBook(t *testing.T) {
	authorID := kernel.NewUUID()
	bookID := kernel.NewUUID()
	catalog := newCatalog()
	mock.InOrder(
		catalog.On("AddBook", "Iliad", 1, authorID).Return(bookID, true, nil).Once(),
		catalog.On("AddBookTags", bookID, []string{"epic", "war"}).Return(nil).Once(),
	)

	body := `{"title":"Iliad","publication_year":1,"author_id":"` + authorID.String() + `","tags":[" war","epic","war",""]}`
	rec := do(t, newRouter(catalog), http.MethodPost, "/api/v1/books", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created api.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, bookID.String(), created.ID)
	assert.Equal(t, []string{"epic", "war"}, created.Tags)
	catalog.AssertExpectations(t)
}

func TestServer_CreateBook_UnknownAuthorIsConflict(t *testing.T) {
	authorID := kernel.NewUUID()
	catalog := newCatalog()
	catalog.On("AddBook", "Iliad", 1, authorID).Return(kernel.UUID{}, false, nil).Once()

	body := `{"title":"Iliad","publication_year":1,"author_id":"` + authorID.String() + `"}`
	rec := do(t, newRouter(catalog), http.MethodPost, "/api/v1/books", body)

	assert.Equal(t, http.StatusConflict, rec.Code)
	catalog.AssertNotCalled(t, "AddBookTags", mock.Anything, mock.Anything)
}

func TestServer_CreateBook_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bad author id", body: `{"title":"Iliad","publication_year":1,"author_id":"nope"}`},
		{name: "year out of range", body: `{"title":"Iliad","publication_year":10000,"author_id":"` + kernel.NewUUID().String() + `"}`},
		{name: "tag too long", body: `{"title":"Iliad","author_id":"` + kernel.NewUUID().String() + `","tags":["` + strings.Repeat("t", 31) + `"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := newCatalog()

			rec := do(t, newRouter(catalog), http.MethodPost, "/api/v1/books", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			catalog.AssertNotCalled(t, "AddBook", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestServer_UpdateBook(t *testing.T) {
	bookID := kernel.NewUUID()
	catalog := newCatalog()
	mock.InOrder(
		catalog.On("GetBookAuthor", bookID).Return(ports.AuthorInfo{ID: kernel.NewUUID()}, true, nil).Once(),
		catalog.On("EditBook", ports.BookInfo{ID: bookID, Title: "The Iliad", PublicationYear: 0}).Return(nil).Once(),
		catalog.On("EditBookTags", bookID, []string{}).Return(nil).Once(),
	)

	rec := do(t, newRouter(catalog), http.MethodPut, "/api/v1/books/"+bookID.String(), `{"title":"The Iliad","publication_year":0}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	catalog.AssertExpectations(t)
}

func TestServer_DeleteBook_NotFound(t *testing.T) {
	bookID := kernel.NewUUID()
	catalog := newCatalog()
	catalog.On("GetBookAuthor", bookID).Return(ports.AuthorInfo{}, false, nil).Once()

	rec := do(t, newRouter(catalog), http.MethodDelete, "/api/v1/books/"+bookID.String(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	catalog.AssertNotCalled(t, "DeleteBook", mock.Anything)
}

func TestServer_GetBookTags(t *testing.T) {
	bookID := kernel.NewUUID()
	catalog := newCatalog()
	catalog.On("GetBookAuthor", bookID).Return(ports.AuthorInfo{ID: kernel.NewUUID()}, true, nil).Once()
	catalog.On("GetBookTags", bookID).Return([]string{"epic"}, nil).Once()

	rec := do(t, newRouter(catalog), http.MethodGet, "/api/v1/books/"+bookID.String()+"/tags", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["epic"]`, rec.Body.String())
}

func TestServer_GetBookAuthor(t *testing.T) {
	bookID := kernel.NewUUID()
	authorID := kernel.NewUUID()
	catalog := newCatalog()
	catalog.On("GetBookAuthor", bookID).Return(ports.AuthorInfo{ID: authorID, Name: "Homer"}, true, nil).Once()

	rec := do(t, newRouter(catalog), http.MethodGet, "/api/v1/books/"+bookID.String()+"/author", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"`+authorID.String()+`","name":"Homer"}`, rec.Body.String())
}
