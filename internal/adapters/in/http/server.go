// Package http exposes the catalog over a JSON API built on echo.
//
// Every request gets its own Catalog, hence its own transaction, which is
// committed when the handler succeeds and rolled back otherwise.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"bookypedia/internal/core/domain/model/book"
	"bookypedia/internal/core/domain/model/kernel"
	"bookypedia/internal/core/ports"
	"bookypedia/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Catalog is the set of use cases the API drives. *usecases.Catalog satisfies it.
type Catalog interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	AddAuthor(ctx context.Context, name string) (kernel.UUID, bool, error)
	AddBook(ctx context.Context, title string, year int, authorID kernel.UUID) (kernel.UUID, bool, error)
	AddBookTags(ctx context.Context, bookID kernel.UUID, tags []string) error
	GetAuthors(ctx context.Context) ([]ports.AuthorInfo, error)
	GetBooks(ctx context.Context) ([]ports.BookInfo, error)
	GetAuthorBooks(ctx context.Context, authorID kernel.UUID) ([]ports.BookInfo, error)
	FindAuthorByName(ctx context.Context, name string) (ports.AuthorInfo, bool, error)
	FindAuthorByID(ctx context.Context, id kernel.UUID) (ports.AuthorInfo, bool, error)
	FindBookByTitle(ctx context.Context, title string) ([]ports.BookInfo, error)
	GetBookAuthor(ctx context.Context, bookID kernel.UUID) (ports.AuthorInfo, bool, error)
	GetBookTags(ctx context.Context, bookID kernel.UUID) ([]string, error)
	DeleteAuthor(ctx context.Context, authorID kernel.UUID) error
	DeleteBook(ctx context.Context, bookID kernel.UUID) error
	EditAuthor(ctx context.Context, authorID kernel.UUID, newName string) error
	EditBook(ctx context.Context, book ports.BookInfo) error
	EditBookTags(ctx context.Context, bookID kernel.UUID, tags []string) error
}

// Server handles the catalog routes.
type Server struct {
	newCatalog func() Catalog
	logger     *slog.Logger
}

// NewServer creates a server. newCatalog is called once per request.
func NewServer(newCatalog func() Catalog, logger *slog.Logger) *Server {
	return &Server{
		newCatalog: newCatalog,
		logger:     logger.With("component", "http"),
	}
}

// RegisterRoutes mounts the health check and the /api/v1 routes on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	api := e.Group("/api/v1")

	api.GET("/authors", s.GetAuthors)
	api.POST("/authors", s.CreateAuthor)
	api.PUT("/authors/:id", s.UpdateAuthor)
	api.DELETE("/authors/:id", s.DeleteAuthor)
	api.GET("/authors/:id/books", s.GetAuthorBooks)

	api.GET("/books", s.GetBooks)
	api.POST("/books", s.CreateBook)
	api.PUT("/books/:id", s.UpdateBook)
	api.DELETE("/books/:id", s.DeleteBook)
	api.GET("/books/:id/tags", s.GetBookTags)
	api.GET("/books/:id/author", s.GetBookAuthor)
}

// GetAuthors handles GET /api/v1/authors.
func (s *Server) GetAuthors(c echo.Context) error {
	var authors []ports.AuthorInfo

	catalog := s.newCatalog()
	err := catalog.WithinTransaction(c.Request().Context(), func(ctx context.Context) error {
		var err error
		authors, err = catalog.GetAuthors(ctx)
		return err
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toAuthors(authors))
}

// CreateAuthor handles POST /api/v1/authors.
func (s *Server) CreateAuthor(c echo.Context) error {
	var req NewAuthor
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return s.writeError(c, err)
	}

	var created ports.AuthorInfo

	catalog := s.newCatalog()
	err := catalog.WithinTransaction(c.Request().Context(), func(ctx context.Context) error {
		id, ok, err := catalog.AddAuthor(ctx, req.Name)
		if err != nil {
			return err
		}
		if !ok {
			return conflict("author %q already exists", req.Name)
		}
		created = ports.AuthorInfo{ID: id, Name: req.Name}
		return nil
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, toAuthor(created))
}

// UpdateAuthor handles PUT /api/v1/authors/:id.
func (s *Server) UpdateAuthor(c echo.Context) error {
	authorID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.writeError(c, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	var req NewAuthor
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err = c.Validate(&req); err != nil {
		return s.writeError(c, err)
	}

	catalog := s.newCatalog()
	err = catalog.WithinTransaction(c.Request().Context(), func(ctx context.Context) error {
		if err := requireAuthor(ctx, catalog, authorID); err != nil {
			return err
		}

		// A rename onto a taken name would abort the transaction, so it is
		// refused up front.
		other, taken, err := catalog.FindAuthorByName(ctx, req.Name)
		if err != nil {
			return err
		}
		if taken && !other.ID.IsEqual(authorID) {
			return conflict("author %q already exists", req.Name)
		}

		return catalog.EditAuthor(ctx, authorID, req.Name)
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// DeleteAuthor handles DELETE /api/v1/authors/:id. The author's books and
// their tags are deleted too.
func (s *Server) DeleteAuthor(c echo.Context) error {
	authorID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.writeError(c, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	catalog := s.newCatalog()
	err = catalog.WithinTransaction(c.Request().Context(), func(ctx context.Context) error {
		if err := requireAuthor(ctx, catalog, authorID); err != nil {
			return err
		}
		return catalog.DeleteAuthor(ctx, authorID)
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetAuthorBooks handles GET /api/v1/authors/:id/books.
func (s *Server) GetAuthorBooks(c echo.Context) error {
	authorID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.writeError(c, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	var books []ports.BookInfo

	catalog := s.newCatalog()
	err = catalog.WithinTransaction(c.Request().Context(), func(ctx context.Context) error {
		if err := requireAuthor(ctx, catalog, authorID); err != nil {
			return err
		}

		var err error
		books, err = catalog.GetAuthorBooks(ctx, authorID)
		return err
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toBooks(books))
}

// GetBooks handles GET /api/v1/books, optionally filtered by an exact title.
func (s *Server) GetBooks(c echo.Context) error {
	title := c.QueryParam("title")

	var books []ports.BookInfo

	catalog := s.newCatalog()
	err := catalog.WithinTransaction(c.Request().Context(), func(ctx context.Context) error {
		var err error
		if title == "" {
			books, err = catalog.GetBooks(ctx)
		} else {
			books, err = catalog.FindBookByTitle(ctx, title)
		}
		return err
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toBooks(books))
}

// CreateBook handles POST /api/v1/books.
func (s *Server) CreateBook(c echo.Context) error {
	var req NewBook
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Tags = book.NormalizeTags(req.Tags)
	if err := c.Validate(&req); err != nil {
		return s.writeError(c, err)
	}

	authorID, err := kernel.UUIDFromString(req.AuthorID)
	if err != nil {
		return s.writeError(c, errs.NewValueIsInvalidErrorWithCause("author_id", err))
	}

	var created Book

	catalog := s.newCatalog()
	err = catalog.WithinTransaction(c.Request().Context(), func(ctx context.Context) error {
		bookID, ok, err := catalog.AddBook(ctx, req.Title, req.PublicationYear, authorID)
		if err != nil {
			return err
		}
		if !ok {
			return conflict("book was rejected: author %s does not exist or the book violates a constraint", authorID)
		}

		if err = catalog.AddBookTags(ctx, bookID, req.Tags); err != nil {
			return err
		}

		created = toBook(ports.BookInfo{
			ID:              bookID,
			AuthorID:        authorID,
			Title:           req.Title,
			PublicationYear: req.PublicationYear,
		})
		created.Tags = req.Tags
		return nil
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, created)
}

// UpdateBook handles PUT /api/v1/books/:id.
func (s *Server) UpdateBook(c echo.Context) error {
	bookID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.writeError(c, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	var req BookUpdate
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Tags = book.NormalizeTags(req.Tags)
	if err = c.Validate(&req); err != nil {
		return s.writeError(c, err)
	}

	catalog := s.newCatalog()
	err = catalog.WithinTransaction(c.Request().Context(), func(ctx context.Context) error {
		if _, err := requireBookAuthor(ctx, catalog, bookID); err != nil {
			return err
		}

		if err := catalog.EditBook(ctx, ports.BookInfo{
			ID:              bookID,
			Title:           req.Title,
			PublicationYear: req.PublicationYear,
		}); err != nil {
			return err
		}
		return catalog.EditBookTags(ctx, bookID, req.Tags)
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// DeleteBook handles DELETE /api/v1/books/:id.
func (s *Server) DeleteBook(c echo.Context) error {
	bookID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.writeError(c, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	catalog := s.newCatalog()
	err = catalog.WithinTransaction(c.Request().Context(), func(ctx context.Context) error {
		if _, err := requireBookAuthor(ctx, catalog, bookID); err != nil {
			return err
		}
		return catalog.DeleteBook(ctx, bookID)
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetBookTags handles GET /api/v1/books/:id/tags.
func (s *Server) GetBookTags(c echo.Context) error {
	bookID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.writeError(c, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	var tags []string

	catalog := s.newCatalog()
	err = catalog.WithinTransaction(c.Request().Context(), func(ctx context.Context) error {
		if _, err := requireBookAuthor(ctx, catalog, bookID); err != nil {
			return err
		}

		var err error
		tags, err = catalog.GetBookTags(ctx, bookID)
		return err
	})
	if err != nil {
		return s.writeError(c, err)
	}

	if tags == nil {
		tags = []string{}
	}
	return c.JSON(http.StatusOK, tags)
}

// GetBookAuthor handles GET /api/v1/books/:id/author.
func (s *Server) GetBookAuthor(c echo.Context) error {
	bookID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.writeError(c, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	var owner ports.AuthorInfo

	catalog := s.newCatalog()
	err = catalog.WithinTransaction(c.Request().Context(), func(ctx context.Context) error {
		var err error
		owner, err = requireBookAuthor(ctx, catalog, bookID)
		return err
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toAuthor(owner))
}

func requireAuthor(ctx context.Context, catalog Catalog, authorID kernel.UUID) error {
	_, found, err := catalog.FindAuthorByID(ctx, authorID)
	if err != nil {
		return err
	}
	if !found {
		return errs.NewObjectNotFoundError("author_id", authorID)
	}
	return nil
}

// requireBookAuthor resolves the owner of a book. A missing book and a book
// whose author is gone are both reported as not found.
func requireBookAuthor(ctx context.Context, catalog Catalog, bookID kernel.UUID) (ports.AuthorInfo, error) {
	owner, found, err := catalog.GetBookAuthor(ctx, bookID)
	if err != nil {
		return ports.AuthorInfo{}, err
	}
	if !found {
		return ports.AuthorInfo{}, errs.NewObjectNotFoundError("book_id", bookID)
	}
	return owner, nil
}
