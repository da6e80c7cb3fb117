// Package console is the interactive text front end of the catalog.
//
// Every command runs inside one catalog transaction: it is committed when the
// command completes and rolled back when it fails or the user cancels a prompt.
// Failures are reported with a single line and the menu keeps running.
package console

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"bookypedia/internal/core/application/usecases"
	"bookypedia/internal/core/domain/model/book"
	"bookypedia/internal/core/domain/model/kernel"
	"bookypedia/internal/core/ports"
)

var (
	errInvalidAuthorNum       = errors.New("invalid author num")
	errInvalidBookNum         = errors.New("invalid book num")
	errInvalidAuthorID        = errors.New("invalid author id")
	errAuthorNotFound         = errors.New("author does not exist")
	errAuthorNameIsEmpty      = errors.New("author name is empty")
	errAuthorNotAdded         = errors.New("failed to add author")
	errBookNotAdded           = errors.New("failed to add book to db")
	errBookNotFound           = errors.New("book not found")
	errInvalidPublicationYear = errors.New("invalid publication year")
)

// Catalog is the set of use cases the console drives. *usecases.Catalog satisfies it.
type Catalog interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	AddAuthor(ctx context.Context, name string) (kernel.UUID, bool, error)
	AddBook(ctx context.Context, title string, year int, authorID kernel.UUID) (kernel.UUID, bool, error)
	AddBookTags(ctx context.Context, bookID kernel.UUID, tags []string) error
	GetAuthors(ctx context.Context) ([]ports.AuthorInfo, error)
	GetBooks(ctx context.Context) ([]ports.BookInfo, error)
	GetAuthorBooks(ctx context.Context, authorID kernel.UUID) ([]ports.BookInfo, error)
	FindAuthorByName(ctx context.Context, name string) (ports.AuthorInfo, bool, error)
	FindBookByTitle(ctx context.Context, title string) ([]ports.BookInfo, error)
	GetBookTags(ctx context.Context, bookID kernel.UUID) ([]string, error)
	DeleteAuthor(ctx context.Context, authorID kernel.UUID) error
	DeleteBook(ctx context.Context, bookID kernel.UUID) error
	EditAuthor(ctx context.Context, authorID kernel.UUID, newName string) error
	EditBook(ctx context.Context, book ports.BookInfo) error
	EditBookTags(ctx context.Context, bookID kernel.UUID, tags []string) error
}

// View binds catalog use cases to menu commands.
type View struct {
	menu    *Menu
	catalog Catalog
	logger  *slog.Logger
}

// NewView registers the catalog commands on menu.
func NewView(menu *Menu, catalog Catalog, logger *slog.Logger) *View {
	v := &View{
		menu:    menu,
		catalog: catalog,
		logger:  logger.With("component", "console"),
	}

	menu.AddAction("AddAuthor", "<name>", "Adds author", v.AddAuthor)
	menu.AddAction("AddBook", "<pub year> <title>", "Adds book", v.AddBook)
	menu.AddAction("ShowAuthors", "", "Show authors", v.ShowAuthors)
	menu.AddAction("ShowBooks", "", "Show books", v.ShowBooks)
	menu.AddAction("ShowAuthorBooks", "", "Show author books", v.ShowAuthorBooks)
	menu.AddAction("DeleteAuthor", "[name]", "Delete author", v.DeleteAuthor)
	menu.AddAction("EditAuthor", "[name]", "Edit author", v.EditAuthor)
	menu.AddAction("ShowBook", "[title]", "Show book", v.ShowBook)
	menu.AddAction("DeleteBook", "[title]", "Delete book", v.DeleteBook)
	menu.AddAction("EditBook", "[title]", "Edit book", v.EditBook)

	return v
}

// AddAuthor handles "AddAuthor <name>".
func (v *View) AddAuthor(ctx context.Context, name string) {
	err := v.catalog.WithinTransaction(ctx, func(ctx context.Context) error {
		if name == "" {
			return errAuthorNameIsEmpty
		}

		_, ok, err := v.catalog.AddAuthor(ctx, name)
		if err != nil {
			return err
		}
		if !ok {
			return errAuthorNotAdded
		}
		return nil
	})
	if err != nil {
		v.logger.DebugContext(ctx, "AddAuthor failed", "error", err)
		v.menu.Println("Failed to add author")
	}
}

// AddBook handles "AddBook <pub year> <title>", prompting for author and tags.
func (v *View) AddBook(ctx context.Context, args string) {
	err := v.catalog.WithinTransaction(ctx, func(ctx context.Context) error {
		year, title, err := parseBookParams(args)
		if err != nil {
			return err
		}

		authorID, err := v.addBookAuthor(ctx)
		if err != nil {
			return err
		}

		bookID, ok, err := v.catalog.AddBook(ctx, title, year, authorID)
		if err != nil {
			return err
		}
		if !ok {
			return errBookNotAdded
		}

		tags := v.readTags("")
		if len(tags) == 0 {
			return nil
		}
		return v.catalog.AddBookTags(ctx, bookID, tags)
	})
	v.report(ctx, "Failed to add book", err)
}

// ShowAuthors prints the numbered author list.
func (v *View) ShowAuthors(ctx context.Context, _ string) {
	err := v.catalog.WithinTransaction(ctx, func(ctx context.Context) error {
		authors, err := v.catalog.GetAuthors(ctx)
		if err != nil {
			return err
		}
		v.printAuthors(authors)
		return nil
	})
	v.report(ctx, "Failed to show authors", err)
}

// ShowBooks prints every book with its author.
func (v *View) ShowBooks(ctx context.Context, _ string) {
	err := v.catalog.WithinTransaction(ctx, func(ctx context.Context) error {
		books, err := v.catalog.GetBooks(ctx)
		if err != nil {
			return err
		}
		sortBooks(books)
		v.printBooks(books)
		return nil
	})
	v.report(ctx, "Failed to show books", err)
}

// ShowAuthorBooks prompts for an author and prints their books.
func (v *View) ShowAuthorBooks(ctx context.Context, _ string) {
	err := v.catalog.WithinTransaction(ctx, func(ctx context.Context) error {
		authorID, ok, err := v.selectAuthor(ctx)
		if err != nil || !ok {
			return err
		}

		books, err := v.catalog.GetAuthorBooks(ctx, authorID)
		if err != nil {
			return err
		}
		v.printAuthorBooks(books)
		return nil
	})
	v.report(ctx, "Failed to show books", err)
}

// DeleteAuthor removes an author with all their books.
func (v *View) DeleteAuthor(ctx context.Context, name string) {
	err := v.catalog.WithinTransaction(ctx, func(ctx context.Context) error {
		authorID, err := v.resolveAuthor(ctx, name)
		if err != nil {
			return err
		}
		return v.catalog.DeleteAuthor(ctx, authorID)
	})
	v.report(ctx, "Failed to delete author", err)
}

// EditAuthor renames an author.
func (v *View) EditAuthor(ctx context.Context, name string) {
	err := v.catalog.WithinTransaction(ctx, func(ctx context.Context) error {
		authorID, err := v.resolveAuthor(ctx, name)
		if err != nil {
			return err
		}

		v.menu.Println("Enter new name:")
		newName, _ := v.menu.ReadLine()
		if newName = strings.TrimSpace(newName); newName == "" {
			return errAuthorNameIsEmpty
		}
		return v.catalog.EditAuthor(ctx, authorID, newName)
	})
	v.report(ctx, "Failed to edit author", err)
}

// ShowBook prints one book with its tags.
func (v *View) ShowBook(ctx context.Context, title string) {
	err := v.catalog.WithinTransaction(ctx, func(ctx context.Context) error {
		b, ok, err := v.chooseBook(ctx, title)
		if err != nil || !ok {
			return err
		}

		tags, err := v.catalog.GetBookTags(ctx, b.ID)
		if err != nil {
			return err
		}
		v.printBook(b, tags)
		return nil
	})
	v.report(ctx, "Failed to find book", err)
}

// DeleteBook removes a book with its tags.
func (v *View) DeleteBook(ctx context.Context, title string) {
	err := v.catalog.WithinTransaction(ctx, func(ctx context.Context) error {
		b, ok, err := v.chooseBook(ctx, title)
		if err != nil {
			return err
		}
		if !ok {
			return usecases.ErrAborted
		}
		return v.catalog.DeleteBook(ctx, b.ID)
	})
	v.report(ctx, "Failed to delete book", err)
}

// EditBook edits title, year and tags of a book.
func (v *View) EditBook(ctx context.Context, title string) {
	err := v.catalog.WithinTransaction(ctx, func(ctx context.Context) error {
		b, ok, err := v.chooseBook(ctx, title)
		if err != nil {
			return err
		}
		if !ok {
			return errBookNotFound
		}

		v.readBookInfo(&b)
		if err = v.catalog.EditBook(ctx, b); err != nil {
			return err
		}

		current, err := v.catalog.GetBookTags(ctx, b.ID)
		if err != nil {
			return err
		}
		return v.catalog.EditBookTags(ctx, b.ID, v.readTags(book.JoinTags(current)))
	})
	v.report(ctx, "Failed to edit book", err)
}

func (v *View) report(ctx context.Context, prefix string, err error) {
	if err == nil {
		return
	}
	v.logger.DebugContext(ctx, prefix, "error", err)
	v.menu.Printf("%s: %v\n", prefix, err)
}

// addBookAuthor asks for the author of a new book, offering to create an
// unknown one.
func (v *View) addBookAuthor(ctx context.Context) (kernel.UUID, error) {
	v.menu.Println("Enter author name or empty line to select from list:")
	name, _ := v.menu.ReadLine()

	if name = strings.TrimSpace(name); name == "" {
		authorID, ok, err := v.selectAuthor(ctx)
		if err != nil {
			return kernel.UUID{}, err
		}
		if !ok {
			return kernel.UUID{}, usecases.ErrAborted
		}
		return authorID, nil
	}

	info, found, err := v.catalog.FindAuthorByName(ctx, name)
	if err != nil {
		return kernel.UUID{}, err
	}
	if found {
		return info.ID, nil
	}

	v.menu.Printf("No author found. Do you want to add %s (y/n)?\n", name)
	answer, _ := v.menu.ReadLine()
	if answer = strings.TrimSpace(answer); answer != "y" && answer != "Y" {
		return kernel.UUID{}, errAuthorNotFound
	}

	authorID, ok, err := v.catalog.AddAuthor(ctx, name)
	if err != nil {
		return kernel.UUID{}, err
	}
	if !ok {
		return kernel.UUID{}, errAuthorNotAdded
	}
	return authorID, nil
}

// resolveAuthor finds an author by name, or lets the user pick one when name is empty.
func (v *View) resolveAuthor(ctx context.Context, name string) (kernel.UUID, error) {
	if name == "" {
		authorID, ok, err := v.selectAuthor(ctx)
		if err != nil {
			return kernel.UUID{}, err
		}
		if !ok {
			return kernel.UUID{}, errInvalidAuthorID
		}
		return authorID, nil
	}

	info, found, err := v.catalog.FindAuthorByName(ctx, name)
	if err != nil {
		return kernel.UUID{}, err
	}
	if !found {
		return kernel.UUID{}, errAuthorNotFound
	}
	return info.ID, nil
}

func (v *View) selectAuthor(ctx context.Context) (kernel.UUID, bool, error) {
	v.menu.Println("Select author:")
	authors, err := v.catalog.GetAuthors(ctx)
	if err != nil {
		return kernel.UUID{}, false, err
	}
	v.printAuthors(authors)
	v.menu.Println("Enter author # or empty line to cancel")

	i, ok, err := v.readIndex(len(authors), errInvalidAuthorNum)
	if err != nil || !ok {
		return kernel.UUID{}, false, err
	}
	return authors[i].ID, true, nil
}

// chooseBook picks a book by exact title, or from the whole catalog when
// title is empty. The user chooses when several books match.
func (v *View) chooseBook(ctx context.Context, title string) (ports.BookInfo, bool, error) {
	var (
		books []ports.BookInfo
		err   error
	)
	if title == "" {
		books, err = v.catalog.GetBooks(ctx)
	} else {
		books, err = v.catalog.FindBookByTitle(ctx, title)
	}
	if err != nil {
		return ports.BookInfo{}, false, err
	}

	switch {
	case len(books) == 0 && title != "":
		return ports.BookInfo{}, false, nil
	case len(books) == 1 && title != "":
		return books[0], true, nil
	}

	sortBooks(books)
	v.printBooks(books)
	v.menu.Println("Enter book # or empty line to cancel")

	i, ok, err := v.readIndex(len(books), errInvalidBookNum)
	if err != nil || !ok {
		return ports.BookInfo{}, false, err
	}
	return books[i], true, nil
}

// readIndex reads a 1-based list position and returns it 0-based. An empty
// line or end of input cancels.
func (v *View) readIndex(size int, invalid error) (int, bool, error) {
	line, _ := v.menu.ReadLine()
	if line = strings.TrimSpace(line); line == "" {
		return 0, false, nil
	}

	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > size {
		return 0, false, invalid
	}
	return n - 1, true, nil
}

// readTags prompts for a comma-separated tag list. current is shown when not empty.
func (v *View) readTags(current string) []string {
	if current == "" {
		v.menu.Println("Enter tags (comma separated):")
	} else {
		v.menu.Printf("Enter tags (current tags: %s):\n", current)
	}

	line, _ := v.menu.ReadLine()
	return book.ParseTags(line)
}

// readBookInfo asks for a new title and year. Empty answers keep the current
// values; an unparsable year is reported and ignored.
func (v *View) readBookInfo(b *ports.BookInfo) {
	v.menu.Printf("Enter new title or empty line to use current one (%s):\n", b.Title)
	if title, _ := v.menu.ReadLine(); strings.TrimSpace(title) != "" {
		b.Title = strings.TrimSpace(title)
	}

	v.menu.Printf("Enter publication year or empty line to use the current one (%d):\n", b.PublicationYear)
	year, _ := v.menu.ReadLine()
	if year = strings.TrimSpace(year); year == "" {
		return
	}

	n, err := strconv.Atoi(year)
	if err != nil {
		v.menu.Printf("Failed to edit book: %v\n", errInvalidPublicationYear)
		return
	}
	b.PublicationYear = n
}

// parseBookParams splits "<pub year> <title>".
func parseBookParams(args string) (int, string, error) {
	yearText, title, _ := strings.Cut(args, " ")

	year, err := strconv.Atoi(yearText)
	if err != nil {
		return 0, "", errInvalidPublicationYear
	}
	return year, strings.TrimSpace(title), nil
}
