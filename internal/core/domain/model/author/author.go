package author

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"bookypedia/internal/core/domain/model/kernel"
	"bookypedia/internal/pkg/errs"
)

// MaxNameLength mirrors the varchar(100) authors.name column.
const MaxNameLength = 100

var ErrAuthorIsNotConstructed = errors.New("Author must be created via NewAuthor or RestoreAuthor")

// Author is a catalog author. Books reference it by ID without owning it.
type Author struct {
	id            kernel.UUID
	name          string
	isConstructed bool
}

// NewAuthor creates an author. The name is stored exactly as given.
//
// Example:
//
//	a, err := author.NewAuthor(kernel.NewUUID(), "Joanne Rowling")
//	if err != nil {
//	    return fmt.Errorf("invalid author: %w", err)
//	}
func NewAuthor(id kernel.UUID, name string) (*Author, error) {
	a := &Author{isConstructed: true}

	if err := errors.Join(
		a.setID(id),
		a.setName(name),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreAuthor rebuilds an author loaded from the store. Only the ID is
// checked; the stored name is taken as is.
func RestoreAuthor(id kernel.UUID, name string) (*Author, error) {
	a := &Author{isConstructed: true, name: name}
	if err := a.setID(id); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate ensures the author was created through NewAuthor.
func (a *Author) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAuthorIsNotConstructed
	}
	return nil
}

func (a *Author) ID() kernel.UUID {
	return a.id
}

func (a *Author) Name() string {
	return a.name
}

// Rename replaces the display name after validating it.
func (a *Author) Rename(name string) error {
	return a.setName(name)
}

func (a *Author) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	a.id = id
	return nil
}

func (a *Author) setName(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	a.name = name
	return nil
}

// ValidateName checks an author name without constructing an Author.
// A blank name is missing; the length limit applies to the name as given.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return errs.NewValueIsInvalidErrorWithCause("name",
			fmt.Errorf("%d characters exceed the limit of %d", n, MaxNameLength))
	}
	return nil
}
