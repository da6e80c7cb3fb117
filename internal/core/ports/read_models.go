// Package ports defines the contracts between the catalog use cases and the store.
// Read models are plain values; absence is reported with a comma-ok result,
// never with an error.
package ports

import "bookypedia/internal/core/domain/model/kernel"

// AuthorInfo is the read model of an author.
type AuthorInfo struct {
	ID   kernel.UUID
	Name string
}

// BookInfo is the read model of a book joined with its author's name.
// AuthorName is empty when the book was loaded without the join.
type BookInfo struct {
	ID              kernel.UUID
	AuthorID        kernel.UUID
	Title           string
	AuthorName      string
	PublicationYear int
}

// IntegrityReport counts rows that lost their owner outside the use-case cascade.
type IntegrityReport struct {
	OrphanedBooks int
	OrphanedTags  int
}

// IsClean reports whether no orphaned rows were found.
func (r IntegrityReport) IsClean() bool {
	return r.OrphanedBooks == 0 && r.OrphanedTags == 0
}
