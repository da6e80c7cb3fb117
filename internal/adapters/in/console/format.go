package console

import (
	"cmp"
	"slices"
	"unicode"
	"unicode/utf8"

	"bookypedia/internal/core/domain/model/book"
	"bookypedia/internal/core/ports"
)

func (v *View) printAuthors(authors []ports.AuthorInfo) {
	for i, a := range authors {
		v.menu.Printf("%d %s\n", i+1, a.Name)
	}
}

func (v *View) printBooks(books []ports.BookInfo) {
	for i, b := range books {
		v.menu.Printf("%d %s by %s, %d\n", i+1, b.Title, b.AuthorName, b.PublicationYear)
	}
}

func (v *View) printAuthorBooks(books []ports.BookInfo) {
	for i, b := range books {
		v.menu.Printf("%d %s, %d\n", i+1, b.Title, b.PublicationYear)
	}
}

func (v *View) printBook(b ports.BookInfo, tags []string) {
	v.menu.Printf("Title: %s\nAuthor: %s\nPublication year: %d\n", b.Title, b.AuthorName, b.PublicationYear)
	if joined := book.JoinTags(tags); joined != "" {
		v.menu.Printf("Tags: %s\n", joined)
	}
}

// sortBooks orders books by title. Books with equal titles are ordered by
// author name with its first letter lowered, so "alice" and "Alice" sort together.
func sortBooks(books []ports.BookInfo) {
	slices.SortStableFunc(books, func(l, r ports.BookInfo) int {
		if c := cmp.Compare(l.Title, r.Title); c != 0 {
			return c
		}
		return cmp.Compare(lowerFirst(l.AuthorName), lowerFirst(r.AuthorName))
	})
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
