// Package book provides the Book entity and the tag rules of the catalog.
//
// Key business rules:
//   - A book has a valid identifier, a non-empty title and a publication year
//   - A book references its author by ID; the reference does not own the author
//   - Tags are owned by the book, replaced as a whole on edit and removed with it
//   - Tag sets are deduplicated before they reach the store (see ParseTags, NormalizeTags)
package book
