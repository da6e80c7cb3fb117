// Package author provides the Author entity of the catalog.
//
// Key business rules:
//   - An author has a valid identifier and a non-empty display name
//   - Names are at most MaxNameLength characters; uniqueness is enforced by the store
//   - Renaming is the only mutation; deleting an author cascades to its books
package author
