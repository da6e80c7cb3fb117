// Package kernel provides the primitives shared by the author and book models.
//
// The package currently holds UUID, the identifier type used for authors and
// books. Its zero value is invalid, so a missing identifier is detected by
// Validate instead of silently reaching the store.
package kernel
