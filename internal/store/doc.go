// Package store defines the persistence contracts for the application's
// entities along with the sentinel errors store implementations return.
//
// All owner-scoped operations are specified as single atomic statements:
// cross-request invariants (username uniqueness, task ownership) are
// enforced by the database, never by in-process locking.
package store
