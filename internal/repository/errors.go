package repository

import "fmt"

// InvalidIDError reports an identifier that is not a 24 character hex ObjectID.
// The store is never contacted when it is returned.
type InvalidIDError struct {
	ID string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid quiz id %q", e.ID)
}

// NotFoundError reports that no quiz carries the requested identifier.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("quiz %s not found", e.ID)
}

// InvalidQueryError reports a search term that does not percent-decode to valid
// UTF-8.
type InvalidQueryError struct {
	Query string
	Err   error
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid search query %q: %v", e.Query, e.Err)
}

func (e *InvalidQueryError) Unwrap() error {
	return e.Err
}

// QueryError wraps any failure reported by the store.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
