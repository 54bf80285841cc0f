package domain

import "github.com/google/uuid"

// User is the authenticated storefront user. Identity may load
// asynchronously after initial render, so callers must tolerate a nil user.
type User struct {
	ID       uuid.UUID
	Email    string
	Currency Currency // assigned tenant currency, may be empty
}
