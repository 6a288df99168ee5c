package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUserNotFound indicates that the user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrWrongPassword indicates the wrong password for the given user.
	ErrWrongPassword = errors.New("wrong password")
)

// User roles.
const (
	RoleBanker   = "B"
	RoleCustomer = "C"
)

// User holds identity data consumed by the login use case. Records are
// created by the external user-directory flow; the ledger only reads them.
type User struct {
	ID             int32  `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	HashedPassword string `json:"hashed_password,omitempty"`
	Role           string `json:"role"`
}

// AccountLockedError reports a login attempt against a user id that is
// still under a failed-attempt lockout.
type AccountLockedError struct {
	Remaining time.Duration
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked, try again in %ds", int(e.Remaining.Seconds()))
}
