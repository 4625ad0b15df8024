package staff

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("staff account not found")
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrInvalidCredentials is deliberately vague: the login response
	// never reveals whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid staff username or password")
)

// Account is a clinic staff login. Only the bcrypt hash of the password
// is ever stored.
type Account struct {
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
