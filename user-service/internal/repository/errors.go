package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/models"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const pgUniqueViolation = "23505"

// uniqueViolation reports whether err is a unique-constraint failure and, if
// so, which column tripped it ("email", "username" or "" when unknown).
func uniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		switch pqErr.Constraint {
		case "users_email_key":
			return "email", true
		case "credentials_username_key":
			return "username", true
		}
		return "", true
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT &&
		strings.Contains(liteErr.Error(), "UNIQUE") {
		msg := liteErr.Error()
		switch {
		case strings.Contains(msg, "users.email"):
			return "email", true
		case strings.Contains(msg, "credentials.username"):
			return "username", true
		}
		return "", true
	}
	return "", false
}

// translate maps driver errors onto the model error kinds.
func translate(op string, user *models.User, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	if field, ok := uniqueViolation(err); ok {
		value := ""
		switch {
		case field == "":
			field = "key"
		case user == nil:
		case field == "email":
			value = user.Email
		case field == "username" && user.Credential != nil:
			value = user.Credential.Username
		}
		return models.NewConflict("user", field, value)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
