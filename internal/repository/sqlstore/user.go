package sqlstore

import (
	"database/sql"
	"errors"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db      *sql.DB
	dialect Dialect
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB, d Dialect) *UserRepo {
	return &UserRepo{db: db, dialect: d}
}

// IsAuthorized checks if user is authorized
func (r *UserRepo) IsAuthorized(userID int64) (bool, error) {
	var authorized bool
	query := r.dialect.Rebind(`SELECT authorized FROM users WHERE user_id = ?`)
	err := r.db.QueryRow(query, userID).Scan(&authorized)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return authorized, nil
}

// AuthorizeUser marks user as authorized
func (r *UserRepo) AuthorizeUser(userID int64) error {
	query := r.dialect.Rebind(`
		INSERT INTO users (user_id, authorized)
		VALUES (?, TRUE)
		ON CONFLICT (user_id)
		DO UPDATE SET authorized = TRUE
	`)
	_, err := r.db.Exec(query, userID)
	return err
}

// EnsureUserExists creates user if not exists
func (r *UserRepo) EnsureUserExists(userID int64) error {
	query := r.dialect.Rebind(`
		INSERT INTO users (user_id, authorized)
		VALUES (?, FALSE)
		ON CONFLICT (user_id) DO NOTHING
	`)
	_, err := r.db.Exec(query, userID)
	return err
}
