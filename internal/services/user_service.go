package services

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/kidchores/kidchores-be/internal/auth"
	"github.com/kidchores/kidchores-be/internal/models"
)

// UserServiceProvider defines the interface for the user directory.
type UserServiceProvider interface {
	GetByUsername(username string) (models.User, error)
	Create(firstName, lastName, username, role, password string) (models.User, error)
	UpdateProfile(username, firstName, lastName string) (models.User, error)
	UpdatePassword(username, newPassword string) error
	RecordIssuedToken(username, token string, issuedAt time.Time) error
	Authenticate(username, password string) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db         *sql.DB
	bcryptCost int
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, bcryptCost int) *UserService {
	return &UserService{db: db, bcryptCost: bcryptCost}
}

// GetByUsername retrieves a single user. The password hash stays inside
// this package; callers receive a sanitized copy.
func (s *UserService) GetByUsername(username string) (models.User, error) {
	user, err := s.getWithHash(username)
	if err != nil {
		return models.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

// getWithHash loads the full row, hash included.
func (s *UserService) getWithHash(username string) (models.User, error) {
	var (
		user        models.User
		token       sql.NullString
		tokenIssued sql.NullInt64
	)
	row := s.db.QueryRow(
		`SELECT id, username, firstname, lastname, usertype, passwordhash, token, tokenissued, createdat
		 FROM users WHERE username = ?`, username)
	err := row.Scan(&user.ID, &user.Username, &user.FirstName, &user.LastName,
		&user.Role, &user.PasswordHash, &token, &tokenIssued, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, models.NewStorageError("query user", err)
	}
	user.Token = token.String
	user.TokenIssuedAt = tokenIssued.Int64
	return user, nil
}

// Create registers a new user, hashing their password. Usernames are
// unique and immutable; a duplicate yields ErrExists.
func (s *UserService) Create(firstName, lastName, username, role, password string) (models.User, error) {
	if role != models.RoleParent && role != models.RoleChild {
		role = models.RoleChild
	}

	if _, err := s.getWithHash(username); err == nil {
		return models.User{}, models.ErrExists
	} else if !errors.Is(err, models.ErrNotFound) {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return models.User{}, models.NewStorageError("hash password", err)
	}

	res, err := s.db.Exec(
		`INSERT INTO users (firstname, lastname, username, usertype, passwordhash) VALUES (?, ?, ?, ?, ?)`,
		firstName, lastName, username, role, hash)
	if err != nil {
		// The UNIQUE constraint is the backstop for a racing create.
		if strings.Contains(err.Error(), "UNIQUE") {
			return models.User{}, models.ErrExists
		}
		return models.User{}, models.NewStorageError("insert user", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, models.NewStorageError("insert user id", err)
	}

	return models.User{
		ID:        id,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
	}, nil
}

// UpdateProfile updates a user's display names. It is an independent write
// with no transaction shared with UpdatePassword.
func (s *UserService) UpdateProfile(username, firstName, lastName string) (models.User, error) {
	res, err := s.db.Exec(`UPDATE users SET firstname = ?, lastname = ? WHERE username = ?`,
		firstName, lastName, username)
	if err != nil {
		return models.User{}, models.NewStorageError("update profile", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.User{}, models.ErrNotFound
	}
	return s.GetByUsername(username)
}

// UpdatePassword hashes and stores a new password.
func (s *UserService) UpdatePassword(username, newPassword string) error {
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return models.NewStorageError("hash password", err)
	}
	res, err := s.db.Exec(`UPDATE users SET passwordhash = ? WHERE username = ?`, hash, username)
	if err != nil {
		return models.NewStorageError("update password", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// RecordIssuedToken stores the last issued token and its issue time in
// epoch milliseconds. Purely observational bookkeeping; validation never
// consults it and old tokens stay valid until natural expiry.
func (s *UserService) RecordIssuedToken(username, token string, issuedAt time.Time) error {
	res, err := s.db.Exec(`UPDATE users SET token = ?, tokenissued = ? WHERE username = ?`,
		token, issuedAt.UnixMilli(), username)
	if err != nil {
		return models.NewStorageError("record token", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Authenticate verifies a user's credentials. Unknown usernames and wrong
// passwords return the same ErrBadCredentials so the response does not
// leak which usernames exist.
func (s *UserService) Authenticate(username, password string) (models.User, error) {
	user, err := s.getWithHash(username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.User{}, models.ErrBadCredentials
		}
		return models.User{}, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return models.User{}, models.ErrBadCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}
