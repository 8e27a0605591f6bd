package types

import (
	sq "github.com/Masterminds/squirrel"
)

type UserRole string

const (
	USER_ROLE_SUPER_ADMIN UserRole = "SUPER_ADMIN"
	USER_ROLE_ADMIN       UserRole = "ADMIN"
	USER_ROLE_NORMAL      UserRole = "USER"
)

func (r UserRole) Valid() bool {
	switch r {
	case USER_ROLE_SUPER_ADMIN, USER_ROLE_ADMIN, USER_ROLE_NORMAL:
		return true
	default:
		return false
	}
}

type User struct {
	ID           string   `json:"id" db:"id"`
	Username     string   `json:"username" db:"username"`
	PasswordHash string   `json:"-" db:"password_hash"`
	Salt         string   `json:"-" db:"salt"`
	Email        string   `json:"email" db:"email"`
	FirstName    string   `json:"first_name" db:"first_name"`
	LastName     string   `json:"last_name" db:"last_name"`
	Role         UserRole `json:"role" db:"role"`
	IsActive     bool     `json:"is_active" db:"is_active"`
	CreatedAt    int64    `json:"created_at" db:"created_at"`
	UpdatedAt    int64    `json:"updated_at" db:"updated_at"`
}

type GetUsersOptions struct {
	IDs      []string
	Username string
	Role     UserRole
}

func (opts GetUsersOptions) Apply(query *sq.SelectBuilder) {
	if len(opts.IDs) > 0 {
		*query = query.Where(sq.Eq{"id": opts.IDs})
	}
	if opts.Username != "" {
		*query = query.Where(sq.Eq{"username": opts.Username})
	}
	if opts.Role != "" {
		*query = query.Where(sq.Eq{"role": opts.Role})
	}
}

type UserFolder struct {
	UserID    string `json:"user_id" db:"user_id"`
	FolderID  string `json:"folder_id" db:"folder_id"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
}

type UserGroup struct {
	UserID    string `json:"user_id" db:"user_id"`
	GroupID   string `json:"group_id" db:"group_id"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
}
