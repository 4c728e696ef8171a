package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	dom "example.com/catalog-admin/internal/domain/user"
)

const errDuplicateEntry = 1062

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *dom.User) (*dom.User, error) {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, is_admin, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash, u.IsAdmin, now,
	)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == errDuplicateEntry {
			return nil, dom.ErrEmailAlreadyUsed
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	u.CreatedAt = now
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*dom.User, error) {
	return r.getOne(ctx, `
        SELECT id, name, email, password_hash, is_admin, created_at
        FROM users WHERE id = ?
    `, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*dom.User, error) {
	return r.getOne(ctx, `
        SELECT id, name, email, password_hash, is_admin, created_at
        FROM users WHERE email = ?
    `, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*dom.User, error) {
	var u dom.User
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dom.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
