package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/macapp/admin-console/internal/api/metrics"
	"github.com/macapp/admin-console/internal/core/domain"
	"github.com/macapp/admin-console/internal/core/ports"
)

const repoUsers = "users"

const (
	userColumns = `id, user_name, password, avatar, email, role, status, create_time`

	findActiveUserSQL = `SELECT ` + userColumns + ` FROM "user" WHERE user_name = $1 AND status = 'NORMAL' LIMIT 1`
	findUserSQL       = `SELECT ` + userColumns + ` FROM "user" WHERE id = $1`

	userFilter = `
WHERE ($1::text IS NULL OR user_name ILIKE $1 OR email ILIKE $1)
  AND ($2::text IS NULL OR status = $2)`

	findUsersSQL = `
SELECT id, user_name, avatar, email, role, status, create_time, COUNT(*) OVER() AS total
FROM "user"` + userFilter + `
ORDER BY create_time DESC, id DESC
LIMIT $3 OFFSET $4`

	countUsersSQL = `SELECT COUNT(*) FROM "user"` + userFilter

	insertUserSQL = `
INSERT INTO "user" (id, user_name, password, email, role, avatar, status, create_time)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
RETURNING create_time`

	softDeleteUserSQL = `UPDATE "user" SET status = 'VOID' WHERE id = $1`
)

type UserRepository struct {
	conn Connector
}

func NewUserRepository(conn Connector) *UserRepository {
	return &UserRepository{conn: conn}
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) FindActiveByUserName(ctx context.Context, userName string) (*domain.User, error) {
	defer metrics.ObserveQuery(repoUsers, "find_active_by_user_name")()
	return r.findOne(ctx, findActiveUserSQL, userName)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	defer metrics.ObserveQuery(repoUsers, "find_by_id")()
	return r.findOne(ctx, findUserSQL, id)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var u domain.User
	err = db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.UserName, &u.PasswordHash, &u.Avatar, &u.Email, &u.Role, &u.Status, &u.CreateTime,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &u, nil
}

// FindPaged lists users newest first. The password column is never selected.
func (r *UserRepository) FindPaged(ctx context.Context, q domain.PageQuery) ([]domain.SafeUser, int64, error) {
	defer metrics.ObserveQuery(repoUsers, "find_paged")()

	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, 0, err
	}
	return queryPage(ctx, db, findUsersSQL, countUsersSQL, filterArgs(q), q,
		func(row rowScanner, total *int64) (domain.SafeUser, error) {
			var u domain.SafeUser
			err := row.Scan(&u.ID, &u.UserName, &u.Avatar, &u.Email, &u.Role, &u.Status, &u.CreateTime, total)
			return u, err
		})
}

// Insert stores u and fills in its CreateTime.
func (r *UserRepository) Insert(ctx context.Context, u *domain.User) error {
	defer metrics.ObserveQuery(repoUsers, "insert")()

	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	err = db.QueryRowContext(ctx, insertUserSQL,
		u.ID, u.UserName, u.PasswordHash, u.Email, u.Role, u.Avatar, string(u.Status),
	).Scan(&u.CreateTime)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return domain.ErrUserExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, ch ports.UserChanges) error {
	defer metrics.ObserveQuery(repoUsers, "update")()

	var set setList
	if ch.UserName != nil {
		set.add("user_name", *ch.UserName)
	}
	if ch.PasswordHash != nil {
		set.add("password", *ch.PasswordHash)
	}
	if ch.Email != nil {
		set.add("email", *ch.Email)
	}
	if ch.Role != nil {
		set.add("role", *ch.Role)
	}
	if ch.Avatar != nil {
		set.add("avatar", *ch.Avatar)
	}
	if ch.Status != nil {
		set.add("status", string(*ch.Status))
	}
	if set.empty() {
		return nil
	}

	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	query, args := set.update(`"user"`, "id", ch.ID)
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectRow(res, domain.ErrUserNotFound)
}

// SoftDelete marks the account VOID. Rows are never removed.
func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	defer metrics.ObserveQuery(repoUsers, "soft_delete")()

	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, softDeleteUserSQL, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectRow(res, domain.ErrUserNotFound)
}
