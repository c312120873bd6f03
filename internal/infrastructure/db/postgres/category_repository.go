package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/macapp/admin-console/internal/api/metrics"
	"github.com/macapp/admin-console/internal/core/domain"
	"github.com/macapp/admin-console/internal/core/ports"
)

const repoCategories = "categories"

// categoryView merges the categories table with the numeric-id rows of the
// legacy category table. A legacy row is hidden when the new table holds the
// same numeric id.
const categoryView = `
WITH merged AS (
	SELECT c.id::text AS id, c.name, c.description, c.status
	FROM categories c
	UNION ALL
	SELECT trim(l.id::text) AS id, l.name, l.description, COALESCE(l.status, 'NORMAL') AS status
	FROM category l
	WHERE trim(l.id::text) ~ '^[0-9]+$'
	  AND NOT EXISTS (
		SELECT 1 FROM categories c2 WHERE c2.id::numeric = trim(l.id::text)::numeric
	  )
),
filtered AS (
	SELECT id, name, description, status
	FROM merged
	WHERE ($1::text IS NULL OR name ILIKE $1 OR description ILIKE $1)
	  AND ($2::text IS NULL OR status = $2)
)`

const (
	findCategoriesSQL = categoryView + `
SELECT id, name, description, status, COUNT(*) OVER() AS total
FROM filtered
ORDER BY id::numeric DESC, id DESC
LIMIT $3 OFFSET $4`

	countCategoriesSQL = categoryView + `
SELECT COUNT(*) FROM filtered`

	insertCategorySQL = `INSERT INTO categories (name, description, status) VALUES ($1, $2, $3) RETURNING id`

	deleteCategorySQL = `DELETE FROM categories WHERE id = $1`
)

type CategoryRepository struct {
	conn Connector
}

func NewCategoryRepository(conn Connector) *CategoryRepository {
	return &CategoryRepository{conn: conn}
}

var _ ports.CategoryRepository = (*CategoryRepository)(nil)

// FindPaged lists the unified category view, newest id first.
func (r *CategoryRepository) FindPaged(ctx context.Context, q domain.PageQuery) ([]domain.Category, int64, error) {
	defer metrics.ObserveQuery(repoCategories, "find_paged")()

	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, 0, err
	}
	return queryPage(ctx, db, findCategoriesSQL, countCategoriesSQL, filterArgs(q), q,
		func(row rowScanner, total *int64) (domain.Category, error) {
			var (
				c    domain.Category
				name sql.NullString
			)
			if err := row.Scan(&c.ID, &name, &c.Description, &c.Status, total); err != nil {
				return c, err
			}
			c.Name = name.String
			return c, nil
		})
}

// Insert creates a category and returns its id as a decimal string.
func (r *CategoryRepository) Insert(ctx context.Context, in ports.CategoryCreateInput) (string, error) {
	defer metrics.ObserveQuery(repoCategories, "insert")()

	db, err := r.conn.DB(ctx)
	if err != nil {
		return "", err
	}
	var id int64
	err = db.QueryRowContext(ctx, insertCategorySQL, in.Name, in.Description, string(in.Status)).Scan(&id)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return "", domain.ErrCategoryExists
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// Update applies the non-nil fields of in and bumps updated_at.
func (r *CategoryRepository) Update(ctx context.Context, in ports.CategoryUpdateInput) error {
	defer metrics.ObserveQuery(repoCategories, "update")()

	var set setList
	if in.Name != nil {
		set.add("name", *in.Name)
	}
	if in.Description != nil {
		set.add("description", *in.Description)
	}
	if in.Status != nil {
		set.add("status", string(*in.Status))
	}
	if set.empty() {
		return nil
	}

	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	query, args := set.update("categories", "id", in.ID, "updated_at = now()")
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return domain.ErrCategoryExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return expectRow(res, domain.ErrCategoryNotFound)
}

// Delete removes a category from the categories table. Legacy rows are
// never touched.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	defer metrics.ObserveQuery(repoCategories, "delete")()

	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, deleteCategorySQL, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectRow(res, domain.ErrCategoryNotFound)
}

// expectRow returns notFound when the statement touched no row.
func expectRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
