package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/macapp/admin-console/internal/api/metrics"
	"github.com/macapp/admin-console/internal/core/domain"
	"github.com/macapp/admin-console/internal/core/ports"
)

const repoResources = "resources"

// resourceView merges the resources table with the legacy resource table and
// collects the candidates matching $1 (pattern) and $2 (status).
//
// Legacy rows take their link from resource_link (latest update_time wins,
// '#' when absent) and are hidden when resources holds the same text id.
// The text filter also matches category names reached through category_id or
// through resource_category, whose category_id may be an id or a name. A
// legacy category is shadowed by a categories row with the same numeric id;
// non-numeric legacy ids stay reachable by name.
const resourceView = `
WITH rl AS (
	SELECT DISTINCT ON (trim(resource_id::text)) trim(resource_id::text) AS rid_text, link
	FROM resource_link
	ORDER BY trim(resource_id::text), update_time DESC NULLS LAST
),
rc AS (
	SELECT trim(resource_id::text) AS rid_text, trim(category_id::text) AS cid_text
	FROM resource_category
),
cats AS (
	SELECT id::text AS id_text, name FROM categories
	UNION ALL
	SELECT trim(l.id::text) AS id_text, l.name FROM category l
	WHERE NOT (
		trim(l.id::text) ~ '^[0-9]+$'
		AND EXISTS (
			SELECT 1 FROM categories c3 WHERE c3.id::numeric = trim(l.id::text)::numeric
		)
	)
),
u AS (
	SELECT r.id::text AS id, r.title, r.url, r.synopsis, r.status, r.icon,
		r.category_id::text AS cid_text
	FROM resources r
	UNION ALL
	SELECT trim(re.id::text) AS id, re.name AS title, COALESCE(rl.link, '#') AS url,
		NULL::text AS synopsis, COALESCE(re.status, 'NORMAL') AS status, re.icon,
		NULL::text AS cid_text
	FROM resource re
	LEFT JOIN rl ON rl.rid_text = trim(re.id::text)
	WHERE NOT EXISTS (
		SELECT 1 FROM resources r2 WHERE r2.id::text = trim(re.id::text)
	)
),
candidates AS (
	SELECT u.id, u.title, u.status, u.icon
	FROM u
	WHERE ($2::text IS NULL OR u.status = $2)
	  AND (
		$1::text IS NULL
		OR u.title ILIKE $1
		OR u.url ILIKE $1
		OR u.synopsis ILIKE $1
		OR EXISTS (
			SELECT 1 FROM cats c
			WHERE c.id_text = u.cid_text AND c.name ILIKE $1
		)
		OR EXISTS (
			SELECT 1 FROM rc
			JOIN cats c2 ON c2.id_text = rc.cid_text OR lower(c2.name) = lower(rc.cid_text)
			WHERE rc.rid_text = u.id AND c2.name ILIKE $1
		)
	  )
)`

const resourceOrder = `CASE WHEN id ~ '^[0-9]+$' THEN id::numeric END DESC NULLS LAST, id DESC`

const (
	findResourcesSQL = resourceView + `,
paged AS (
	SELECT id, title, status, icon, COUNT(*) OVER() AS total
	FROM candidates
	ORDER BY ` + resourceOrder + `
	LIMIT $3 OFFSET $4
),
cat_names AS (
	SELECT n.rid, array_remove(array_agg(DISTINCT n.name), NULL) AS names
	FROM (
		SELECT p.id AS rid, c.name
		FROM paged p
		JOIN u ON u.id = p.id
		JOIN cats c ON c.id_text = u.cid_text
		UNION ALL
		SELECT p.id AS rid, c2.name
		FROM paged p
		JOIN rc ON rc.rid_text = p.id
		JOIN cats c2 ON c2.id_text = rc.cid_text OR lower(c2.name) = lower(rc.cid_text)
	) n
	GROUP BY n.rid
)
SELECT p.id, p.title, p.status, p.icon,
	COALESCE(array_to_json(cn.names)::text, '[]') AS category_names,
	p.total
FROM paged p
LEFT JOIN cat_names cn ON cn.rid = p.id
ORDER BY ` + resourceOrder

	countResourcesSQL = resourceView + `
SELECT COUNT(*) FROM candidates`

	findResourceSQL = `
SELECT id::text, title, url, category_id, synopsis, icon, status
FROM resources
WHERE id = $1`

	insertResourceSQL = `
INSERT INTO resources (title, url, category_id, synopsis, icon, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

	deleteResourceSQL      = `DELETE FROM resources WHERE id = $1`
	deleteResourceLinksSQL = `DELETE FROM resource_category WHERE trim(resource_id::text) = $1`
	insertResourceLinkSQL  = `INSERT INTO resource_category (resource_id, category_id, create_time) VALUES ($1, $2, now())`
)

type ResourceRepository struct {
	conn Connector
}

func NewResourceRepository(conn Connector) *ResourceRepository {
	return &ResourceRepository{conn: conn}
}

var _ ports.ResourceRepository = (*ResourceRepository)(nil)

// FindByID reads a single row of the resources table.
func (r *ResourceRepository) FindByID(ctx context.Context, id int64) (*domain.Resource, error) {
	defer metrics.ObserveQuery(repoResources, "find_by_id")()

	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var (
		res        domain.Resource
		categoryID sql.NullInt64
	)
	err = db.QueryRowContext(ctx, findResourceSQL, id).Scan(
		&res.ID, &res.Title, &res.URL, &categoryID, &res.Synopsis, &res.Icon, &res.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if categoryID.Valid {
		res.CategoryID = &categoryID.Int64
	}
	return &res, nil
}

// FindPaged lists the unified resource view with the category names of each
// row on the page.
func (r *ResourceRepository) FindPaged(ctx context.Context, q domain.PageQuery) ([]domain.ResourceSummary, int64, error) {
	defer metrics.ObserveQuery(repoResources, "find_paged")()

	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, 0, err
	}
	return queryPage(ctx, db, findResourcesSQL, countResourcesSQL, filterArgs(q), q,
		func(row rowScanner, total *int64) (domain.ResourceSummary, error) {
			var (
				s     domain.ResourceSummary
				title sql.NullString
				names string
			)
			if err := row.Scan(&s.ID, &title, &s.Status, &s.Icon, &names, total); err != nil {
				return s, err
			}
			s.Title = title.String
			if err := json.Unmarshal([]byte(names), &s.CategoryNames); err != nil {
				return s, fmt.Errorf("decode category names: %w", err)
			}
			if s.CategoryNames == nil {
				s.CategoryNames = []string{}
			}
			return s, nil
		})
}

// Insert creates a resource and returns its id as a decimal string.
func (r *ResourceRepository) Insert(ctx context.Context, in ports.ResourceCreateInput) (string, error) {
	defer metrics.ObserveQuery(repoResources, "insert")()

	db, err := r.conn.DB(ctx)
	if err != nil {
		return "", err
	}
	var id int64
	err = db.QueryRowContext(ctx, insertResourceSQL,
		in.Title, in.URL, in.CategoryID, in.Synopsis, in.Icon, string(in.Status),
	).Scan(&id)
	if err != nil {
		return "", mapResourceWriteErr(err)
	}
	return strconv.FormatInt(id, 10), nil
}

// Update applies the set fields of in. When the category changes the
// resource_category links of the resource are replaced in the same
// transaction.
func (r *ResourceRepository) Update(ctx context.Context, in ports.ResourceUpdateInput) error {
	defer metrics.ObserveQuery(repoResources, "update")()

	var set setList
	if in.Title != nil {
		set.add("title", *in.Title)
	}
	if in.URL != nil {
		set.add("url", *in.URL)
	}
	if in.Synopsis != nil {
		set.add("synopsis", *in.Synopsis)
	}
	if in.Icon.Set {
		set.add("icon", in.Icon.Value)
	}
	if in.Status != nil {
		set.add("status", string(*in.Status))
	}
	if in.CategoryID.Set {
		set.add("category_id", in.CategoryID.Value)
	}
	if set.empty() {
		return nil
	}

	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	key := strconv.FormatInt(in.ID, 10)
	return WithTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		query, args := set.update("resources", "id", in.ID, "updated_at = now()")
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return mapResourceWriteErr(err)
		}
		if err := expectRow(res, domain.ErrResourceNotFound); err != nil {
			return err
		}
		if !in.CategoryID.Set {
			return nil
		}
		if _, err := tx.ExecContext(ctx, deleteResourceLinksSQL, key); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if in.CategoryID.Value == nil {
			return nil
		}
		cid := strconv.FormatInt(*in.CategoryID.Value, 10)
		if _, err := tx.ExecContext(ctx, insertResourceLinkSQL, key, cid); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

// Delete removes a resource and its resource_category links.
func (r *ResourceRepository) Delete(ctx context.Context, id int64) error {
	defer metrics.ObserveQuery(repoResources, "delete")()

	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	return WithTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		res, err := tx.ExecContext(ctx, deleteResourceSQL, id)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if err := expectRow(res, domain.ErrResourceNotFound); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, deleteResourceLinksSQL, strconv.FormatInt(id, 10)); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

func mapResourceWriteErr(err error) error {
	if pgCode(err) == pgForeignKeyViolation {
		return domain.NewValidationError("category does not exist")
	}
	return fmt.Errorf("db error: %w", err)
}
