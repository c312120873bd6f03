package postgres

import (
	"context"
	"fmt"

	"github.com/macapp/admin-console/internal/core/domain"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// queryPage runs a paged query whose args are filterArgs followed by LIMIT and
// OFFSET, and whose last column is COUNT(*) OVER(). When the page comes back
// empty the total is read from countQuery, which takes filterArgs only.
func queryPage[T any](
	ctx context.Context,
	db DBTX,
	query, countQuery string,
	filterArgs []any,
	q domain.PageQuery,
	scan func(row rowScanner, total *int64) (T, error),
) ([]T, int64, error) {
	args := make([]any, 0, len(filterArgs)+2)
	args = append(args, filterArgs...)
	args = append(args, q.PageSize, q.Offset())

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var (
		items []T
		total int64
	)
	for rows.Next() {
		item, err := scan(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	if len(items) > 0 {
		return items, total, nil
	}

	if err := db.QueryRowContext(ctx, countQuery, filterArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return items, total, nil
}

// filterArgs are the $1 (pattern) and $2 (status) parameters shared by every
// list query.
func filterArgs(q domain.PageQuery) []any {
	return []any{q.Pattern(), q.StatusFilter()}
}
