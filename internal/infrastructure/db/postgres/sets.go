package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// setList accumulates "column = $n" fragments for partial updates.
type setList struct {
	cols []string
	args []any
}

func (s *setList) add(col string, v any) {
	s.args = append(s.args, v)
	s.cols = append(s.cols, fmt.Sprintf("%s = $%d", col, len(s.args)))
}

func (s *setList) empty() bool { return len(s.cols) == 0 }

// update renders an UPDATE statement; the key is bound as the last argument.
func (s *setList) update(table, keyExpr string, key any, extra ...string) (string, []any) {
	cols := append(append([]string{}, s.cols...), extra...)
	args := append(append([]any{}, s.args...), key)
	q := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d", table, strings.Join(cols, ", "), keyExpr, len(args))
	return q, args
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
