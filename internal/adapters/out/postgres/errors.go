package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE values, see https://www.postgresql.org/docs/current/errcodes-appendix.html.
const (
	integrityConstraintViolationClass = "23"
	stringDataRightTruncation         = "22001"
)

// ErrTransactionIsNotActive is returned by store operations issued after
// Commit or Reset.
var ErrTransactionIsNotActive = errors.New("unit of work has no active transaction")

// isConstraintViolation reports whether err was caused by the data rather than
// by the store: unique, not-null and foreign key violations, or a value too
// long for its column.
func isConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, integrityConstraintViolationClass) ||
			pgErr.Code == stringDataRightTruncation
	}
	return false
}
