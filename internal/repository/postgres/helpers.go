package postgres

import (
	"database/sql"
	"database/sql/driver"

	"github.com/lib/pq"
)

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullableInt64(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: n != 0}
}

func pqStringArray(values []string) driver.Valuer {
	return pq.Array(values)
}
