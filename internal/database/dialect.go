package database

import (
	"strconv"
	"strings"
)

const (
	PostgreSQL = "postgres"
	SQLite     = "sqlite"
)

// Dialect captures the differences between the supported SQL backends.
type Dialect struct {
	Name   string
	driver string
}

func Postgres() Dialect { return Dialect{Name: PostgreSQL, driver: "postgres"} }

func SQLiteDialect() Dialect { return Dialect{Name: SQLite, driver: "sqlite"} }

// Rebind rewrites ? placeholders as $1..$n for PostgreSQL. Queries must not
// contain literal question marks.
func (d Dialect) Rebind(query string) string {
	if d.Name != PostgreSQL {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
