package database

import "gorm.io/gorm"

// Dialect names as reported by the GORM drivers
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// DialectName returns the dialect of the given connection
func DialectName(conn *gorm.DB) string {
	if conn == nil || conn.Dialector == nil {
		return ""
	}
	return conn.Dialector.Name()
}

// supportsRowLocking reports whether the dialect honours SELECT ... FOR
// UPDATE. SQLite serializes writers itself, so the quota check stays safe
// without the clause in development.
func supportsRowLocking(conn *gorm.DB) bool {
	return DialectName(conn) == DialectPostgres
}
