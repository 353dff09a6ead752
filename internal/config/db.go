package config

// Supported database engines.
const (
	// EngineMySQL selects the MySQL gorm driver.
	EngineMySQL = "mysql"
	// EnginePostgres selects the PostgreSQL gorm driver.
	EnginePostgres = "postgres"
	// EngineSQLite selects the pure-Go SQLite gorm driver.
	// An empty Path means an in-memory database (used by mock mode and tests).
	EngineSQLite = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Engine   string // mysql, postgres or sqlite
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Path     string // sqlite database file path
}
