// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"

	"github.com/glebarez/sqlite"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/giftring/giftring/internal/config"
)

// Create builds the Data Source Name from the configuration.
// For sqlite it returns the database file path, or an in-memory DSN when no path is set.
func Create(dbCfg *config.Config) string {
	switch dbCfg.DB.Engine {
	case config.EnginePostgres:
		out := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d %s",
			dbCfg.DB.Host,
			dbCfg.DB.User,
			dbCfg.DB.Password,
			dbCfg.DB.Name,
			dbCfg.DB.Port,
			dbCfg.DB.Extras,
		)

		return out
	case config.EngineSQLite:
		if dbCfg.DB.Path == "" {
			return ":memory:"
		}

		return dbCfg.DB.Path
	default: // mysql
		out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			dbCfg.DB.User,
			dbCfg.DB.Password,
			dbCfg.DB.Host,
			dbCfg.DB.Port,
			dbCfg.DB.Name,
			dbCfg.DB.Extras,
		)

		return out
	}
}

// Dialector selects the gorm driver matching the configured engine.
func Dialector(dbCfg *config.Config) gorm.Dialector {
	switch dbCfg.DB.Engine {
	case config.EnginePostgres:
		return gormpostgres.Open(Create(dbCfg))
	case config.EngineSQLite:
		return sqlite.Open(Create(dbCfg))
	default:
		return gormmysql.Open(Create(dbCfg))
	}
}
