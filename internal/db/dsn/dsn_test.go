package dsn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/giftring/giftring/internal/config"
	"github.com/giftring/giftring/internal/db/dsn"
)

func TestCreate(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{
			name: "mysql",
			cfg: config.Config{
				DB: config.DB{
					Engine:   config.EngineMySQL,
					User:     "giftring",
					Password: "secret",
					Host:     "127.0.0.1",
					Port:     3306,
					Name:     "giftring",
					Extras:   "charset=utf8mb4&parseTime=True",
				},
			},
			want: "giftring:secret@tcp(127.0.0.1:3306)/giftring?charset=utf8mb4&parseTime=True",
		},
		{
			name: "postgres",
			cfg: config.Config{
				DB: config.DB{
					Engine:   config.EnginePostgres,
					User:     "giftring",
					Password: "secret",
					Host:     "127.0.0.1",
					Port:     5432,
					Name:     "giftring",
					Extras:   "sslmode=disable",
				},
			},
			want: "host=127.0.0.1 user=giftring password=secret dbname=giftring port=5432 sslmode=disable",
		},
		{
			name: "sqlite with path",
			cfg: config.Config{
				DB: config.DB{
					Engine: config.EngineSQLite,
					Path:   "/var/lib/giftring/giftring.db",
				},
			},
			want: "/var/lib/giftring/giftring.db",
		},
		{
			name: "sqlite without path is in memory",
			cfg: config.Config{
				DB: config.DB{
					Engine: config.EngineSQLite,
				},
			},
			want: ":memory:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dsn.Create(&tt.cfg))
		})
	}
}

func TestDialector(t *testing.T) {
	tests := []struct {
		name   string
		engine string
		want   string
	}{
		{name: "mysql", engine: config.EngineMySQL, want: "mysql"},
		{name: "postgres", engine: config.EnginePostgres, want: "postgres"},
		{name: "sqlite", engine: config.EngineSQLite, want: "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := dsn.Dialector(&config.Config{DB: config.DB{Engine: tt.engine}})
			assert.Equal(t, tt.want, d.Name())
		})
	}
}
