package helper_test

import (
	"testing"

	"innkeep/config"
	"innkeep/helper"

	"github.com/stretchr/testify/assert"
)

func TestConnectionURL(t *testing.T) {
	base := func() *config.Config {
		cfg := &config.Config{}
		cfg.DB.Postgres.Write.Host = "db"
		cfg.DB.Postgres.Write.Port = "5432"
		cfg.DB.Postgres.Write.Username = "innkeep"
		cfg.DB.Postgres.Write.Password = "secret"
		cfg.DB.Postgres.Write.Name = "innkeep"
		cfg.DB.Postgres.Write.SSLMode = "disable"

		return cfg
	}

	tests := []struct {
		name   string
		mutate func(cfg *config.Config)
		want   string
	}{
		{
			name:   "plain",
			mutate: func(*config.Config) {},
			want:   "postgres://innkeep:secret@db:5432/innkeep?sslmode=disable",
		},
		{
			name: "prefixed database with custom table",
			mutate: func(cfg *config.Config) {
				cfg.DB.Postgres.Prefix = "test_"
				cfg.DB.Postgres.MigrationTable = "schema_migrations"
			},
			want: "postgres://innkeep:secret@db:5432/test_innkeep?sslmode=disable&x-migrations-table=schema_migrations",
		},
		{
			name: "password with metacharacters",
			mutate: func(cfg *config.Config) {
				cfg.DB.Postgres.Write.Password = "p@ss/word"
			},
			want: "postgres://innkeep:p%40ss%2Fword@db:5432/innkeep?sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)

			assert.Equal(t, tt.want, helper.ConnectionURL(cfg))
		})
	}
}
