package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

type migrateCmd struct {
	down bool
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "aplica las migraciones de PostgreSQL" }
func (*migrateCmd) Usage() string {
	return `migrate [-down]

  Aplica todas las migraciones pendientes sobre DATABASE_URL (o DB_HOST, DB_PORT...).
  Con -down revierte solo la última migración aplicada.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.down, "down", false, "revertir la última migración")
}

func (c *migrateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := env()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error cargando configuración: %v\n", err)
		return subcommands.ExitFailure
	}
	if cfg.Store.Driver == config.StoreDriverMemory {
		fmt.Fprintln(os.Stderr, "Error: STORE_DRIVER=memory no tiene esquema que migrar.")
		return subcommands.ExitUsageError
	}

	dsn := cfg.DB.ConnectionString()
	if c.down {
		err = postgres.MigrateDown(dsn)
	} else {
		err = postgres.Migrate(dsn, log)
	}
	if err != nil {
		log.Error().Err(err).Msg("migración fallida")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
