package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/jhoicas/stock-ledger/internal/bootstrap"
)

type seedCmd struct{}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "carga el set de datos de demostración" }
func (*seedCmd) Usage() string {
	return `seed

  Crea los usuarios admin/user y siete artículos con una venta y una compra de ejemplo.
  Solo inserta en un almacén vacío; volver a ejecutarlo no duplica datos.
`
}

func (*seedCmd) SetFlags(*flag.FlagSet) {}

func (*seedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := env()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error cargando configuración: %v\n", err)
		return subcommands.ExitFailure
	}
	container, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("inicializar almacén")
		return subcommands.ExitFailure
	}
	defer container.Close()

	res, err := container.Seeder().Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("seed fallido")
		return subcommands.ExitFailure
	}
	fmt.Printf("usuarios: %d, artículos: %d, ventas: %d, compras: %d\n", res.Users, res.Articles, res.Sales, res.Purchases)
	return subcommands.ExitSuccess
}
