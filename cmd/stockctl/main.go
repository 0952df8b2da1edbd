// stockctl tareas de operación sobre el almacén configurado: migraciones, datos de demostración
// y alta de usuarios. Lee la misma configuración que la API (env, .env, config.env).
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&migrateCmd{}, "")
	commander.Register(&seedCmd{}, "")
	commander.Register(&createUserCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// env configuración y logger comunes a todos los comandos.
func env() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}), nil
}
