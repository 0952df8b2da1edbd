package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/bootstrap"
	"github.com/jhoicas/stock-ledger/internal/domain/access"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

type createUserCmd struct {
	username string
	password string
	role     string
	seller   bool
}

func (*createUserCmd) Name() string     { return "create-user" }
func (*createUserCmd) Synopsis() string { return "crea un usuario (por defecto ADMIN)" }
func (*createUserCmd) Usage() string {
	return `create-user -username <nombre> -password <clave> [-role ADMIN|USER] [-seller]

  Crea un usuario directamente en el almacén, sin pasar por la API.
  Pensado para el primer administrador de una base vacía.
`
}

func (c *createUserCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "username", "", "nombre de usuario (requerido)")
	f.StringVar(&c.password, "password", "", "contraseña en claro (requerida)")
	f.StringVar(&c.role, "role", entity.RoleAdmin, "rol: ADMIN o USER")
	f.BoolVar(&c.seller, "seller", false, "habilita ventas para un USER")
}

func (c *createUserCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.username == "" || c.password == "" {
		fmt.Fprintln(os.Stderr, "Error: -username y -password son requeridos.")
		return subcommands.ExitUsageError
	}
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

	u, err := container.UserUC.Create(ctx, access.System, dto.CreateUserRequest{
		Username: c.username,
		Password: c.password,
		Role:     c.role,
		Seller:   c.seller,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creando usuario: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("usuario %s creado (id %s, rol %s)\n", u.Username, u.ID, u.Role)
	return subcommands.ExitSuccess
}
