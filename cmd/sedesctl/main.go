// sedesctl tareas administrativas sobre el mismo backend del API: crear el
// primer administrador e importar o exportar el catálogo de productos.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-sedes/internal/bootstrap"
	"github.com/jhoicas/inventario-sedes/pkg/config"
	"github.com/jhoicas/inventario-sedes/pkg/jwt"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

// env estado compartido por los subcomandos, inicializado en PersistentPreRunE.
type env struct {
	log     *logger.Logger
	storage *bootstrap.Storage
	svc     *bootstrap.Services
}

func main() {
	e := &env{}
	root := &cobra.Command{
		Use:           "sedesctl",
		Short:         "Administración de inventario-sedes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.open(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.storage != nil {
				e.storage.Close()
			}
		},
	}
	root.AddCommand(usersCmd(e), productsCmd(e))

	if err := root.ExecuteContext(context.Background()); err != nil {
		if e.log == nil {
			e.log = logger.New(logger.Config{Env: "development"})
		}
		e.log.Error().Err(err).Msg("sedesctl")
		os.Exit(1)
	}
}

func (e *env) open(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	e.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
	st, err := bootstrap.OpenStorage(ctx, cfg, e.log)
	if err != nil {
		return err
	}
	e.storage = st
	issuer := jwt.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	e.svc = bootstrap.NewServices(st, issuer, nil, nil)
	return nil
}
