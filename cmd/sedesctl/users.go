package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

func usersCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usuarios",
		Short: "Gestión de usuarios",
	}

	var email, name, password string
	createAdmin := &cobra.Command{
		Use:   "crear-admin",
		Short: "Crea un usuario administrador",
		Long:  "Crea un administrador activo. Úselo para el primer acceso al panel.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := e.svc.Users.Create(cmd.Context(), dto.CreateUserRequest{
				Email:    email,
				Password: password,
				Name:     name,
				Role:     entity.RoleAdmin,
			})
			if err != nil {
				return err
			}
			e.log.Info().Str("id", out.ID).Str("email", out.Email).Msg("administrador creado")
			return nil
		},
	}
	createAdmin.Flags().StringVar(&email, "email", "", "email del administrador")
	createAdmin.Flags().StringVar(&name, "nombre", "Administrador", "nombre visible")
	createAdmin.Flags().StringVar(&password, "password", "", "contraseña (mínimo 8 caracteres)")
	_ = createAdmin.MarkFlagRequired("email")
	_ = createAdmin.MarkFlagRequired("password")

	cmd.AddCommand(createAdmin)
	return cmd
}
