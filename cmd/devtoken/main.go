// devtoken emite un Bearer token para llamar a /api/nfe en entornos de prueba.
// Usa JWT_SECRET, JWT_ISSUER y JWT_EXPIRATION_MINUTES de la misma configuración que la API.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/nfe-emissor/pkg/config"
	"github.com/jhoicas/nfe-emissor/pkg/jwt"
)

func newRootCmd(load func() (*config.Config, error)) *cobra.Command {
	var userID, companyID string
	var minutes int

	cmd := &cobra.Command{
		Use:           "devtoken",
		Short:         "Emite un token JWT para la API NF-e",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return errors.New("JWT_SECRET vacío")
			}
			if cfg.App.Env == "production" {
				return errors.New("devtoken no se usa con APP_ENV=production")
			}
			exp := cfg.JWT.Expiration
			if minutes > 0 {
				exp = minutes
			}
			token, err := jwt.Generate(cfg.JWT.Secret, cfg.JWT.Issuer, userID, companyID, exp)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user_id del token")
	cmd.Flags().StringVar(&companyID, "company", "", "company_id del token")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "expiración en minutos (por defecto JWT_EXPIRATION_MINUTES)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func main() {
	if err := newRootCmd(config.Load).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
