// certcheck diagnostica un certificado A1 (.pfx) sin levantar la API:
// verifica que el archivo exista, que la contraseña abra el contenedor y
// muestra los datos públicos del certificado. Nunca imprime la llave privada.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
	infranfe "github.com/jhoicas/nfe-emissor/internal/infrastructure/nfe"
	"github.com/jhoicas/nfe-emissor/pkg/logger"
)

type options struct {
	path     string
	password string
	verbose  bool
}

func newRootCmd(now func() time.Time) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "certcheck",
		Short:         "Diagnóstico de certificado A1 (.pfx) para NF-e",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `certcheck abre el .pfx con la contraseña indicada y muestra sujeto,
emisor, serie y vigencia del certificado.

Orden de la ruta: --path, NFE_CERT_PATH, ./certs/certificado.pfx.
La contraseña se toma de --password o de NFE_CERT_PASSWORD.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, now)
		},
	}

	cmd.Flags().StringVarP(&opts.path, "path", "p", "", "ruta del archivo .pfx")
	cmd.Flags().StringVar(&opts.password, "password", "", "contraseña del .pfx (o "+infranfe.CertPasswordEnv+")")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log de depuración")
	return cmd
}

func run(out, logOut io.Writer, opts options, now func() time.Time) error {
	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Env: "development", Level: level, Out: logOut})

	loader := infranfe.NewCertificateLoader(log.Component("certificate"))
	company := &entity.Company{CertificatePath: opts.path, CertificatePassword: opts.password}

	path := loader.ResolvePath(company)
	fmt.Fprintf(out, "archivo:    %s\n", path)

	pem, err := loader.Load(company)
	if err != nil {
		return err
	}
	info, err := pem.Describe()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "sujeto:     %s\n", info.Subject)
	fmt.Fprintf(out, "emisor:     %s\n", info.Issuer)
	fmt.Fprintf(out, "serie:      %s\n", info.Serial)
	fmt.Fprintf(out, "válido de:  %s\n", info.NotBefore.Format(time.RFC3339))
	fmt.Fprintf(out, "válido a:   %s\n", info.NotAfter.Format(time.RFC3339))

	t := now()
	switch {
	case t.Before(info.NotBefore):
		fmt.Fprintln(out, "estado:     AÚN NO VIGENTE")
	case t.After(info.NotAfter):
		fmt.Fprintln(out, "estado:     VENCIDO")
	default:
		days := int(info.NotAfter.Sub(t).Hours() / 24)
		fmt.Fprintf(out, "estado:     VIGENTE (%d días restantes)\n", days)
	}
	return nil
}

func main() {
	if err := newRootCmd(time.Now).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
