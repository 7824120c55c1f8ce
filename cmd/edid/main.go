package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tu-usuario/edi-pro/internal/application/edisync"
	"github.com/tu-usuario/edi-pro/internal/infrastructure/localdir"
	"github.com/tu-usuario/edi-pro/internal/infrastructure/postgres"
	"github.com/tu-usuario/edi-pro/internal/infrastructure/rsx"
	"github.com/tu-usuario/edi-pro/pkg/config"
	"github.com/tu-usuario/edi-pro/pkg/logger"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "edid",
		Short: "Motor de intercambio EDI con SPS Commerce (formato RSX)",
	}

	var docCode string
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Ejecuta la sincronización EDI",
		Long: `Ejecuta la sincronización EDI contra el servidor de intercambio.

Sin --doc corre las cinco acciones en orden: importación de órdenes (850),
exportación de reconocimientos (855), facturas (810) y despachos (856), e
importación de avisos de bodega (945).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd.Context(), docCode)
		},
	}
	syncCmd.Flags().StringVar(&docCode, "doc", "", "acción única a ejecutar: import_orders | export_acks | export_invoices | export_shipments | import_advices")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Imprime la versión",
		Run: func(*cobra.Command, []string) {
			fmt.Println("edid", version)
		},
	}

	root.AddCommand(syncCmd, versionCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runSync(ctx context.Context, docCode string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando sincronización EDI")

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	service := edisync.New(
		postgres.NewOrderRepository(pool),
		postgres.NewInvoiceRepository(pool),
		postgres.NewShipmentRepository(pool),
		postgres.NewAdviceRepository(pool),
		postgres.NewPartnerRepository(pool),
		postgres.NewCompanyRepository(pool),
		postgres.NewGeoRepository(pool),
		postgres.NewProductRepository(pool),
		postgres.NewUOMRepository(pool),
		postgres.NewPricelistRepository(pool),
		postgres.NewPaymentTermRepository(pool),
		postgres.NewChargeAllowanceRepository(pool),
		rsx.NewCodec(),
		localdir.New(cfg.EDI.LocalDir),
		cfg.EDI,
		log,
	)

	if docCode == "" {
		service.RunAll(ctx)
		return nil
	}
	for _, action := range service.Actions() {
		if action.DocCode == docCode {
			return service.Run(ctx, action)
		}
	}
	return fmt.Errorf("acción desconocida %q", docCode)
}
