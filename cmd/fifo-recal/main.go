// fifo-recal ejecuta recalculaciones FIFO desde la línea de comandos contra PostgreSQL.
//
// Uso:
//
//	fifo-recal create --company <id> --from 2024-01-01 --to 2024-01-31 [--warehouses a,b] [--strategy range]
//	fifo-recal preview --company <id> <run_id>
//	fifo-recal apply --company <id> <run_id>
//	fifo-recal rollback --company <id> <run_id>
//	fifo-recal run-config <config_id>
//	fifo-recal expire-backups
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jhoicas/fifo-valuation-api/internal/application/dto"
	"github.com/jhoicas/fifo-valuation-api/internal/application/ports"
	"github.com/jhoicas/fifo-valuation-api/internal/application/recalculation"
	"github.com/jhoicas/fifo-valuation-api/internal/application/valuation"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/inventory"
	infraexcel "github.com/jhoicas/fifo-valuation-api/internal/infrastructure/excel"
	inframail "github.com/jhoicas/fifo-valuation-api/internal/infrastructure/mail"
	"github.com/jhoicas/fifo-valuation-api/internal/infrastructure/postgres"
	"github.com/jhoicas/fifo-valuation-api/pkg/config"
	"github.com/jhoicas/fifo-valuation-api/pkg/logger"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

type app struct {
	recal    *recalculation.UseCase
	schedule *recalculation.ScheduleUseCase
	close    func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var companyID string
	var a *app

	root := &cobra.Command{
		Use:           "fifo-recal",
		Short:         "Recalculación de capas de valoración FIFO",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			a, err = wire(cmd.Context())
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a != nil {
				a.close()
			}
		},
	}
	root.PersistentFlags().StringVar(&companyID, "company", "", "empresa dueña de la ejecución")

	var (
		from, to, strategy               string
		warehouses, products, categories []string
		batch                            int
		dryRun, lock                     bool
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Crea una ejecución en borrador",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if companyID == "" {
				return fmt.Errorf("--company es obligatorio")
			}
			df, err := time.Parse(dateLayout, from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			dt, err := time.Parse(dateLayout, to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			in := dto.CreateRecalculationRequest{
				DateFrom:         df,
				DateTo:           dt.Add(24*time.Hour - time.Second),
				WarehouseIDs:     warehouses,
				ProductIDs:       products,
				CategoryIDs:      categories,
				DeletionStrategy: strategy,
				BatchSize:        batch,
				DryRun:           &dryRun,
				LockAfterRecal:   lock,
			}
			d, err := a.recal.Create(cmd.Context(), companyID, "cli", in)
			if err != nil {
				return err
			}
			return printJSON(recalculation.ToRunResponse(d))
		},
	}
	create.Flags().StringVar(&from, "from", "", "fecha inicial (AAAA-MM-DD)")
	create.Flags().StringVar(&to, "to", "", "fecha final inclusiva (AAAA-MM-DD)")
	create.Flags().StringSliceVar(&warehouses, "warehouses", nil, "bodegas separadas por coma")
	create.Flags().StringSliceVar(&products, "products", nil, "productos separados por coma")
	create.Flags().StringSliceVar(&categories, "categories", nil, "categorías separadas por coma")
	create.Flags().StringVar(&strategy, "strategy", "none", "none | range | all_product_layers")
	create.Flags().IntVar(&batch, "batch", 0, "productos por lote (0 usa el valor configurado)")
	create.Flags().BoolVar(&dryRun, "dry-run", false, "solo permite previsualizar")
	create.Flags().BoolVar(&lock, "lock", false, "bloquea las capas creadas")
	_ = create.MarkFlagRequired("from")
	_ = create.MarkFlagRequired("to")

	root.AddCommand(
		create,
		runCmd("preview", "Calcula la previsualización", &companyID, func(ctx context.Context, id string) (any, error) {
			d, err := a.recal.Preview(ctx, companyID, id)
			if err != nil {
				return nil, err
			}
			return recalculation.ToRunResponse(d), nil
		}),
		runCmd("apply", "Aplica la recalculación", &companyID, func(ctx context.Context, id string) (any, error) {
			d, err := a.recal.Apply(ctx, companyID, id)
			if err != nil {
				return nil, err
			}
			return recalculation.ToRunResponse(d), nil
		}),
		runCmd("rollback", "Restaura el respaldo de una ejecución", &companyID, func(ctx context.Context, id string) (any, error) {
			r, err := a.recal.Rollback(ctx, companyID, id)
			if err != nil {
				return nil, err
			}
			return recalculation.ToRestoreResponse(r), nil
		}),
		runCmd("export", "Escribe la previsualización en XLSX", &companyID, func(ctx context.Context, id string) (any, error) {
			data, name, err := a.recal.Export(ctx, companyID, id)
			if err != nil {
				return nil, err
			}
			if err := os.WriteFile(name, data, 0o644); err != nil {
				return nil, err
			}
			return map[string]any{"file": name, "bytes": len(data)}, nil
		}),
		&cobra.Command{
			Use:   "run-config <config_id>",
			Short: "Ejecuta una configuración programada",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := a.schedule.RunConfig(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(recalculation.ToRunResponse(d))
			},
		},
		&cobra.Command{
			Use:   "expire-backups",
			Short: "Vence los respaldos fuera de retención",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				n, err := a.recal.ExpireBackups(cmd.Context(), time.Now().UTC())
				if err != nil {
					return err
				}
				return printJSON(map[string]int{"expired": n})
			},
		},
	)
	return root
}

// runCmd subcomando que opera sobre una ejecución existente.
func runCmd(use, short string, companyID *string, fn func(ctx context.Context, id string) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <run_id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if *companyID == "" {
				return fmt.Errorf("--company es obligatorio")
			}
			out, err := fn(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
}

func wire(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	if cfg.Storage.UseMemory() {
		return nil, fmt.Errorf("fifo-recal requiere STORAGE_DRIVER=postgres")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level}).Component("fifo-recal")

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	tx := postgres.NewTxRunner(pool)

	settings := valuation.DefaultSettings()
	settings.Precision = inventory.Precision{Value: cfg.FIFO.PricePrecision, UnitDigits: cfg.FIFO.UnitCostPrecision}
	settings.DefaultShortagePolicy = cfg.FIFO.ShortagePolicy
	settings.DefaultLocationValidation = cfg.FIFO.LocationValidation
	settings.QueueReadLimit = cfg.FIFO.QueueReadLimit

	fifo := valuation.NewFIFOService(settings, nil, log)
	allocator := valuation.NewLandedCostAllocator(settings.Precision, log)
	moveSvc := valuation.NewMoveValuationService(settings, fifo, allocator, valuation.NewReturnResolver(fifo, log), nil, nil, log)

	recalSettings := recalculation.Settings{
		DefaultBatchSize: cfg.FIFO.DefaultBatchSize,
		BackupRetention:  time.Duration(cfg.FIFO.BackupRetentionDays) * 24 * time.Hour,
		LockTTL:          cfg.FIFO.LockTTL,
	}
	exporter := infraexcel.NewPreviewExporter()
	backups := recalculation.NewBackupService(tx, recalSettings.BackupRetention, nil, log)
	recal := recalculation.NewUseCase(tx, moveSvc, backups, exporter, nil, nil, recalSettings, log)

	var notifier ports.Notifier = inframail.NewLogNotifier(log)
	if cfg.Mail.Enabled() {
		notifier = inframail.NewSMTPNotifier(cfg.Mail, log)
	}
	schedule := recalculation.NewScheduleUseCase(tx, recal, exporter, notifier, log)

	return &app{recal: recal, schedule: schedule, close: pool.Close}, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
