package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vbonduro/rentalmngr/internal/alert"
	"github.com/vbonduro/rentalmngr/internal/config"
	"github.com/vbonduro/rentalmngr/internal/db"
	"github.com/vbonduro/rentalmngr/internal/document"
	"github.com/vbonduro/rentalmngr/internal/imagefetch"
	"github.com/vbonduro/rentalmngr/internal/logging"
	"github.com/vbonduro/rentalmngr/internal/photostore/local"
	"github.com/vbonduro/rentalmngr/internal/reminder"
	"github.com/vbonduro/rentalmngr/internal/service"
	"github.com/vbonduro/rentalmngr/internal/store"
	"github.com/vbonduro/rentalmngr/internal/web"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "rentalmngr",
		Short:         "Room rental manager: contracts, room ads and landlord alerts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(serveCmd(), contractCmd(), roomAdCmd(), alertsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	database  *sql.DB
	reminders *reminder.Scheduler
	service   *service.RentalService
	cleanup   func()
}

// newApp wires the stores, generator and alert engine. withReminders starts
// the payment reminder scheduler; one-shot commands leave it off.
func newApp(withReminders bool) (*app, error) {
	cfg := config.Load()

	logger, logCleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	profile, err := config.LoadProfile(cfg.DocumentProfile)
	if err != nil {
		logCleanup()
		return nil, err
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logCleanup()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	photoStg, err := local.NewLocalPhotoStore(cfg.PhotoPath)
	if err != nil {
		_ = database.Close()
		logCleanup()
		return nil, fmt.Errorf("failed to initialize photo store: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, database: database}

	properties := store.NewPropertyStore(database)
	tenants := store.NewTenantStore(database)
	income := store.NewIncomeStore(database)

	var updater alert.ReminderUpdater
	if withReminders {
		a.reminders = reminder.New(reminder.LogNotifier{Logger: logger}, logger, reminder.WithInterval(cfg.ReminderInterval))
		updater = a.reminders
	}
	engine := alert.NewEngine(properties, tenants, income, updater, logger, alert.WithConcurrency(cfg.AlertConcurrency))

	a.service = service.NewRentalService(service.Repositories{
		Properties: properties,
		Rooms:      store.NewRoomStore(database),
		RoomPhotos: store.NewRoomPhotoStore(database),
		Tenants:    tenants,
		Income:     income,
		Expenses:   store.NewExpenseStore(database),
		HouseRules: store.NewHouseRuleStore(database),
		Reminders:  store.NewHouseholdReminderStore(database),
	},
		photoStg,
		imagefetch.New(photoStg, logger),
		document.New(document.WithProfile(profile), document.WithLogger(logger)),
		engine,
		logger,
	)

	a.cleanup = func() {
		if a.reminders != nil {
			a.reminders.Close()
		}
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
		logCleanup()
	}
	return a, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the payment reminder",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// seed the reminder from the current alerts
			if _, err := a.service.Alerts(ctx); err != nil {
				a.logger.Warn("initial alert refresh failed", "error", err)
			}

			server := web.NewServer(a.service, a.logger)
			if err := server.ListenAndServe(ctx, a.cfg.ListenAddr); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
}

func contractCmd() *cobra.Command {
	var tenantID, tmpl, out string
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Generate a tenant's rental contract as PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(tenantID)
			if err != nil {
				return fmt.Errorf("invalid --tenant: %w", err)
			}
			t, err := document.ParseTemplate(tmpl)
			if err != nil {
				return err
			}
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.cleanup()

			pdf, err := a.service.ContractPDF(cmd.Context(), id, t)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), out, pdf)
		},
	}
	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant ID")
	cmd.Flags().StringVar(&tmpl, "template", string(document.TemplateLegal), "contract template: legal or structured")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}

func roomAdCmd() *cobra.Command {
	var roomID, contact, out string
	cmd := &cobra.Command{
		Use:   "room-ad",
		Short: "Generate a room advertisement as PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(roomID)
			if err != nil {
				return fmt.Errorf("invalid --room: %w", err)
			}
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.cleanup()

			pdf, err := a.service.RoomAdPDF(cmd.Context(), id, contact)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), out, pdf)
		},
	}
	cmd.Flags().StringVar(&roomID, "room", "", "room ID")
	cmd.Flags().StringVar(&contact, "contact", "", "owner contact printed on the ad")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	_ = cmd.MarkFlagRequired("room")
	return cmd
}

func alertsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Print current contract and payment alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.cleanup()

			alerts, err := a.service.Alerts(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(alerts) == 0 {
				_, err := fmt.Fprintln(w, "Sin alertas.")
				return err
			}
			for _, al := range alerts {
				if _, err := fmt.Fprintf(w, "[%s] %s: %s (%s)\n", al.Severity, al.Title, al.Message, al.PropertyName); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
