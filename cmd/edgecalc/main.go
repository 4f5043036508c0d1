package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"edge-calculator/internal/alerts"
	"edge-calculator/internal/config"
	"edge-calculator/internal/logger"
	"edge-calculator/internal/metrics"
	"edge-calculator/internal/positions"
	"edge-calculator/internal/server"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// app carries the state shared by every subcommand once the root has loaded it.
type app struct {
	configFile string
	jsonOutput bool

	cfg *config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "edgecalc",
		Short: "Odds conversion, devigging and stake optimization",
		Long: `edgecalc converts betting odds between formats, removes the bookmaker margin,
prices expected value, and sizes stakes for arbitrage, free-bet hedges and +EV bets.

Prices are written the way a bettor would: +150, -110, 2.50 or 5/2. A negative
American price as a bare argument needs a "--" separator: edgecalc convert -- -110`,
		Version:      fmt.Sprintf("%s (%s)", Version, GitCommit),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "Path to configuration file")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Print results as JSON")

	root.AddCommand(
		a.convertCmd(),
		a.devigCmd(),
		a.evCmd(),
		a.arbCmd(),
		a.hedgeCmd(),
		a.kellyCmd(),
		a.comboCmd(),
		a.middleCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg
	a.log = logger.NewLogger(cfg.LogLevel, cfg.Environment)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func (a *app) serveCmd() *cobra.Command {
	var noPositions bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context(), noPositions)
		},
	}
	cmd.Flags().BoolVar(&noPositions, "no-positions", false, "Run without the position database")
	return cmd
}

func (a *app) serve(ctx context.Context, noPositions bool) error {
	a.log.Info("Starting edge calculator API")
	a.log.Info("Config:" + a.cfg.Summary())

	metrics.InitRegistry()
	notifier := alerts.NewNotifier(a.log, a.cfg.AlertCooldown)

	var store server.PositionStore
	if !noPositions {
		db, err := positions.NewDB(a.cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open position database: %w", err)
		}
		defer db.Close()
		store = db

		if all, err := db.GetAllPositions(); err == nil {
			metrics.UpdateTrackedPositions(len(all))
			a.log.WithField("positions", len(all)).Info("Position database ready")
		}
	}

	go runAlertMaintenance(ctx, notifier, a.cfg.AlertCooldown)

	return server.New(a.cfg, a.log, store, notifier).Run(ctx)
}

// runAlertMaintenance drops expired alert keys once per cooldown period.
func runAlertMaintenance(ctx context.Context, notifier *alerts.Notifier, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			notifier.CleanupOldAlerts()
		}
	}
}
