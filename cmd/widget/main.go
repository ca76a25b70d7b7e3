// Command widget is the terminal currency converter.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vasishthabirari72/currency-convertor/internal/config"
	"github.com/vasishthabirari72/currency-convertor/internal/console"
	"github.com/vasishthabirari72/currency-convertor/internal/currency"
	"github.com/vasishthabirari72/currency-convertor/internal/logger"
	"github.com/vasishthabirari72/currency-convertor/internal/service"
	"github.com/vasishthabirari72/currency-convertor/internal/widget"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
)

var (
	cfg *config.Config
	zl  *zap.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "widget",
	Short: "Interactive currency converter",
	Long: `Converts amounts between currencies using fxratesapi.com.

The access key is read from FX_API_KEY (environment or .env file).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		zl, err = logger.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zl != nil {
			_ = zl.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController(cmd, console.NewTerminal(cmd.OutOrStdout(), true))
		if err != nil {
			return err
		}
		if amount, _ := cmd.Flags().GetString("amount"); amount != "" {
			ctrl.SetAmount(amount)
			_, _, _ = ctrl.Load(cmd.Context())
		}
		return console.NewSession(ctrl, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
	},
}

func newController(cmd *cobra.Command, view widget.View) (*widget.Controller, error) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	if from == "" {
		from = cfg.Widget.DefaultFrom
	}
	if to == "" {
		to = cfg.Widget.DefaultTo
	}
	client := service.NewFxRatesClient(cfg.API, zl)
	ctrl := widget.New(client, view, widget.WithLogger(zl))
	if err := ctrl.Initialize(from, to); err != nil {
		return nil, err
	}
	return ctrl, nil
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("from", "", "source currency (default DEFAULT_FROM or USD)")
	rootCmd.PersistentFlags().String("to", "", "target currency (default DEFAULT_TO or INR)")
	rootCmd.Flags().String("amount", "", "initial amount; converts on start when positive")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(currenciesCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "widget %s (%s)\n", version, commit)
	},
}

// --- Convert Command ---

var convertCmd = &cobra.Command{
	Use:   "convert AMOUNT",
	Short: "Convert once and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController(cmd, nil)
		if err != nil {
			return err
		}
		ctrl.SetAmount(args[0])
		res, err := ctrl.Submit(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s", ctrl.State().Message)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Message())
		return nil
	},
}

// --- Currencies Command ---

var currenciesCmd = &cobra.Command{
	Use:   "currencies",
	Short: "List supported currencies and their flags",
	Run: func(cmd *cobra.Command, args []string) {
		for _, code := range currency.Codes() {
			region, _ := currency.Lookup(code)
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", code, region, currency.FlagURL(region))
		}
	},
}
