package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/taoline/taocli-go/cmd/taocli/config"
)

// --- VISUAL CONSTANTS ---
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	Gray   = "\033[37m"
)

// header prints a styled section header
func header(title string) {
	fmt.Println("\n" + Bold + Cyan + ":: " + title + " ::" + Reset)
}

// app carries the resolved configuration and shared dependencies into the
// command implementations.
type app struct {
	cfg      *config.ClientConfig
	logger   *slog.Logger
	registry prometheus.Registerer

	// flag overrides
	configPath string
	endpoint   string
	netuid     uint16
	coldkey    string

	logFile *os.File
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.endpoint != "" {
		a.cfg.Endpoint = a.endpoint
	}
	if cmd.Flags().Changed("netuid") {
		a.cfg.Netuid = a.netuid
	}
	if a.coldkey != "" {
		a.cfg.Coldkey = a.coldkey
	}

	logOut := os.Stderr
	if a.cfg.LogFile != "" {
		f, err := os.OpenFile(a.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = f
		logOut = f
	}

	a.logger = slog.New(slog.NewJSONHandler(logOut, nil))
	a.registry = prometheus.NewRegistry()
	return nil
}

func (a *app) teardown(cmd *cobra.Command, args []string) error {
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "taocli",
		Short:         "Command-line client for subnet liquidity pools",
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "config.yaml", "Path to the configuration file.")
	root.PersistentFlags().StringVar(&a.endpoint, "endpoint", "", "Node RPC URL (overrides config).")
	root.PersistentFlags().Uint16Var(&a.netuid, "netuid", 0, "Subnet to operate on (overrides config).")
	root.PersistentFlags().StringVar(&a.coldkey, "coldkey", "", "SS58 account whose positions are queried (overrides config).")

	root.AddCommand(
		newLiquidityCommand(a),
		newPriceCommand(a),
		newWatchCommand(a),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, Red+"Error: "+err.Error()+Reset)
		os.Exit(1)
	}
}
