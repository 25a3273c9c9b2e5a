// Package cli implements the pos command line.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/fekuna/omnipos-register/config"
	"github.com/fekuna/omnipos-register/internal/app"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Driver     string
	DSN        string
	Format     string // "json" | "text"
	Verbose    bool
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pos",
		Short: "omnipos register",
		Long:  "Point-of-sale engine for a single supermarket register: catalog, cart, checkout and sales reports.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file overlaid on the environment")
	cmd.PersistentFlags().StringVar(&opts.Driver, "store", "", "store driver override (memory|sqlite3|mysql|redis)")
	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", "", "store DSN override")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log to stderr")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewLowStockCommand(opts))
	cmd.AddCommand(NewSalesCommand(opts))
	cmd.AddCommand(NewReceiptCommand(opts))

	return cmd
}

func (o *RootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if o.Driver != "" {
		cfg.Store.Driver = o.Driver
	}
	if o.DSN != "" {
		cfg.Store.DSN = o.DSN
	}
	return cfg, nil
}

// openApp builds an app for one-shot commands. The order listener and
// sales publisher stay off so nothing joins a consumer group.
func (o *RootOptions) openApp(ctx context.Context) (*app.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	cfg.Kafka.Enabled = false

	log := logger.NewNop()
	if o.Verbose {
		log = app.NewLogger(cfg)
	}
	return app.New(ctx, cfg, log)
}
