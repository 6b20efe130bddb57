package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/diwise/oresm/pkg/oresm"
	"github.com/diwise/oresm/pkg/oresm/client"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/spf13/cobra"
)

type options struct {
	host       string
	prefix     string
	key        string
	configPath string
	debug      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "oresm",
		Short:        "Work with records of a REST API as active records",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.debug {
				level = slog.LevelDebug
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			cmd.SetContext(logging.NewContextWithLogger(cmd.Context(), logger))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.host, "host", "http://localhost:8080", "scheme and authority of the resource api")
	flags.StringVar(&opts.prefix, "prefix", "api", "path prefix in front of every resource")
	flags.StringVar(&opts.key, "key", oresm.DefaultKey, "name of the attribute identifying a record")
	flags.StringVar(&opts.configPath, "config", "", "path to a transport configuration file")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		findCmd(opts),
		listCmd(opts),
		createCmd(opts),
		updateCmd(opts),
		patchCmd(opts),
		deleteCmd(opts),
	)

	return rootCmd
}

func newType(opts *options, typeName string) (*oresm.Type, error) {
	var cfg *client.Config

	if opts.configPath != "" {
		f, err := os.Open(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("opening config: %w", err)
		}
		defer f.Close()

		cfg, err = client.LoadConfiguration(f)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	transport := client.NewHTTPTransport(
		client.Debug(strconv.FormatBool(opts.debug)),
		client.WithConfig(cfg),
	)

	return oresm.NewType(typeName, transport,
		oresm.Host(opts.host),
		oresm.Prefix(opts.prefix),
		oresm.Key(opts.key),
	), nil
}
