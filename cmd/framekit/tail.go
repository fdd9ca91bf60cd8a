package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bft-labs/framekit/internal/cliconfig"
	"github.com/bft-labs/framekit/pkg/framekit"
	logAdapter "github.com/bft-labs/framekit/pkg/log"
	"github.com/bft-labs/framekit/pkg/sender"
	"github.com/bft-labs/framekit/plugins/configwatcher"
)

func newTailCommand() *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Stream a file into a frame and publish snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			fromFile := cfgFile != "" && cliconfig.FileExists(cfgFile)
			if fromFile {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := cliconfig.Logger(cfg.LogLevel)
			log.Info().Interface("config", cfg.Masked()).Msg("configuration")

			opts := []framekit.Option{
				framekit.WithLogger(logAdapter.NewZerologAdapterWithLogger(log)),
				framekit.WithEventHandler(&logEvents{log: log}),
			}
			if fromFile && cfg.Capacity > 0 && !cfg.Once {
				wc := configwatcher.DefaultConfig()
				wc.Path = cfgFile
				opts = append(opts, configwatcher.WithConfigWatcher(wc))
			}
			if cfg.ServiceURL == "" {
				opts = append(opts, framekit.WithSender(sender.NewWriterSender(cmd.OutOrStdout())))
			}

			s, err := framekit.New(cfg.Streamer(), opts...)
			if err != nil {
				return fmt.Errorf("create streamer: %w", err)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			if err := s.Start(ctx); err != nil {
				return fmt.Errorf("start streamer: %w", err)
			}

			doneCh := make(chan error, 1)
			go func() { doneCh <- s.Wait() }()

			select {
			case <-sigCh:
				log.Info().Msg("received signal, stopping...")
			case err := <-doneCh:
				if err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				log.Info().Int("rows", s.Len()).Msg("caught up")
				return nil
			}

			if err := s.Stop(); err != nil && !errors.Is(err, framekit.ErrNotRunning) {
				return fmt.Errorf("stop streamer: %w", err)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.framekit/config.toml)")
	f.StringVar(&cfg.File, "file", cfg.File, "file to read rows from")
	f.StringVar(&cfg.Name, "name", cfg.Name, "frame name (defaults to the file's base name)")
	f.StringVar(&cfg.Format, "format", cfg.Format, "row format: json, ndjson or csv")
	f.BoolVar(&cfg.Header, "header", cfg.Header, "treat the first CSV line as field names")
	f.StringVar(&cfg.Comma, "delimiter", cfg.Comma, "CSV delimiter")
	f.IntVar(&cfg.Capacity, "capacity", cfg.Capacity, "rows kept in memory (0 keeps all)")
	f.StringVar(&cfg.Append, "append", cfg.Append, "where new rows go in a bounded frame: tail or head")
	f.StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "directory for the read cursor (empty keeps it in memory)")
	f.StringVar(&cfg.ServiceURL, "service-url", cfg.ServiceURL, "base URL snapshots are posted to (empty writes them to stdout)")
	f.StringVar(&cfg.AuthKey, "auth-key", cfg.AuthKey, "API key for authentication")
	f.StringVar(&cfg.Compression, "compression", cfg.Compression, "request body compression: none, gzip or zstd")
	f.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "poll interval when idle")
	f.DurationVar(&cfg.PublishInterval, "publish-interval", cfg.PublishInterval, "soft publish interval")
	f.DurationVar(&cfg.HardInterval, "hard-interval", cfg.HardInterval, "hard publish interval while rows keep arriving")
	f.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout")
	f.IntVar(&cfg.MaxBatchRows, "max-batch-rows", cfg.MaxBatchRows, "rows applied per batch")
	f.BoolVar(&cfg.Once, "once", cfg.Once, "process available rows, publish and exit")
	f.BoolVar(&cfg.Watch, "watch", cfg.Watch, "wake on file system events instead of polling only")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")

	return cmd
}
