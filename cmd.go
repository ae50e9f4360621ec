package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sadopc/kiosk/internal/config"
	"github.com/sadopc/kiosk/internal/logging"
	"github.com/sadopc/kiosk/internal/share"
	"github.com/sadopc/kiosk/internal/store"
	"github.com/sadopc/kiosk/internal/tui"
)

type rootOptions struct {
	EnvFiles []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "kiosk",
		Short:         "Driver time clock and admin console",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runKiosk(opts)
		},
	}
	cmd.PersistentFlags().StringSliceVar(&opts.EnvFiles, "env-file", config.DefaultEnvFiles, "env files to read before the environment")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newSeedCmd(opts))
	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve shared safety schedules over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.EnvFiles)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ShareAddr = addr
			}
			logger := logging.New(cfg.Level(), os.Stderr)

			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.WithField("addr", cfg.ShareAddr).Info("share server listening")
			return share.NewServer(s, logger).ListenAndServe(ctx, cfg.ShareAddr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides KIOSK_SHARE_ADDR)")
	return cmd
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the demo driver and admin accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.EnvFiles)
			if err != nil {
				return err
			}
			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.SeedDemo(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d demo employees\n", n)
			return nil
		},
	}
}

func runKiosk(opts *rootOptions) error {
	cfg, err := config.Load(opts.EnvFiles)
	if err != nil {
		return err
	}

	logPath := cfg.LogPath
	if logPath == "" {
		if logPath, err = logging.DefaultPath(); err != nil {
			return err
		}
	}
	logFile, logger, err := logging.FileLogger(cfg.Level(), logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	s, err := openStore(cfg)
	if err != nil {
		logger.WithError(err).Error("opening database failed")
		return err
	}
	defer s.Close()

	app := tui.NewApp(s, tui.Options{
		AdminPIN:        cfg.AdminPIN,
		StationID:       cfg.StationID,
		NotificationTTL: cfg.NotificationTTL,
		ShareBaseURL:    cfg.ShareBaseURL,
		ExportDir:       cfg.ExportDir,
		Logger:          logger,
	})
	logger.WithFields(logrus.Fields{"station": cfg.StationID}).Info("kiosk started")

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run kiosk: %w", err)
	}
	return nil
}

func openStore(cfg *config.Config) (*store.Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		var err error
		if dbPath, err = store.DefaultDBPath(); err != nil {
			return nil, err
		}
	}
	s, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
