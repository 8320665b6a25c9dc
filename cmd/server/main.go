package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nickyhof/MyDB"
	"github.com/nickyhof/MyDB/config"
	"github.com/nickyhof/MyDB/logging"
)

// Version is set at build time via -ldflags
var Version = "dev"

type options struct {
	configPath string
	addr       string
	dataDir    string
	storage    string
	logLevel   string
	tlsCert    string
	tlsKey     string
	jwtSecret  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:           "mydb-server",
		Short:         "TCP SQL server for MyDB",
		Long:          "TCP SQL server for MyDB. Clients send one statement per line and receive one JSON response per line.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	bindFlags(rootCmd.Flags(), &opts)
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "MyDB SQL Server v%s\n", Version)
		},
	})

	return rootCmd
}

func bindFlags(flags *pflag.FlagSet, opts *options) {
	flags.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&opts.addr, "addr", "", "TCP address to listen on (default from config, :3306)")
	flags.StringVar(&opts.dataDir, "dataDir", "", "Directory holding database files")
	flags.StringVar(&opts.storage, "storage", "", "Storage backend: file, memory, git or s3")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.tlsCert, "tls-cert", "", "TLS certificate file")
	flags.StringVar(&opts.tlsKey, "tls-key", "", "TLS private key file")
	flags.StringVar(&opts.jwtSecret, "jwt-secret", "", "HS256 secret; when set clients must AUTH JWT first")
}

// applyFlags lays explicitly set flags over the loaded config.
func applyFlags(cfg *config.Config, flags *pflag.FlagSet, opts options) {
	if flags.Changed("addr") {
		cfg.Server.Addr = opts.addr
	}
	if flags.Changed("dataDir") {
		cfg.DataDir = opts.dataDir
	}
	if flags.Changed("storage") {
		cfg.Storage = opts.storage
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("tls-cert") {
		cfg.Server.TLSCert = opts.tlsCert
	}
	if flags.Changed("tls-key") {
		cfg.Server.TLSKey = opts.tlsKey
	}
	if flags.Changed("jwt-secret") {
		cfg.Server.JWTSecret = opts.jwtSecret
	}
}

// newServer builds the server described by cfg without starting it.
func newServer(cfg *config.Config, instance *MyDB.Instance) *Server {
	if cfg.Server.JWTSecret == "" {
		return NewServer(instance, cfg.CoreIdentity())
	}
	return NewServerWithAuth(instance, cfg.CoreIdentity(), &AuthConfig{
		JWTSecret: cfg.Server.JWTSecret,
		Issuer:    cfg.Server.Issuer,
		Audience:  cfg.Server.Audience,
	})
}

func run(cmd *cobra.Command, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, cmd.Flags(), opts)

	logger, flush, err := logging.SetupLogger(logging.Options{
		Level:  cfg.Log.Level,
		SeqURL: cfg.Log.SeqURL,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer flush()

	ctx := cmd.Context()
	persistence, err := config.OpenPersistence(ctx, cfg)
	if err != nil {
		return err
	}

	server := newServer(cfg, MyDB.Open(persistence))
	server.Logger = logger

	if cfg.Server.TLSCert != "" {
		err = server.StartTLS(cfg.Server.Addr, cfg.Server.TLSCert, cfg.Server.TLSKey)
	} else {
		err = server.Start(cfg.Server.Addr)
	}
	if err != nil {
		return err
	}

	logger.Info("server started",
		"version", Version,
		"storage", cfg.Storage,
		"encrypted", persistence.Encrypted())

	<-ctx.Done()

	logger.Info("shutting down")
	if err := server.Stop(); err != nil {
		logger.Warn("listener close failed", "error", err)
	}
	logger.Info("server stopped")
	return nil
}
