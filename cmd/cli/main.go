package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/nickyhof/MyDB"
	"github.com/nickyhof/MyDB/config"
	"github.com/nickyhof/MyDB/logging"
)

// Version is set at build time via -ldflags
var Version = "dev"

type options struct {
	configPath string
	sqlFile    string
	dataDir    string
	storage    string
	logLevel   string
	name       string
	email      string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:           "mydb",
		Short:         "Interactive shell for MyDB",
		Long:          "Interactive shell for MyDB. Reads SQL statements terminated by ';' from stdin or runs a script with --sqlFile.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	bindFlags(rootCmd.Flags(), &opts)
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func bindFlags(flags *pflag.FlagSet, opts *options) {
	flags.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&opts.sqlFile, "sqlFile", "", "SQL file to execute (non-interactive)")
	flags.StringVar(&opts.dataDir, "dataDir", "", "Directory holding database files")
	flags.StringVar(&opts.storage, "storage", "", "Storage backend: file, memory, git or s3")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.name, "name", "", "Author name recorded on commits")
	flags.StringVar(&opts.email, "email", "", "Author email recorded on commits")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "MyDB %s\n", Version)
		},
	}
}

// applyFlags lays explicitly set flags over the loaded config.
func applyFlags(cfg *config.Config, flags *pflag.FlagSet, opts options) {
	if flags.Changed("dataDir") {
		cfg.DataDir = opts.dataDir
	}
	if flags.Changed("storage") {
		cfg.Storage = opts.storage
	}
	if flags.Changed("name") {
		cfg.Identity.Name = opts.name
	}
	if flags.Changed("email") {
		cfg.Identity.Email = opts.email
	}
	// The shell stays quiet unless asked; a config file's level applies
	// only when the flag is not set.
	if flags.Changed("log-level") || opts.configPath == "" {
		cfg.Log.Level = opts.logLevel
	}
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

	persistence, err := config.OpenPersistence(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	engine := MyDB.Open(persistence).Engine(cfg.CoreIdentity())
	engine.Logger = logger

	interactive := opts.sqlFile == "" && term.IsTerminal(int(os.Stdin.Fd()))
	cli := NewCLI(engine, cmd.InOrStdin(), cmd.OutOrStdout(), interactive)

	if opts.sqlFile != "" {
		return cli.importFile(opts.sqlFile)
	}

	if interactive {
		cli.historyFile = getHistoryPath()
		cli.loadHistory()
		defer cli.saveHistory()
		cli.printBanner(cfg.Storage)
	}

	cli.run()
	return nil
}
