package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"predictd/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// cliFlags are the flags shared by every subcommand. Flags win over env,
// env over the config file.
type cliFlags struct {
	configPath string
	envFile    string
	addr       string
	modelPath  string
	precision  string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	f := &cliFlags{}
	root := &cobra.Command{
		Use:           "predictd",
		Short:         "Tabular model prediction service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeCmd(cmd, f)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "Config file (.yaml|.yml|.json|.toml)")
	pf.StringVar(&f.envFile, "env-file", ".env", "Dotenv file loaded before reading PREDICTD_* variables")
	pf.StringVar(&f.addr, "addr", "", "HTTP listen address, e.g. :8000")
	pf.StringVar(&f.modelPath, "model", "", "Model artifact (.onnx|.json|.yaml)")
	pf.StringVar(&f.precision, "precision", "", "Input precision: fp32|fp16")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level: off|error|info|debug")
	pf.StringVar(&f.logFormat, "log-format", "", "Log format: console|json")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the model and serve /predict",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeCmd(cmd, f)
		},
	}
	var inputPath string
	encodeCmd := &cobra.Command{
		Use:     "encode",
		Short:   "Print the feature vector for a prediction request",
		Example: "  predictd encode --input req.json\n  echo '{...}' | predictd encode --input -",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f, os.LookupEnv)
			if err != nil {
				return err
			}
			return runEncode(cfg, inputPath, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	encodeCmd.Flags().StringVar(&inputPath, "input", "-", "Request JSON file, - for stdin")
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "predictd", version)
			return err
		},
	}
	root.AddCommand(serveCmd, encodeCmd, versionCmd)
	return root
}

// loadConfig layers file, env and flags, then applies defaults and validates.
func loadConfig(f *cliFlags, lookup config.LookupFunc) (config.Config, error) {
	if f.envFile != "" {
		if err := config.LoadDotEnv(f.envFile); err != nil {
			return config.Config{}, fmt.Errorf("env file: %w", err)
		}
	}
	var cfg config.Config
	if f.configPath != "" {
		c, err := config.Load(f.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = c
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return config.Config{}, err
	}
	f.apply(&cfg)
	cfg = cfg.WithDefaults()
	if err := cfg.ExpandPaths(); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (f *cliFlags) apply(cfg *config.Config) {
	if f.addr != "" {
		cfg.Addr = f.addr
	}
	if f.modelPath != "" {
		cfg.Model.Path = f.modelPath
	}
	if f.precision != "" {
		cfg.Model.Precision = f.precision
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
}
