package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/jrh3k5/cryptopay-request/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	logLevel   string
	logger     *logrus.Logger
	stdout     io.Writer
}

func newRootCommand() *cobra.Command {
	options := &rootOptions{
		logger: logrus.New(),
	}

	rootCmd := &cobra.Command{
		Use:   "cryptopay",
		Short: "Build and submit crypto payment requests",
		Long: `Build payment request URIs for EVM chains (ERC-681) and Solana (Solana Pay),
render them as QR codes, and optionally submit them through a JSON-RPC wallet.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load .env file: %w", err)
			}

			options.stdout = cmd.OutOrStdout()
			options.logger.SetOutput(cmd.ErrOrStderr())
			options.logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			if options.logLevel != "" {
				return options.setLogLevel(options.logLevel)
			}

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&options.configFile, "file", "config.yaml", "the location of the file to be read in as configuration")
	rootCmd.PersistentFlags().StringVar(&options.logLevel, "log-level", "", "the log level; overrides the configured level")

	rootCmd.AddCommand(
		newURICommand(options),
		newSolanaCommand(options),
		newEncodeCommand(options),
		newPayCommand(options),
		newWatchCommand(options),
	)

	return rootCmd
}

// loadConfig reads the configuration file and applies its log level unless one was
// given on the command line.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	o.logger.WithField("file", o.configFile).Debug("Reading configuration")

	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}

	if o.logLevel == "" {
		if err := o.setLogLevel(cfg.GetLogLevel()); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (o *rootOptions) setLogLevel(levelName string) error {
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("invalid log level '%s': %w", levelName, err)
	}
	o.logger.SetLevel(level)

	return nil
}

func (o *rootOptions) out() io.Writer {
	if o.stdout == nil {
		return os.Stdout
	}

	return o.stdout
}
