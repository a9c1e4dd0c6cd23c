package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	verbose    bool
	configFile string
	logFile    string
	settings   *settings
	*logger
	ctx        context.Context
	cancelFunc context.CancelFunc
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{}
	rootCmd := &cobra.Command{
		Use:   "arbor",
		Short: "arbor is a tool to grow classification trees",
		Long:  `A tool to grow classification trees from your data with ID3, C4.5 or CART, test them, and use them to make predictions`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := config.init(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			config.Close()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log the progress of the command")
	rootCmd.PersistentFlags().StringVar(&(config.configFile), "config", "", "path to a configuration file (YAML, JSON or TOML) with defaults for algorithm, workers, redis, sql, mongo and log settings")
	rootCmd.PersistentFlags().StringVar(&(config.logFile), "log-file", "", "path to a file to write logs to instead of STDERR (rotated)")
	rootCmd.AddCommand(versionCmd(), growCmd(config), predictCmd(config), testCmd(config), treeCmd(config), setCmd(config), splitCmd(config))
	return rootCmd
}

func (rcc *rootCmdConfig) init() error {
	s, err := loadSettings(rcc.configFile)
	if err != nil {
		return err
	}
	rcc.settings = s
	logFile := rcc.logFile
	if logFile == "" {
		logFile = s.Log.File
	}
	rcc.logger, err = newLogger(rcc.verbose, s.Log.Level, logFile)
	if err != nil {
		return fmt.Errorf("setting up logger: %v", err)
	}
	return nil
}

func (rcc *rootCmdConfig) Context() context.Context {
	rcc.setContextAndCancelFunc()
	return rcc.ctx
}

func (rcc *rootCmdConfig) ContextCancelFunc() context.CancelFunc {
	rcc.setContextAndCancelFunc()
	return rcc.cancelFunc
}

func (rcc *rootCmdConfig) setContextAndCancelFunc() {
	if rcc.ctx == nil {
		rcc.ctx, rcc.cancelFunc = context.WithCancel(context.Background())
	}
}

// fail prints err on STDERR, logs it and exits with the given code.
func (rcc *rootCmdConfig) fail(code int, err error) {
	fmt.Fprintln(os.Stderr, err)
	if rcc.logger != nil {
		rcc.WithField("exit", code).Debug(err)
		rcc.logger.Close()
	}
	os.Exit(code)
}
