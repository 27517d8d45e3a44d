package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	defaultConfigPath = "config.yaml"
	defaultLockPath   = "proposals-lock.json"
)

func newRootCommand() *cobra.Command {
	var configPath string
	var lockPath string
	var rootDir string
	var verbose bool

	root := &cobra.Command{
		Use:           "proposalsync",
		Short:         "Consolidate proposal test suites into a single tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runSync(configPath, lockPath, rootDir, verbose)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "Path to the repository configuration")
	root.PersistentFlags().StringVar(&lockPath, "lock-file", defaultLockPath, "Path to the commit lock file")
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Directory holding the repos/ and tests/ trees")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newValidateCommand(&configPath),
		newVersionCommand(),
	)
	return root
}

func newValidateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and its dependency ordering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(*configPath)
			if err != nil {
				return err
			}
			ordered, err := cfg.SortedByDependency()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d repos ok\n", *configPath, len(ordered))
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the proposalsync version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
			return nil
		},
	}
}

func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func runSync(configPath string, lockPath string, rootDir string, verbose bool) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	locks, err := LoadLockStore(lockPath)
	if err != nil {
		return err
	}
	runner := &execRunner{log: newLogger(verbose)}
	git, err := NewGit(runner)
	if err != nil {
		return err
	}
	loop := NewRunLoop(cfg, git, runner, locks, rootDir, runner.log)
	return loop.Run()
}
