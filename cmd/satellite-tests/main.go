package main

import (
	"fmt"
	"os"
	"regexp"
	"testing"

	"github.com/onsi/ginkgo"
	"github.com/onsi/ginkgo/config"
	"github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	satconfig "github.com/satelliteqe/satellite-tests/pkg/config"

	_ "github.com/satelliteqe/satellite-tests/test/extended/cli"
	_ "github.com/satelliteqe/satellite-tests/test/extended/ui"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOpts struct {
	configPath string
	logLevel   string
	dryRun     bool
}

func newRootCommand() *cobra.Command {
	opts := rootOpts{}

	root := &cobra.Command{
		Use:   "satellite-tests",
		Short: "Acceptance test runner for the server management product",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(opts.logLevel)
			if err != nil {
				return errors.Wrapf(err, "parsing log level %q", opts.logLevel)
			}
			logrus.SetLevel(level)
			if opts.configPath != "" {
				os.Setenv(satconfig.EnvConfigPath, opts.configPath)
			}
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to the settings properties file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "logrus level: debug, info, warn, error")

	root.AddCommand(
		newRunSuiteCommand(&opts),
		newRunTestCommand(&opts),
		newInfoCommand(),
	)
	return root
}

func newRunSuiteCommand(opts *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run-suite [ui|cli|all]",
		Short: "Run one of the named suites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var focus string
			switch args[0] {
			case "ui":
				focus = regexp.QuoteMeta("[ui]")
			case "cli":
				focus = regexp.QuoteMeta("[cli]")
			case "all":
				focus = ""
			default:
				return errors.Errorf("unknown suite %q", args[0])
			}
			return runSpecs(focus, opts.dryRun)
		},
	}
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "list the specs the suite would run")
	return cmd
}

func newRunTestCommand(opts *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run-test <regexp>",
		Short: "Run the specs matching a regular expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := regexp.Compile(args[0]); err != nil {
				return errors.Wrapf(err, "invalid spec pattern %q", args[0])
			}
			return runSpecs(args[0], opts.dryRun)
		},
	}
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "list the matching specs without running them")
	return cmd
}

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the resolved settings with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := satconfig.FromEnv()
			if err != nil {
				return err
			}
			fmt.Printf("%+v\n", settings.Redacted())
			return nil
		},
	}
}

// runSpecs drives ginkgo from the binary. Spec registration happened at init
// time through the suite package imports.
func runSpecs(focus string, dryRun bool) error {
	if focus != "" {
		config.GinkgoConfig.FocusStrings = []string{focus}
	}
	config.GinkgoConfig.DryRun = dryRun
	config.DefaultReporterConfig.Verbose = true

	gomega.RegisterFailHandler(ginkgo.Fail)
	t := &testing.T{}
	if !ginkgo.RunSpecs(t, "satellite acceptance suite") {
		return errors.New("suite failed")
	}
	return nil
}
