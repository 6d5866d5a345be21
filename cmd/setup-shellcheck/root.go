package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ZebulonRouseFrantzich/setup-shellcheck/internal/actions"
	"github.com/ZebulonRouseFrantzich/setup-shellcheck/internal/config"
	"github.com/ZebulonRouseFrantzich/setup-shellcheck/internal/installer"
	"github.com/ZebulonRouseFrantzich/setup-shellcheck/internal/logger"
	"github.com/ZebulonRouseFrantzich/setup-shellcheck/internal/platform"
	"github.com/ZebulonRouseFrantzich/setup-shellcheck/internal/release"
	"github.com/ZebulonRouseFrantzich/setup-shellcheck/internal/toolcache"
)

// Path to an optional YAML config file
var configFile string

// createRootCommand creates the root command. Running it without a
// subcommand performs the installation.
func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "setup-shellcheck",
		Short: "Install shellcheck and add it to the PATH",
		Long: `setup-shellcheck installs a prebuilt shellcheck release for the current
runner and makes it available to later workflow steps.

The version comes from the "version" step input or --shellcheck-version
and may be "latest" or an exact MAJOR.MINOR.PATCH release. Installed
versions are kept in the runner tool cache and reused by later runs.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd.Context(), cmd.Flags(), os.Stderr)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Path to a YAML configuration file")
	addSetupFlags(rootCmd.PersistentFlags(), rootCmd.Flags())

	rootCmd.AddCommand(createVersionCommand())

	return rootCmd
}

// addSetupFlags registers the flags that override config values.
func addSetupFlags(persistent, local *pflag.FlagSet) {
	persistent.String(config.FlagLogLevel, "info",
		"Log level (debug, info, warn, error)")
	local.String(config.FlagVersion, release.Latest,
		`shellcheck version to install ("latest" or MAJOR.MINOR.PATCH)`)
	local.String(config.FlagToken, "",
		"GitHub token for API requests")
}

// runSetup loads configuration, wires the installer and runs it. Download
// progress is drawn on progress (nil disables it).
func runSetup(ctx context.Context, flags *pflag.FlagSet, progress io.Writer) error {
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return err
	}

	log, cleanup := logger.Init(logger.Config{Level: cfg.Logging.Level})
	defer cleanup()

	if configFile != "" {
		log.Debugf("Using configuration from: %s", configFile)
	}
	log.Debugf("Config: version=%s, tool_cache_dir=%s, temp_dir=%s, api_url=%s, retry=%d/%s",
		cfg.Version, cfg.ToolCacheDir, cfg.TempDir, cfg.APIURL, cfg.Retry.Attempts, cfg.Retry.Delay)

	inst, err := newInstaller(cfg, log, progress)
	if err != nil {
		return err
	}

	result, err := inst.EnsureInstalled(ctx)
	if err != nil {
		return err
	}

	log.Infof("shellcheck %s is available at %s", result.Version, result.BinDir)
	return nil
}

// newInstaller builds an installer backed by the real runner collaborators.
func newInstaller(cfg *config.Config, log *zap.SugaredLogger, progress io.Writer) (*installer.Installer, error) {
	cache, err := toolcache.NewCache(cfg.ToolCacheDir, log)
	if err != nil {
		return nil, fmt.Errorf("open tool cache: %w", err)
	}

	resolver := release.NewResolver(release.Options{
		APIURL:     cfg.APIURL,
		Token:      cfg.Token,
		Attempts:   cfg.Retry.Attempts,
		RetryDelay: cfg.Retry.Delay,
		Logger:     log,
	})

	return installer.New(installer.Config{
		Version:    cfg.Version,
		ReleaseURL: cfg.ReleaseURL,
		Detector:   platform.NewDetector(),
		Resolver:   resolver,
		Cache:      cache,
		Downloader: toolcache.NewDownloader(cfg.TempDir, progress, log),
		Extractor:  toolcache.NewExtractor(cfg.TempDir),
		Path:       actions.NewRuntime(os.Stdout),
		Logger:     log,
	})
}
