package main

import (
	"context"
	"fmt"
	"os"

	"github.com/okian/catbreeds/internal/adapters/catapi"
	"github.com/okian/catbreeds/internal/config"
	"github.com/okian/catbreeds/internal/domain/cat"
	"github.com/okian/catbreeds/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// fetcher is the part of catapi.Client the commands use.
type fetcher interface {
	FetchCatsByBreed(ctx context.Context, breed string, offset int) ([]cat.Cat, error)
	FetchCatsListByBreed(ctx context.Context, offset int) ([]cat.Cat, error)
}

// newFetcher builds the client from configuration. Tests replace it.
type newFetcher func(ctx context.Context, fs *pflag.FlagSet) (fetcher, error)

func newRootCmd(build newFetcher) *cobra.Command {
	if build == nil {
		build = clientFromConfig
	}
	var src fetcher

	root := &cobra.Command{
		Use:   "catctl",
		Short: "Looks up cat breeds on the API Ninjas cats API",
		Long: `catctl queries the same cats API the web viewer uses.

Configuration is read like the server's: a .env file, then the YAML file
named by CATBREEDS_CONFIG, then CATBREEDS_* environment variables.

Example usage:
catctl list --offset=20
catctl breed "Maine Coon" --json
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			f, err := build(cmd.Context(), cmd.Flags())
			if err != nil {
				return err
			}
			src = f
			return nil
		},
	}

	root.PersistentFlags().String("api-key", "", "API key, overrides CATBREEDS_API_KEY")
	root.PersistentFlags().String("base-url", "", "API base URL, overrides CATBREEDS_API_BASE_URL")
	root.PersistentFlags().Int("offset", 0, "Upstream pagination offset")
	root.PersistentFlags().Bool("json", false, "Output is in JSON format")

	source := func() fetcher { return src }
	root.AddCommand(newListCmd(source), newBreedCmd(source))
	return root
}

func clientFromConfig(ctx context.Context, fs *pflag.FlagSet) (fetcher, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if v := mustString(fs, "api-key"); v != "" {
		cfg.APIKey = v
	}
	if v := mustString(fs, "base-url"); v != "" {
		cfg.APIBaseURL = v
	}

	log, err := logger.New(os.Stderr, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("%w: log_level %q", config.ErrInvalidConfig, cfg.LogLevel)
	}
	if cfg.APIKey == "" {
		log.Warn(ctx, "no API key configured", logger.String("env", config.EnvPrefix+"API_KEY"))
	}

	return catapi.New(cfg.APIBaseURL, cfg.APIKey,
		catapi.WithTimeout(cfg.APITimeout()),
		catapi.WithMaxRetries(cfg.APIMaxRetries),
		catapi.WithBreaker(cfg.BreakerFailures, cfg.BreakerTimeout()),
		catapi.WithLogger(log.Named("catapi")),
	)
}

func mustString(fs *pflag.FlagSet, name string) string {
	v, err := fs.GetString(name)
	if err != nil {
		panic(err)
	}
	return v
}

func mustBool(fs *pflag.FlagSet, name string) bool {
	v, err := fs.GetBool(name)
	if err != nil {
		panic(err)
	}
	return v
}

func mustInt(fs *pflag.FlagSet, name string) int {
	v, err := fs.GetInt(name)
	if err != nil {
		panic(err)
	}
	return v
}
