// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the promptrec CLI: prompt
// recommendations, the prompt library, and its usage log.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/promptrec/internal/logging"
	"github.com/pdiddy/promptrec/internal/secrets"
	"github.com/pdiddy/promptrec/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the resolved configuration, populated before any subcommand runs.
	cfg types.Config

	// logger writes structured diagnostics to stderr.
	logger = zerolog.Nop()
)

// rootCmd is the base command for the promptrec CLI.
var rootCmd = &cobra.Command{
	Use:   "promptrec",
	Short: "Prompt recommendations for combo-driven deployments",
	Long: `promptrec recommends prompts for a deployment combo. It blends prompts
saved in your library, built-in starter templates, and optional suggestions
from an external model, then ranks and caches the result.

Use prompt and usage to manage the library; recommend to get suggestions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c
		logger = logging.New(cfg.Log, os.Stderr)
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug().Str("path", used).Msg("using config file")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./promptrec.yaml or ~/.config/promptrec/promptrec.yaml)")
	rootCmd.PersistentFlags().String("user", "", "acting user id (default from config)")
	rootCmd.PersistentFlags().String("db", "", "prompt library database path")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error, disabled")

	_ = viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))
	_ = viper.BindPFlag("library.db_path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	setDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("promptrec")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "promptrec"))
		}
	}

	viper.SetEnvPrefix("PROMPTREC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "warning: reading config: %v\n", err)
		}
	}
}

// setDefaults registers every config key so env overrides resolve even
// without a config file.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault("user", d.User)
	v.SetDefault("library.db_path", d.Library.DBPath)
	v.SetDefault("library.templates_file", d.Library.TemplatesFile)
	v.SetDefault("recommend.default_limit", d.Recommend.DefaultLimit)
	v.SetDefault("recommend.max_limit", d.Recommend.MaxLimit)
	v.SetDefault("recommend.pool_size", d.Recommend.PoolSize)
	v.SetDefault("recommend.cache_ttl", d.Recommend.CacheTTL)
	v.SetDefault("suggester.model", d.Suggester.Model)
	v.SetDefault("suggester.api_key", d.Suggester.APIKey)
	v.SetDefault("suggester.base_url", d.Suggester.BaseURL)
	v.SetDefault("suggester.timeout", d.Suggester.Timeout)
	v.SetDefault("suggester.breaker_failures", d.Suggester.BreakerFailures)
	v.SetDefault("suggester.breaker_cooldown", d.Suggester.BreakerCooldown)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// configFrom reads a Config out of v. Secrets fill suggester credentials
// that v leaves empty.
func configFrom(v *viper.Viper, loaded map[string]string) (types.Config, error) {
	c := types.Config{
		User: v.GetString("user"),
		Library: types.LibraryConfig{
			DBPath:        v.GetString("library.db_path"),
			TemplatesFile: v.GetString("library.templates_file"),
		},
		Recommend: types.RecommendConfig{
			DefaultLimit: v.GetInt("recommend.default_limit"),
			MaxLimit:     v.GetInt("recommend.max_limit"),
			PoolSize:     v.GetInt("recommend.pool_size"),
			CacheTTL:     v.GetDuration("recommend.cache_ttl"),
		},
		Suggester: types.SuggesterConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("suggester.timeout"),
				UserAgent: "promptrec/" + version,
			},
			AIConfig: types.AIConfig{
				Model:   v.GetString("suggester.model"),
				APIKey:  v.GetString("suggester.api_key"),
				BaseURL: v.GetString("suggester.base_url"),
			},
			BreakerFailures: v.GetUint32("suggester.breaker_failures"),
			BreakerCooldown: v.GetDuration("suggester.breaker_cooldown"),
		},
		Log: types.LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
	}
	secrets.ApplySuggester(&c.Suggester, loaded)

	if err := c.Validate(); err != nil {
		return types.Config{}, err
	}
	return c, nil
}

func loadConfig() (types.Config, error) {
	bootLogger := logging.New(types.LogConfig{Level: viper.GetString("log.level"), Format: viper.GetString("log.format")}, os.Stderr)

	loaded, err := secrets.Load(secrets.DefaultDir, bootLogger)
	if err != nil {
		return types.Config{}, err
	}
	if names := secrets.Names(loaded); len(names) > 0 {
		bootLogger.Debug().Strs("secrets", names).Msg("loaded secrets")
	}
	return configFrom(viper.GetViper(), loaded)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
