// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the medscan CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/medivision/medscan/internal/secrets"
	"github.com/medivision/medscan/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the medscan CLI.
var rootCmd = &cobra.Command{
	Use:   "medscan",
	Short: "Medication label scanning and interpretation",
	Long: `medscan turns photographed medication labels into structured medication
records. OCR text runs through a tiered interpretation pipeline: a
known-medication table, a heuristic label scorer, the RxNav drug
database, and a terminal fallback guesser.

Each operation is a subcommand: interpret raw text, scan an image,
browse the scan history, or serve the pipeline over HTTP.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./medscan.yaml or ~/.config/medscan/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("medscan")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "medscan"))
		}
	}

	viper.SetEnvPrefix("MEDSCAN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// validatorConfig assembles validator settings from the config file.
func validatorConfig() types.ValidatorConfig {
	cfg := types.ValidatorConfig{
		Enabled:    true,
		MaxRetries: viper.GetInt("validator.max_retries"),
	}
	if viper.IsSet("validator.enabled") {
		cfg.Enabled = viper.GetBool("validator.enabled")
	}
	cfg.Timeout = viper.GetDuration("validator.timeout")
	cfg.UserAgent = viper.GetString("validator.user_agent")
	return cfg
}

// ocrConfig assembles OCR settings, preferring an explicit config value
// over the vision-api-key secret file.
func ocrConfig() types.OCRConfig {
	cfg := types.OCRConfig{
		APIKey: secretDefault("vision-api-key", viper.GetString("ocr.api_key")),
	}
	cfg.Timeout = viper.GetDuration("ocr.timeout")
	cfg.UserAgent = viper.GetString("ocr.user_agent")
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
