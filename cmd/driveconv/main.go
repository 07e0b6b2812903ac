// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the driveconv CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/driveconv/internal/drive"
	"github.com/pdiddy/driveconv/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command. Running it with no arguments converts the
// configured input directory; watch mode comes from configuration, not a
// flag. Paths given as arguments are converted instead of the scan.
var rootCmd = &cobra.Command{
	Use:   "driveconv [files...]",
	Short: "Convert office documents to PDF through Google Drive",
	Long: `driveconv uploads office documents (doc, docx, ppt, pptx) to Google
Drive in their Workspace-native format, which converts them server-side,
then exports each stored document as PDF, downloads it, and deletes the
remote copy.

With no arguments it scans the configured input directory once, or watches
it for new documents when watch_mode is set. Explicit file arguments are
converted instead.`,
	Args: cobra.ArbitraryArgs,
	RunE: runRoot,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./driveconv.yaml or ~/.config/driveconv/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("driveconv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "driveconv"))
		}
	}

	viper.SetEnvPrefix("DRIVECONV")
	viper.AutomaticEnv()

	viper.SetDefault("input_dir", ".")
	viper.SetDefault("output_dir", ".")
	viper.SetDefault("credentials_path", "credentials.json")
	viper.SetDefault("token_path", "token.json")
	viper.SetDefault("remote_folder", drive.DefaultFolderName)
	viper.SetDefault("watch_mode", false)
	viper.SetDefault("source_disposal", string(types.DisposalKeep))
	viper.SetDefault("timeout", "60s")
	viper.SetDefault("max_retries", 3)
	viper.SetDefault("history_db", "driveconv.db")
	viper.SetDefault("history_max_results", 20)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig materializes the viper state into the typed configuration.
func loadConfig() types.Config {
	return types.Config{
		Drive: types.DriveConfig{
			CredentialsPath: viper.GetString("credentials_path"),
			TokenPath:       viper.GetString("token_path"),
			RemoteFolder:    viper.GetString("remote_folder"),
			Timeout:         viper.GetDuration("timeout"),
			MaxRetries:      viper.GetInt("max_retries"),
		},
		Pipeline: types.PipelineConfig{
			InputDir:       viper.GetString("input_dir"),
			OutputDir:      viper.GetString("output_dir"),
			WatchMode:      viper.GetBool("watch_mode"),
			SourceDisposal: types.SourceDisposal(viper.GetString("source_disposal")),
		},
		History: types.HistoryConfig{
			DBPath:     viper.GetString("history_db"),
			MaxResults: viper.GetInt("history_max_results"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
