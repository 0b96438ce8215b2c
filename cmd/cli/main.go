package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	authCmd "animehub/internal/cli/auth"
	configCmd "animehub/internal/cli/config"
	contentCmd "animehub/internal/cli/content"
)

var rootCmd = &cobra.Command{
	Use:   "animehub",
	Short: "AnimeHub operator CLI",
	Long:  "Moderate community content submissions against a running AnimeHub server",
}

func initConfig() {
	viper.SetDefault("server.url", "http://localhost:8080")

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}

	viper.SetConfigFile(filepath.Join(home, ".animehub", "config.yaml"))
	viper.SetConfigType("yaml")
	_ = viper.ReadInConfig() // Missing config is fine, login creates it
}

func main() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(authCmd.AuthCmd)
	rootCmd.AddCommand(contentCmd.ContentCmd)
	rootCmd.AddCommand(configCmd.ConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
