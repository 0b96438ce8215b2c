package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"animehub/internal/cli/client"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to AnimeHub",
	Long:  "Authenticate with your username and password. The session token is stored in the CLI config file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")

		if username == "" {
			fmt.Print("Username: ")
			fmt.Scanln(&username)
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		api := client.New(viper.GetString("server.url"))
		login, err := api.Login(cmd.Context(), username, string(password))
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to resolve home directory: %w", err)
		}
		configDir := filepath.Join(home, ".animehub")
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		viper.Set("user.username", username)
		viper.Set("user.id", login.User.ID)
		viper.Set("user.token", login.Token)
		if err := viper.WriteConfigAs(filepath.Join(configDir, "config.yaml")); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Println("✓ Login successful!")
		fmt.Printf("  Welcome back, %s!\n", username)
		fmt.Printf("  Token saved to: %s\n", filepath.Join(configDir, "config.yaml"))
		return nil
	},
}

func init() {
	loginCmd.Flags().String("username", "", "Username")
	AuthCmd.AddCommand(loginCmd)
}
