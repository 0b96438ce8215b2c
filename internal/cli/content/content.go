package content

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"animehub/internal/cli/client"
)

var ContentCmd = &cobra.Command{
	Use:   "content",
	Short: "Moderation commands",
	Long:  "Review and resolve pending content submissions",
}

// apiClient builds an authenticated client from the stored session
func apiClient() (*client.Client, error) {
	token := viper.GetString("user.token")
	if token == "" {
		return nil, fmt.Errorf("not logged in: run 'animehub auth login' first")
	}

	api := client.New(viper.GetString("server.url"))
	api.SetToken(token)
	return api, nil
}
