package content

import (
	"fmt"

	"github.com/spf13/cobra"

	"animehub/pkg/models"
)

var approveCmd = &cobra.Command{
	Use:   "approve <version-id>",
	Short: "Approve a pending submission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolve(cmd, args[0], models.VersionStatusApproved)
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject <version-id>",
	Short: "Reject a pending submission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolve(cmd, args[0], models.VersionStatusRejected)
	},
}

func resolve(cmd *cobra.Command, versionID string, decision models.VersionStatus) error {
	api, err := apiClient()
	if err != nil {
		return err
	}

	if err := api.Resolve(cmd.Context(), versionID, decision); err != nil {
		return fmt.Errorf("failed to resolve %s: %w", versionID, err)
	}

	fmt.Printf("✓ Version %s %s\n", versionID, decision)
	return nil
}

func init() {
	ContentCmd.AddCommand(approveCmd)
	ContentCmd.AddCommand(rejectCmd)
}
