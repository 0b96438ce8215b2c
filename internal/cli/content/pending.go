package content

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List pending content submissions",
	Long:  "Show the moderation queue, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		api, err := apiClient()
		if err != nil {
			return err
		}

		versions, err := api.PendingContent(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("failed to fetch moderation queue: %w", err)
		}

		if len(versions) == 0 {
			fmt.Println("No pending submissions.")
			return nil
		}

		fmt.Printf("Pending submissions (%d):\n\n", len(versions))
		for _, v := range versions {
			fmt.Printf("%s\n", v.ID)
			fmt.Printf("  %s %d · %s · %s\n", v.EntityType, v.EntityID, v.ContentType, v.Language)
			fmt.Printf("  By: %s at %s\n", v.SubmitterName, v.CreatedAt.Format("2006-01-02 15:04"))
			content := v.Content
			if len(content) > 120 {
				content = content[:120] + "..."
			}
			fmt.Printf("  %s\n\n", content)
		}
		return nil
	},
}

func init() {
	pendingCmd.Flags().Int("limit", 20, "Maximum submissions to list")
	ContentCmd.AddCommand(pendingCmd)
}
