package cmd

import (
	"encoding/json"

	"github.com/nfrund/gridsky/internal/auth"
	"github.com/nfrund/gridsky/internal/config"
	"github.com/spf13/cobra"
)

var clientMetadataCmd = &cobra.Command{
	Use:   "client-metadata",
	Short: "Print the OAuth client-metadata document",
	Long: `Prints the client-metadata document for the configured environment. In
production it must be reachable at APP_BASE_URL/oauth/client-metadata.json,
which "gridsky serve" also serves.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}

		clientConfig := auth.NewClientConfig(cfg)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(clientConfig.ClientMetadata())
	},
}

func init() {
	rootCmd.AddCommand(clientMetadataCmd)
}
