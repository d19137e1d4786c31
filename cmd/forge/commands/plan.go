package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.trai.ch/forge/internal/app"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan the build for the package graph in the working directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, _ := cmd.Flags().GetString("cwd")
			if cwd == "" {
				var err error
				cwd, err = os.Getwd()
				if err != nil {
					return err
				}
			}
			triple, _ := cmd.Flags().GetString("triple")
			configuration, _ := cmd.Flags().GetString("configuration")
			dataPath, _ := cmd.Flags().GetString("data-path")
			jobs, _ := cmd.Flags().GetInt("jobs")

			summary, err := c.app.Plan(cmd.Context(), app.PlanRequest{
				WorkingDir:    cwd,
				Triple:        triple,
				Configuration: configuration,
				DataPath:      dataPath,
				Jobs:          jobs,
			})
			if err != nil {
				return err
			}

			fmt.Printf("tools:    %s (%s)\n", summary.Tools.ManifestPath, summary.Tools.State)
			fmt.Printf("products: %s (%s)\n", summary.Products.ManifestPath, summary.Products.State)
			return nil
		},
	}
	cmd.Flags().String("cwd", "", "Working directory holding the graph document")
	cmd.Flags().String("triple", "", "Destination triple (defaults to the host)")
	cmd.Flags().StringP("configuration", "c", "debug", "Build configuration (debug or release)")
	cmd.Flags().String("data-path", "", "Scratch directory root (defaults to .forge)")
	cmd.Flags().IntP("jobs", "j", 0, "Bound batch-mode compiler parallelism")
	return cmd
}
