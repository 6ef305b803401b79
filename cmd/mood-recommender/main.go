// Command mood-recommender serves song recommendations by mood tag and
// emotion coordinates.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/justestif/go-mood-recommender/internal/config"
	"github.com/justestif/go-mood-recommender/internal/logging"
)

var (
	configPath string
	cfg        *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mood-recommender",
	Short: "Recommend songs by mood tag and emotion",
	Long: `mood-recommender ranks songs from an emotion-tagged corpus by tag match
and distance in valence/arousal/dominance space.

Configuration is read from defaults, then config.yaml (or --config), then
the environment.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			if err := os.Setenv(config.ConfigPathEnvVar, configPath); err != nil {
				return err
			}
		}

		c, err := config.Load()
		if err != nil {
			return err
		}
		logging.Init(logging.Config{
			Level:  c.Logging.Level,
			Format: c.Logging.Format,
		})
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")

	ingestCmd.Flags().BoolVar(&forceIngest, "force", false, "Replace a corpus that is already populated")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(loadWordNetCmd)
	rootCmd.AddCommand(moodsCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
