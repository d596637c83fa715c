package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "buildbid",
	Short: "BuildBid - 건설 입찰 마켓플레이스 백엔드",
	Long: `BuildBid Unified CLI

Companies post projects and jobs, contractors bid on them, and every
project's pending bids are ranked by a weighted price/rating/experience score.

Usage:
  go run ./cmd/buildbid [command]

Examples:
  go run ./cmd/buildbid api
  go run ./cmd/buildbid migrate
  go run ./cmd/buildbid rank --file candidates.yaml --budget 50000
  go run ./cmd/buildbid scheduler start
  go run ./cmd/buildbid test-db`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (LOG_LEVEL=debug)")
}
