package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/internal/scoring"
)

// rankCmd scores a candidate file offline, with no database
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "입찰 후보 랭킹 (오프라인)",
	Long: `Ranks bid candidates from a YAML file with the same scorer the API uses.

File format:
  budget_reference: 50000     # optional, --budget overrides
  candidates:
    - bid_id: 1
      amount: 49000
      contractor_rating: 4.8
      years_experience: 12
      total_projects: 30
      estimated_days: 45

Example:
  go run ./cmd/buildbid rank --file candidates.yaml --budget 50000
  go run ./cmd/buildbid rank --file - --json < candidates.yaml`,
	RunE: runRank,
}

var (
	rankFile    string
	rankBudget  float64
	rankScoring string
	rankJSON    bool
)

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringVarP(&rankFile, "file", "f", "", "candidates YAML file ('-' for stdin)")
	rankCmd.Flags().Float64Var(&rankBudget, "budget", 0, "budget reference (0 = rank by relative price)")
	rankCmd.Flags().StringVar(&rankScoring, "scoring", "", "scoring config YAML (weights, defaults, thresholds)")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "print the ranking as JSON")
	_ = rankCmd.MarkFlagRequired("file")
}

// candidateFile is the YAML input of the rank command
type candidateFile struct {
	BudgetReference *float64              `yaml:"budget_reference"`
	Candidates      []contracts.BidSignal `yaml:"candidates"`
}

func runRank(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if rankFile != "-" {
		f, err := os.Open(rankFile)
		if err != nil {
			return fmt.Errorf("open candidates: %w", err)
		}
		defer f.Close()
		r = f
	}

	var in candidateFile
	if err := yaml.NewDecoder(r).Decode(&in); err != nil {
		return fmt.Errorf("parse candidates: %w", err)
	}

	seen := make(map[int64]bool, len(in.Candidates))
	for _, c := range in.Candidates {
		if seen[c.BidID] {
			return fmt.Errorf("duplicate bid_id %d", c.BidID)
		}
		seen[c.BidID] = true
	}

	budget := rankBudget
	if !cmd.Flags().Changed("budget") && in.BudgetReference != nil {
		budget = *in.BudgetReference
	}

	cfg, err := scoring.LoadOrDefault(rankScoring)
	if err != nil {
		return fmt.Errorf("load scoring config: %w", err)
	}
	scorer, err := scoring.NewScorer(*cfg)
	if err != nil {
		return err
	}

	ranking := scorer.Rank(budget, in.Candidates)

	if rankJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ranking)
	}

	printRanking(budget, ranking)
	return nil
}

func printRanking(budget float64, ranking contracts.Ranking) {
	PrintDoubleSeparator()
	fmt.Printf("  Bid Ranking (budget %s, config %s)\n", formatBudget(budget), ranking.ConfigHash[:12])
	PrintSeparator()

	widths := []int{8, 8, 8, 8, 8, 8, 6}
	PrintTableHeader([]string{"Bid", "Score", "Price", "Rating", "Exp", "Risk", "Top"}, widths)
	for _, rec := range ranking.Recommendations {
		top := ""
		if ranking.TopRecommendationBidID != nil && *ranking.TopRecommendationBidID == rec.BidID {
			top = "★"
		}
		PrintTableRow([]string{
			strconv.FormatInt(rec.BidID, 10),
			fmt.Sprintf("%.2f", rec.Score),
			fmt.Sprintf("%.2f", rec.PriceScore),
			fmt.Sprintf("%.2f", rec.RatingScore),
			fmt.Sprintf("%.2f", rec.ExperienceScore),
			string(rec.RiskLevel),
			top,
		}, widths)
		if verbose {
			PrintList(rec.Reasons)
		}
	}

	for id, reason := range ranking.Excluded {
		PrintWarning(fmt.Sprintf("bid %d excluded: %s", id, reason))
	}
}

func formatBudget(budget float64) string {
	if budget <= 0 {
		return "none"
	}
	return strconv.FormatFloat(budget, 'f', 2, 64)
}
