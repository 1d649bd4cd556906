package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/collabhub/network/internal/core/ports"
	"github.com/collabhub/network/internal/infrastructure/db/kvstore"
)

var (
	// match flags
	matchQuery   string
	matchLimit   int
	matchPersist bool
)

func init() {
	matchCmd.Flags().StringVar(&matchQuery, "query", "", "substring filter on candidates")
	matchCmd.Flags().IntVar(&matchLimit, "limit", 0, "candidates examined (0 uses SEARCH_DEFAULT_LIMIT)")
	matchCmd.Flags().BoolVar(&matchPersist, "persist", false, "write the scores to the match cache")
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Evict secondary index entries that point at missing entities",
	Long: `Walk every secondary and unique index once and remove members whose
entity no longer exists. Safe to run while the API is serving and safe to
repeat.`,
	Args: cobra.NoArgs,
	RunE: runReconcile,
}

var matchCmd = &cobra.Command{
	Use:   "match <userId>",
	Short: "Rank candidate collaborators for a user",
	Long: `Score the users returned by a search against the given user and print
the ranking as JSON.

Examples:
  networkd match alice
  networkd match alice --query rust --limit 50 --persist`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func runReconcile(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.shutdown()

	report, err := a.reconciler.Reconcile(cmd.Context())
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}
	a.log.Info().
		Int("partitions", report.PartitionsScanned).
		Int("members", report.MembersChecked).
		Int("evicted", report.Total()).
		Msg("index reconcile finished")
	return printJSON(report)
}

func runMatch(cmd *cobra.Command, args []string) error {
	if matchLimit < 0 || matchLimit > kvstore.MaxSearchLimit {
		return fmt.Errorf("--limit must be between 0 and %d", kvstore.MaxSearchLimit)
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.shutdown()

	scores, err := a.matches.FindMatches(cmd.Context(), ports.FindMatchesInput{
		SubjectID: args[0],
		Query:     matchQuery,
		Limit:     matchLimit,
		Persist:   matchPersist,
	})
	if err != nil {
		return err
	}
	return printJSON(scores)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
