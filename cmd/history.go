package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/blogseo/blogseo/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded optimization runs",
	Long:  `Lists recent optimization runs from the history database, newest first.`,
	RunE:  runHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than a given age",
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.Flags().String("source", "", "filter by source (remote or fallback)")
	historyCmd.Flags().String("keyword", "", "filter by focus keyword substring")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to show")
	historyCmd.Flags().Bool("stats", false, "show aggregate statistics instead of runs")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	historyPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "delete runs older than this")
	historyCmd.AddCommand(historyPruneCmd)

	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*history.Store, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	database, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return history.NewStore(database), func() { database.Close() }, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, closeDB, err := openHistory()
	if err != nil {
		return err
	}
	defer closeDB()

	ctx := context.Background()
	asJSON, _ := cmd.Flags().GetBool("json")

	if showStats, _ := cmd.Flags().GetBool("stats"); showStats {
		st, err := store.Stats(ctx)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(st)
		}
		fmt.Printf("Total runs:          %d\n", st.Total)
		fmt.Printf("Remote:              %d\n", st.Remote)
		fmt.Printf("Fallback:            %d\n", st.Fallback)
		fmt.Printf("Average improvement: %.1f\n", st.AverageImprovement)
		return nil
	}

	source, _ := cmd.Flags().GetString("source")
	keyword, _ := cmd.Flags().GetString("keyword")
	limit, _ := cmd.Flags().GetInt("limit")

	runs, err := store.Query(ctx, history.QueryFilter{Source: source, Keyword: keyword, Limit: limit})
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(runs)
	}
	if len(runs) == 0 {
		fmt.Println("No optimization runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tSOURCE\tKEYWORD\tBEFORE\tAFTER\tIMPROVEMENT\tDURATION\tREASON")
	for _, r := range runs {
		keyword := r.FocusKeyword
		if len(keyword) > 30 {
			keyword = keyword[:27] + "..."
		}
		reason := r.Reason
		if reason == "" {
			reason = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%dms\t%s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Source, keyword,
			r.ScoreBefore, r.ScoreAfter, r.Improvement, r.DurationMS, reason)
	}
	return w.Flush()
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	store, closeDB, err := openHistory()
	if err != nil {
		return err
	}
	defer closeDB()

	age, _ := cmd.Flags().GetDuration("older-than")
	n, err := store.DeleteBefore(context.Background(), time.Now().Add(-age))
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d runs older than %s\n", n, age)
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
