package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blogseo/blogseo/internal/config"
	"github.com/blogseo/blogseo/internal/history"
	"github.com/blogseo/blogseo/internal/optimizer"
	"github.com/blogseo/blogseo/internal/progress"
	"github.com/blogseo/blogseo/internal/walker"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Optimize a blog post, or every post under a directory",
	Long: `Optimizes blog post HTML for a focus keyword.

With --file the optimized HTML is written to stdout (or --out) and the score
summary to stderr. With --dir every HTML file matching the configured include
patterns is optimized and written under --out, keeping relative paths.`,
	Example: `  blogseo optimize --file post.html --keyword "running shoes" --score 40
  blogseo optimize --dir public --out optimized --keyword "running shoes" --score 40 --offline`,
	RunE: runOptimize,
}

func init() {
	optimizeCmd.Flags().StringP("keyword", "k", "", "focus keyword")
	optimizeCmd.Flags().IntP("score", "s", 0, "current SEO score of the post")
	optimizeCmd.Flags().StringP("file", "f", "", "HTML file to optimize (- for stdin)")
	optimizeCmd.Flags().String("dir", "", "directory of HTML files to optimize")
	optimizeCmd.Flags().StringP("out", "o", "", "output file (with --file) or directory (with --dir)")
	optimizeCmd.Flags().Bool("offline", false, "skip the remote API and use local heuristics only")
	optimizeCmd.Flags().Bool("no-history", false, "do not record runs in the history database")
	optimizeCmd.MarkFlagsMutuallyExclusive("file", "dir")
	optimizeCmd.MarkFlagsOneRequired("file", "dir")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	keyword, _ := cmd.Flags().GetString("keyword")
	file, _ := cmd.Flags().GetString("file")
	dir, _ := cmd.Flags().GetString("dir")
	out, _ := cmd.Flags().GetString("out")
	offline, _ := cmd.Flags().GetBool("offline")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	var score *int
	if cmd.Flags().Changed("score") {
		s, _ := cmd.Flags().GetInt("score")
		score = &s
	}

	if dir != "" && out == "" {
		return fmt.Errorf("--out is required with --dir")
	}

	var recorder optimizer.Recorder
	if !noHistory {
		database, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		recorder = history.NewStore(database)
	}
	svc := buildService(cfg, recorder, offline)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = optimizer.WithClientID(ctx, "cli")

	if file != "" {
		return optimizeFile(ctx, svc, file, out, keyword, score)
	}
	return optimizeDir(ctx, svc, cfg, dir, out, keyword, score)
}

// optimizeFile handles a single document.
func optimizeFile(ctx context.Context, svc *optimizer.Service, file, out, keyword string, score *int) error {
	html, err := readInput(file)
	if err != nil {
		return err
	}

	req := optimizer.Request{HTMLCode: html, FocusKeyword: keyword, BaselineScore: score}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%s (%w)", optimizer.ValidationNotice, err)
	}

	outcome := svc.Resolve(ctx, req)
	printSummary(os.Stderr, outcome)

	if out == "" {
		fmt.Fprintln(os.Stdout, outcome.Result.OptimizedHTML)
		return nil
	}
	if err := writeOutput(out, outcome.Result.OptimizedHTML); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Written to %s\n", out)
	return nil
}

// optimizeDir walks dir and optimizes every matching file into out.
func optimizeDir(ctx context.Context, svc *optimizer.Service, cfg *config.Config, dir, out, keyword string, score *int) error {
	// Validate once up front; per-file HTML is checked as it is read.
	probe := optimizer.Request{HTMLCode: "-", FocusKeyword: keyword, BaselineScore: score}
	if err := probe.Validate(); err != nil {
		return fmt.Errorf("%s (%w)", optimizer.ValidationNotice, err)
	}

	files, err := walker.FindHTML(dir, cfg.Include, cfg.Exclude)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", dir, err)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "No HTML files found under %s\n", dir)
		return nil
	}

	start := time.Now()
	reporter := progress.NewReporter()
	reporter.Start(len(files))

	var remote, fallback, skipped int
	for i, rel := range files {
		if ctx.Err() != nil {
			break
		}

		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return fmt.Errorf("reading %s: %w", rel, err)
		}
		req := optimizer.Request{HTMLCode: string(data), FocusKeyword: keyword, BaselineScore: score}
		if req.Validate() != nil {
			skipped++
			reporter.Update(i+1, rel+" (empty, skipped)")
			continue
		}

		outcome := svc.Resolve(ctx, req)
		if outcome.Fallback() {
			fallback++
		} else {
			remote++
		}
		if err := writeOutput(filepath.Join(out, filepath.FromSlash(rel)), outcome.Result.OptimizedHTML); err != nil {
			return err
		}
		reporter.Update(i+1, fmt.Sprintf("%s %d -> %d", rel, outcome.Result.ScoreBefore, outcome.Result.ScoreAfter))
	}
	reporter.Finish()

	fmt.Fprintf(os.Stderr, "Optimized %d files in %s (remote: %d, fallback: %d, skipped: %d)\n",
		remote+fallback, time.Since(start).Round(time.Millisecond), remote, fallback, skipped)
	return ctx.Err()
}

func printSummary(w io.Writer, outcome optimizer.Outcome) {
	res := outcome.Result
	fmt.Fprintf(w, "Score before: %d\n", res.ScoreBefore)
	fmt.Fprintf(w, "Score after:  %d\n", res.ScoreAfter)
	fmt.Fprintf(w, "Improvement:  %s\n", res.ImprovementLabel())
	if verbose {
		fmt.Fprintf(w, "Source:       %s\n", outcome.Source)
		if outcome.Reason != nil {
			fmt.Fprintf(w, "Reason:       %v\n", outcome.Reason)
		}
		if len(outcome.AppliedRules) > 0 {
			fmt.Fprintf(w, "Rules:        %v\n", outcome.AppliedRules)
		}
	}
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func writeOutput(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
