package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/ghcrawl/internal/database"
	"github.com/nao1215/ghcrawl/internal/model"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [KEYWORD...]",
		Short: "List or reprint stored crawl runs",
		Long: `History reads the run database written by "ghcrawl crawl".

Without arguments every run is listed, newest first. With keywords only runs
of the same search (keywords and --type) are listed. --id reprints the
stored result of one run in any report format. --seen counts the runs that
discovered a URL.

Examples:
  # List all runs
  ghcrawl history

  # Runs that searched repositories for "nova css"
  ghcrawl history nova css

  # Reprint run 3 as Markdown
  ghcrawl history --id 3 --markdown

  # How often did a repository show up?
  ghcrawl history --seen https://github.com/alice/one`,
		Args: cobra.ArbitraryArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("type", "t", model.CategoryRepositories.String(),
		"Search category used to match keywords")
	cmd.Flags().Int64("id", 0, "Reprint the stored result of this run")
	cmd.Flags().String("seen", "", "Count the runs that discovered this URL")
	cmd.Flags().String("db-dir", "", "History database directory (default: XDG data dir)")

	cmd.Flags().BoolP("json", "j", false, "Output JSON records (default)")
	cmd.Flags().BoolP("markdown", "m", false, "Output a Markdown report")
	cmd.Flags().Bool("text", false, "Output plain text")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()

	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return err
		}
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return err
	}
	if cfg.TextReport, err = flags.GetBool("text"); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if _, err := os.Stat(filepath.Join(cfg.DBDir, database.FileName)); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
		return nil
	}

	db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if id, _ := flags.GetInt64("id"); id > 0 { //nolint:errcheck // flag is defined above
		result, err := db.GetRun(ctx, id)
		if err != nil {
			if errors.Is(err, database.ErrRunNotFound) {
				return fmt.Errorf("no run with id %d", id)
			}
			return err
		}
		return writeReport(cfg, result, out)
	}

	if seen, _ := flags.GetString("seen"); seen != "" { //nolint:errcheck // flag is defined above
		n, err := db.SeenBefore(ctx, seen)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s was found in %d run(s)\n", seen, n)
		return nil
	}

	key := ""
	if len(args) > 0 {
		typ, err := flags.GetString("type")
		if err != nil {
			return err
		}
		category, err := model.ParseCategory(typ)
		if err != nil {
			return err
		}
		key = model.NewCrawlRequest(model.SplitKeywords(args...), category, nil).Key()
	}

	runs, err := db.ListRuns(ctx, key)
	if err != nil {
		return err
	}
	printRuns(out, runs)
	return nil
}

// printRuns writes the run list as an aligned table.
func printRuns(out io.Writer, runs []database.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No matching runs.")
		return
	}

	fmt.Fprintf(out, "Stored runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-13s  %5s  %5s  %s\n", "ID", "Date", "Type", "Pages", "Items", "Keywords")
	for _, r := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %-13s  %5d  %5d  %s\n",
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Category,
			r.Pages,
			r.Items,
			model.NewCrawlRequest(r.Keywords, r.Category, nil).Query(),
		)
	}
}

