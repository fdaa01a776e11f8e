package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tendant/researchlog/pkg/researchlog"
	"github.com/tendant/researchlog/pkg/researchlog/config"
)

// serviceFactory builds the service a command runs against.
type serviceFactory func() (researchlog.Service, error)

type cli struct {
	build   serviceFactory
	useJSON bool
}

func newRootCmd(build serviceFactory) *cobra.Command {
	c := &cli{build: build}

	root := &cobra.Command{
		Use:   "admin",
		Short: "Research log admin CLI",
		Long: `A maintenance tool that works directly against the research log storage.

Configuration is read from the environment, and from a .env file in the
current directory if present. Run "admin env" to list the variables.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&c.useJSON, "json", false, "output as JSON")

	root.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List articles, newest first",
			Args:  cobra.NoArgs,
			RunE:  c.runList,
		},
		&cobra.Command{
			Use:   "show [article-id]",
			Short: "Print an article",
			Args:  cobra.ExactArgs(1),
			RunE:  c.runShow,
		},
		&cobra.Command{
			Use:   "delete [article-id]",
			Short: "Delete an article and the assets it references",
			Args:  cobra.ExactArgs(1),
			RunE:  c.runDelete,
		},
		&cobra.Command{
			Use:   "refs [article-id]",
			Short: "List the asset files an article references",
			Long:  `Prints the asset names that deleting the article would remove. Nothing is modified.`,
			Args:  cobra.ExactArgs(1),
			RunE:  c.runRefs,
		},
		&cobra.Command{
			Use:   "upload [path]",
			Short: "Upload a local file as an asset",
			Args:  cobra.ExactArgs(1),
			RunE:  c.runUpload,
		},
		&cobra.Command{
			Use:   "env",
			Short: "Describe the environment variables",
			Args:  cobra.NoArgs,
			RunE:  runEnv,
		},
	)

	return root
}

func (c *cli) service() (researchlog.Service, error) {
	svc, err := c.build()
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return svc, nil
}

func (c *cli) printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func (c *cli) runList(cmd *cobra.Command, _ []string) error {
	svc, err := c.service()
	if err != nil {
		return err
	}

	summaries, err := svc.ListArticles(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list articles: %w", err)
	}

	// The store returns no particular order.
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Date > summaries[j].Date
	})

	if c.useJSON {
		return c.printJSON(cmd, summaries)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tYEAR\tMONTH\tTITLE\n")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, dash(s.Year), dash(s.Month), truncate(s.Title, 50))
	}
	w.Flush()

	cmd.Printf("\nTotal: %d\n", len(summaries))
	return nil
}

func (c *cli) runShow(cmd *cobra.Command, args []string) error {
	svc, err := c.service()
	if err != nil {
		return err
	}

	article, err := svc.GetArticle(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get article: %w", err)
	}

	if c.useJSON {
		return c.printJSON(cmd, article)
	}

	cmd.Printf("ID:    %s\n", article.ID)
	cmd.Printf("Title: %s\n", article.Title)
	cmd.Printf("Date:  %s\n", article.Date)
	cmd.Println()
	cmd.Println(article.Content)
	return nil
}

func (c *cli) runDelete(cmd *cobra.Command, args []string) error {
	svc, err := c.service()
	if err != nil {
		return err
	}

	report, err := svc.DeleteArticle(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}

	if c.useJSON {
		failed := make([]map[string]string, 0, len(report.Failed))
		for _, f := range report.Failed {
			failed = append(failed, map[string]string{"fileName": f.FileName, "error": f.Err.Error()})
		}
		return c.printJSON(cmd, map[string]any{
			"articleId": report.ArticleID,
			"removed":   nonNil(report.Removed),
			"failed":    failed,
		})
	}

	cmd.Printf("Deleted article %s\n", report.ArticleID)
	for _, name := range report.Removed {
		cmd.Printf("  removed  %s\n", name)
	}
	for _, f := range report.Failed {
		cmd.Printf("  failed   %s: %v\n", f.FileName, f.Err)
	}
	return nil
}

func (c *cli) runRefs(cmd *cobra.Command, args []string) error {
	svc, err := c.service()
	if err != nil {
		return err
	}

	names, err := svc.ArticleReferences(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to read references: %w", err)
	}

	if c.useJSON {
		return c.printJSON(cmd, nonNil(names))
	}

	if len(names) == 0 {
		cmd.Println("No asset references.")
		return nil
	}
	for _, name := range names {
		cmd.Println(name)
	}
	return nil
}

func (c *cli) runUpload(cmd *cobra.Command, args []string) error {
	svc, err := c.service()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	asset, err := svc.StoreAsset(context.Background(), filepath.Base(args[0]), f)
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}

	if c.useJSON {
		return c.printJSON(cmd, asset)
	}

	cmd.Printf("Stored %s\n", asset.FileName)
	cmd.Printf("URL:   %s\n", asset.URL)
	return nil
}

func runEnv(cmd *cobra.Command, _ []string) error {
	usage, err := config.EnvUsage()
	if err != nil {
		return err
	}
	cmd.Println(usage)
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
