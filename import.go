package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import content from external sources",
}

var importNotionCmd = &cobra.Command{
	Use:   "notion",
	Short: "Sync the configured Notion databases",
	Long: `Sync the configured Notion databases.

Requires NOTION_API_KEY and at least one of NOTION_BLOG_DATABASE_ID and
NOTION_PROJECTS_DATABASE_ID. Pages are upserted by slug.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		res, err := newImporter(cfg, st, newFetcher(cfg)).Notion(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Synced %d blog posts and %d projects\n", res.Blog, res.Projects)
		return nil
	},
}

var importURLCmd = &cobra.Command{
	Use:   "url <url>",
	Short: "Import a web article as a draft blog post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		post, err := newImporter(cfg, st, newFetcher(cfg)).URL(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Imported %q as draft /blog/%s\n", post.Title, post.Slug)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.AddCommand(importNotionCmd)
	importCmd.AddCommand(importURLCmd)
}
