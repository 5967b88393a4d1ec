// Command portfolio serves the portfolio site and its admin dashboard. The
// other subcommands manage the database behind it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/fetch"
	"github.com/Zachkp/portfolio/internal/importer"
	"github.com/Zachkp/portfolio/internal/store"
	"github.com/Zachkp/portfolio/internal/store/gormstore"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio site with a role-gated admin dashboard",
	Long: `Portfolio site with a role-gated admin dashboard.

Settings come from the environment. A dotenv file is read first when present
(see --env-file).

Example:
  portfolio migrate up
  portfolio user create --email me@example.com --password '...' --role admin
  portfolio serve`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(envFile)
}

// openStore connects to the content database. The returned func closes the
// connection pool.
func openStore(cfg *config.Config) (*store.Store, func(), error) {
	if err := cfg.ValidateDatabase(); err != nil {
		return nil, nil, err
	}
	gdb, err := gormstore.Open(cfg.DatabaseURL, cfg.Debug())
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to get sql.DB: %w", err)
	}
	return gormstore.New(gdb), func() { _ = sqlDB.Close() }, nil
}

func newFetcher(cfg *config.Config) *fetch.Fetcher {
	return fetch.New(cfg.FetchTimeout, cfg.MaxFetchBytes)
}

// newImporter wires the Notion client only when an API key is configured;
// without one Notion syncs fail with importer.ErrMissingKey.
func newImporter(cfg *config.Config, st *store.Store, f *fetch.Fetcher) *importer.Importer {
	var notion *importer.NotionClient
	if cfg.Notion.APIKey != "" {
		notion = importer.NewNotionClient(cfg.Notion.APIKey, cfg.Notion.BaseURL, cfg.FetchTimeout)
	}
	return importer.New(st.Projects, st.BlogPosts, cfg.Notion, notion, f)
}
