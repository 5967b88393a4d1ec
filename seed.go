package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file.yml>",
	Short: "Load content from a YAML file",
	Long: `Load content from a YAML file.

Projects and blog posts are upserted by slug. Other entries are created when
no row with the same name exists. With --watch the file is applied again
every time it changes, until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		s := seed.New(st)
		if watch {
			return s.Watch(cmd.Context(), args[0])
		}
		res, err := s.ApplyFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %s: %s\n", args[0], res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().Bool("watch", false, "re-apply the file whenever it changes")
}
