package cmd

import (
	"fmt"

	"lang-visible/internal/config"
	"lang-visible/internal/repo"

	"github.com/spf13/cobra"
)

var removeInvalid bool

var removeCmd = &cobra.Command{
	Use:   "remove [path]",
	Short: "Remove a repository",
	Args: func(cmd *cobra.Command, args []string) error {
		if removeInvalid {
			if len(args) != 0 {
				return fmt.Errorf("usage: lang-visible remove --invalid")
			}
			return nil
		}
		if len(args) != 1 {
			return fmt.Errorf("usage: lang-visible remove <path>")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		targets := args
		if removeInvalid {
			_, targets = repo.VerifyRepos(cfg.Repos)
			if len(targets) == 0 {
				fmt.Fprintln(out, "no invalid repositories")
				return nil
			}
		}

		for _, p := range targets {
			removed, err := repo.RemoveRepo(cfg, p)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("repository %q not found", p)
			}
		}
		if err := config.Save(*cfg); err != nil {
			return err
		}

		for _, p := range targets {
			fmt.Fprintln(out, p)
		}
		if removeInvalid {
			fmt.Fprintf(out, "removed %d repositories\n", len(targets))
		}
		return nil
	},
}

func init() {
	removeCmd.Flags().BoolVar(&removeInvalid, "invalid", false, "Remove all invalid repositories")
	rootCmd.AddCommand(removeCmd)
}
