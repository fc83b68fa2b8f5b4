package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"lang-visible/internal/collect"
	"lang-visible/internal/config"
	"lang-visible/internal/dataset"
)

var (
	collectOutput  string
	collectEmails  []string
	collectNoCache bool
)

// collectCmd 从已添加的本地仓库生成 commits 数据集。
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Build the commits dataset from added repositories",
	Long: `Walk the history of every added repository and count, for each quarter,
the commits touching files of each language. The result is written as the
"commits" dataset and can be charted with "lang-visible chart --event commits".`,
	Args: cobra.NoArgs,
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().StringVarP(&collectOutput, "output", "o", "", "Output file (default: <data_dir>/commits.json)")
	collectCmd.Flags().StringArrayVar(&collectEmails, "email", nil, "Only count commits by this author email (repeatable)")
	collectCmd.Flags().BoolVar(&collectNoCache, "no-cache", false, "Walk every repository even if its HEAD has not moved")

	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if len(cfg.Repos) == 0 {
		return errNoRepositoriesAdded
	}

	emails := make([]string, 0, len(collectEmails))
	for _, email := range collectEmails {
		if email = strings.TrimSpace(email); email != "" {
			emails = append(emails, email)
		}
	}

	counts, collectErr := collect.Collect(cfg.Repos, emails, collect.Options{UseCache: !collectNoCache})
	if counts == nil {
		return collectErr
	}
	if collectErr != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", collectErr)
	}

	path := strings.TrimSpace(collectOutput)
	if path == "" {
		path = filepath.Join(cfg.DataDir, string(dataset.EventCommits)+".json")
	}

	rows := counts.Rows()
	if err := dataset.Save(path, rows); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"repos":     len(cfg.Repos),
		"languages": len(counts),
	}).Debug("collected")
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", len(rows), path)
	return nil
}
