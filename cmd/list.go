package cmd

import (
	"fmt"

	"lang-visible/internal/config"
	"lang-visible/internal/repo"

	"github.com/spf13/cobra"
)

// listVerify 标志控制是否验证仓库路径的有效性。
var listVerify bool

// listCmd 实现 list 子命令，用于列出 collect 使用的仓库。
// 用法: lang-visible list [--verify]
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List added repositories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(cfg.Repos) == 0 {
			fmt.Fprintln(out, "no repositories added")
			return nil
		}

		if !listVerify {
			for _, p := range cfg.Repos {
				fmt.Fprintln(out, p)
			}
			return nil
		}

		// 验证模式：无效仓库标记 (invalid)
		_, invalid := repo.VerifyRepos(cfg.Repos)
		invalidSet := make(map[string]struct{}, len(invalid))
		for _, p := range invalid {
			invalidSet[p] = struct{}{}
		}

		for _, p := range cfg.Repos {
			if _, ok := invalidSet[p]; ok {
				fmt.Fprintf(out, "%s (invalid)\n", p)
				continue
			}
			fmt.Fprintln(out, p)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listVerify, "verify", false, "Verify repositories on disk")

	rootCmd.AddCommand(listCmd)
}
