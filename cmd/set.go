package cmd

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"lang-visible/internal/chart"
	"lang-visible/internal/config"
	"lang-visible/internal/dataset"

	"github.com/spf13/cobra"
)

// setCmd 实现 set 子命令，用于查看或修改默认配置。
// 支持两种模式：
// 1. lang-visible set - 显示当前配置
// 2. lang-visible set <key> <value> - 设置配置项
var setCmd = newSetCmd()

// setKeys 是 set 支持的配置项。
var setKeys = []string{"event", "data_dir", "top", "visible", "view", "strict"}

// newSetCmd 构建 set 命令，便于在测试中复用。
func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set or show default configuration",
		Long: `View or modify default configuration.

Without arguments, displays the current configuration.
With key/value, sets the specified option.
Use "set color" to override the color of a language.`,
		Example: `  lang-visible set
  lang-visible set event stars
  lang-visible set visible 10
  lang-visible set color Go "#00ADD8"
  lang-visible set color remove Go`,
		Args: validateSetArgs,
		RunE: runSet,
	}
	cmd.AddCommand(newSetColorCmd())
	return cmd
}

// validateSetArgs 校验 set 顶层参数格式。
func validateSetArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("usage: lang-visible set [%s] <value>", strings.Join(setKeys, "|"))
	}
	return nil
}

// runSet 显示配置，或设置单个配置项。
func runSet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "event: %s\ndata_dir: %s\ntop: %d\nvisible: %d\nview: %s\nstrict: %t\n",
			cfg.Event, cfg.DataDir, cfg.Top, cfg.Visible, cfg.View, cfg.Strict)
		printColors(out, cfg.Colors, "colors: (none)")
		return nil
	}

	key := args[0]
	val := strings.TrimSpace(args[1])

	switch key {
	case "event":
		e, err := dataset.ParseEvent(val)
		if err != nil {
			return err
		}
		cfg.Event = string(e)
	case "data_dir":
		if val == "" {
			return fmt.Errorf("data_dir cannot be empty")
		}
		cfg.DataDir = val
	case "top", "visible":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, val, err)
		}
		if key == "top" {
			cfg.Top = n
		} else {
			cfg.Visible = n
		}
	case "view":
		v, ok := chart.ParseView(strings.ToLower(val))
		if !ok {
			return fmt.Errorf("unsupported view %q (supported: percentage, count)", val)
		}
		cfg.View = string(v)
	case "strict":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid strict %q: %w", val, err)
		}
		cfg.Strict = b
	default:
		return fmt.Errorf("unsupported key %q (supported: %s)", key, strings.Join(setKeys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	return config.Save(*cfg)
}

// newSetColorCmd 构建 color 子命令组。
func newSetColorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "color [language] [#rrggbb]",
		Short: "Override or list language colors",
		Long: `Override the chart color of a language.

Without arguments, lists the configured overrides.
Overrides take precedence over the built-in palette; language names are
matched case-insensitively.`,
		Example: `  lang-visible set color Go "#00ADD8"
  lang-visible set color
  lang-visible set color remove Go`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("usage: lang-visible set color <language> <#rrggbb>")
			}
			return nil
		},
		RunE: runSetColor,
	}
	cmd.AddCommand(&cobra.Command{
		Use:     "remove <language>",
		Short:   "Remove a color override",
		Example: `  lang-visible set color remove Go`,
		Args:    cobra.ExactArgs(1),
		RunE:    runSetColorRemove,
	})
	return cmd
}

// runSetColor 列出或设置颜色覆盖。
func runSetColor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		printColors(cmd.OutOrStdout(), cfg.Colors, "No colors configured")
		return nil
	}

	name := strings.TrimSpace(args[0])
	color := strings.TrimSpace(args[1])
	if name == "" {
		return fmt.Errorf("language cannot be empty")
	}
	if !chart.IsHexColor(color) {
		return fmt.Errorf("invalid color %q: must be #rrggbb", color)
	}

	if cfg.Colors == nil {
		cfg.Colors = make(map[string]string)
	}
	deleteColor(cfg.Colors, name)
	cfg.Colors[strings.ToLower(name)] = color

	if err := config.Save(*cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "color of %q set to %s\n", name, color)
	return nil
}

// runSetColorRemove 删除颜色覆盖。
func runSetColorRemove(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("language cannot be empty")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !deleteColor(cfg.Colors, name) {
		return fmt.Errorf("no color configured for %q", name)
	}

	if err := config.Save(*cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "color of %q removed\n", name)
	return nil
}

// deleteColor 按名称删除颜色（大小写不敏感），返回是否删除了。
func deleteColor(colors map[string]string, name string) bool {
	removed := false
	for k := range colors {
		if strings.EqualFold(k, name) {
			delete(colors, k)
			removed = true
		}
	}
	return removed
}

// printColors 按语言名排序输出颜色覆盖。
func printColors(out io.Writer, colors map[string]string, emptyMsg string) {
	if len(colors) == 0 {
		fmt.Fprintln(out, emptyMsg)
		return
	}

	names := make([]string, 0, len(colors))
	for name := range colors {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(out, "colors:")
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %s\n", name, colors[name])
	}
}

// init 注册 set 命令。
func init() {
	rootCmd.AddCommand(setCmd)
}
