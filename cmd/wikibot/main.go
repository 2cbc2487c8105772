package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/app"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/config"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/logging"
)

type options struct {
	configPath string
	strategy   string
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "wikibot",
		Short:         "PCSX2 wiki 兼容性查询机器人",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "配置文件路径（默认读取 ./wikibot.yaml，可选）")
	pf.StringVar(&opts.strategy, "strategy", "", "解析策略：search|catalog（覆盖配置文件）")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "输出 debug 日志")

	root.AddCommand(newLookupCmd(opts), newRunCmd(opts))
	return root
}

func newLookupCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <game title...>",
		Short: "查询一个游戏并打印回复（多个游戏用 | 分隔）",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, log, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			reply, err := a.Lookup(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return report(cmd, log, "查询失败", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
}

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "从 stdin 读取 JSON Lines 消息，把回复以 JSON Lines 写到 stdout",
		Long: `每行输入是一条消息：{"id":"...","body":"..."}。
包含召唤词的消息会得到一行回复：{"id":"...","reply":"..."}。
已回复的消息 ID 记录在 answered_path，重启后不会重复回复。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, log, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if err := a.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				if cmd.Context().Err() != nil {
					log.Info("bot stopped")
					return nil
				}
				return report(cmd, log, "运行失败", err)
			}
			return nil
		},
	}
}

func setup(cmd *cobra.Command, opts *options) (*app.App, *zap.Logger, error) {
	log, err := logging.New(opts.verbose)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return nil, nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "读取当前目录失败：%v\n", err)
		return nil, nil, err
	}
	eff, err := config.LoadEffective(cwd, config.CLIArgs{
		ConfigPath:  opts.configPath,
		Strategy:    opts.strategy,
		StrategySet: cmd.Flags().Changed("strategy"),
	})
	if err != nil {
		return nil, nil, report(cmd, log, "加载配置失败", err, zap.String("error_code", config.Code(err)))
	}
	log.Debug("config loaded",
		zap.String("config", eff.ConfigPath),
		zap.String("wiki_url", eff.WikiURL),
		zap.String("strategy", eff.Strategy))

	a, err := app.New(eff, nil, log)
	if err != nil {
		return nil, nil, report(cmd, log, "初始化失败", err)
	}
	return a, log, nil
}

func report(cmd *cobra.Command, log *zap.Logger, msg string, err error, fields ...zap.Field) error {
	log.Error(msg, append(fields, zap.Error(err))...)
	fmt.Fprintf(cmd.ErrOrStderr(), "%s：%v\n", msg, err)
	return err
}
