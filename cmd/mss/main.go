// Package main 提供 mss 命令行入口
//
// 子命令：
//
//	mss serve  [-config file] [-listen addr] [-metrics addr] [-log-level lvl]
//	mss select -addr host:port proto...
//	mss ls     -addr host:port
//	mss ping   -addr host:port [-count n]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	multistream "github.com/dep2p/go-multistream"
	"github.com/dep2p/go-multistream/pkg/lib/log"
)

var logger = log.Logger("mss/cmd")

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			printHelp(os.Stderr)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "serve":
		return runServe(args[1:], out)
	case "select":
		return runSelect(args[1:], out)
	case "ls":
		return runLs(args[1:], out)
	case "ping":
		return runPing(args[1:], out)
	case "version", "-version", "--version":
		fmt.Fprintln(out, multistream.VersionInfo())
		return nil
	case "help", "-h", "-help", "--help":
		printHelp(out)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// serve
// ═══════════════════════════════════════════════════════════════════════════

func runServe(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	flags := registerCommonFlags(fs)
	listen := fs.String("listen", "", "监听地址（覆盖配置文件）")
	metricsAddr := fs.String("metrics", "", "/metrics 监听地址")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := buildConfig(flags)
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}
	if *listen != "" {
		cfg.Transport.ListenAddrs = []string{*listen}
	}
	if *metricsAddr != "" {
		cfg.Metrics.Enable = true
		cfg.Metrics.ListenAddr = *metricsAddr
	}
	if err := setupLogging(cfg.Log); err != nil {
		return err
	}

	logger.Info("启动 mss 节点", "version", multistream.Version, "commit", multistream.GitCommit)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	node, err := multistream.Start(ctx, multistream.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	defer func() { _ = node.Close() }()

	fmt.Fprintf(out, "📦 %s\n", multistream.VersionInfo())
	for _, addr := range node.Addrs() {
		fmt.Fprintf(out, "监听: %s\n", addr)
	}
	for _, p := range node.Protocols() {
		fmt.Fprintf(out, "协议: %s\n", p)
	}
	fmt.Fprintln(out, "节点已启动，按 Ctrl+C 退出")

	waitForSignal()
	fmt.Fprintln(out, "\n正在关闭节点...")
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// select / ls / ping
// ═══════════════════════════════════════════════════════════════════════════

func runSelect(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("select", flag.ContinueOnError)
	flags := registerCommonFlags(fs)
	addr := fs.String("addr", "", "远端地址 host:port")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *addr == "" || fs.NArg() == 0 {
		return fmt.Errorf("%w: select requires -addr and at least one protocol", errUsage)
	}

	return withClient(flags, func(ctx context.Context, node *multistream.Node) error {
		s, err := node.NewStream(ctx, *addr, fs.Args()...)
		if err != nil {
			return err
		}
		defer s.Close()
		fmt.Fprintln(out, s.Protocol())
		return nil
	})
}

func runLs(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	flags := registerCommonFlags(fs)
	addr := fs.String("addr", "", "远端地址 host:port")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *addr == "" {
		return fmt.Errorf("%w: ls requires -addr", errUsage)
	}

	return withClient(flags, func(ctx context.Context, node *multistream.Node) error {
		protos, err := node.ListProtocols(ctx, *addr)
		if err != nil {
			return err
		}
		for _, p := range protos {
			fmt.Fprintln(out, p)
		}
		return nil
	})
}

func runPing(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("ping", flag.ContinueOnError)
	flags := registerCommonFlags(fs)
	addr := fs.String("addr", "", "远端地址 host:port")
	count := fs.Int("count", 3, "发送次数")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *addr == "" || *count <= 0 {
		return fmt.Errorf("%w: ping requires -addr and a positive -count", errUsage)
	}

	return withClient(flags, func(ctx context.Context, node *multistream.Node) error {
		for i := 0; i < *count; i++ {
			rtt, err := node.Ping(ctx, *addr)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "seq=%d rtt=%s\n", i+1, rtt)
		}
		return nil
	})
}

// withClient 启动不监听的节点并执行 fn
func withClient(flags *commonFlags, fn func(context.Context, *multistream.Node) error) error {
	cfg, err := buildConfig(flags)
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}
	cfg.Transport.ListenAddrs = nil
	cfg.Metrics.Enable = false
	if err := setupLogging(cfg.Log); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *flags.timeout)
	defer cancel()

	node, err := multistream.Start(ctx, multistream.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	defer func() { _ = node.Close() }()

	return fn(ctx, node)
}

// waitForSignal 等待退出信号
func waitForSignal() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, `%s

用法:
  mss serve  [-config file] [-listen addr] [-metrics addr] [-log-level lvl]
  mss select -addr host:port proto...
  mss ls     -addr host:port
  mss ping   -addr host:port [-count n]
  mss version

环境变量:
  MSS_LISTEN_ADDR, MSS_METRICS_ADDR, MSS_LOG_LEVEL, MSS_LOG_FORMAT, MSS_HANDSHAKE_TIMEOUT

默认超时 %s
`, multistream.VersionInfo(), defaultTimeout)
}

const defaultTimeout = 10 * time.Second
