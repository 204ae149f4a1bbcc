package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dep2p/go-multistream/config"
	logsetup "github.com/dep2p/go-multistream/internal/util/logger"
)

// commonFlags 各子命令共享的参数
type commonFlags struct {
	configFile *string
	logLevel   *string
	logFormat  *string
	timeout    *time.Duration
}

func registerCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		configFile: fs.String("config", "", "配置文件路径"),
		logLevel:   fs.String("log-level", "", "日志级别，如 core/host=debug,info"),
		logFormat:  fs.String("log-format", "", "日志格式 text 或 json"),
		timeout:    fs.Duration("timeout", defaultTimeout, "客户端命令的总超时"),
	}
}

// buildConfig 构建配置
//
// 配置优先级（从高到低）：
//  1. 命令行参数
//  2. 环境变量（MSS_* 前缀）
//  3. 配置文件
//  4. 默认值
func buildConfig(flags *commonFlags) (*config.Config, error) {
	cfg := config.NewConfig()
	if *flags.configFile != "" {
		loaded, err := config.LoadFile(*flags.configFile)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
		cfg = loaded
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if *flags.logLevel != "" {
		cfg.Log.Level = *flags.logLevel
	}
	if *flags.logFormat != "" {
		cfg.Log.Format = *flags.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging 按配置安装进程日志
func setupLogging(c config.LogConfig) error {
	lc, err := logsetup.ParseConfig(c.Level, c.Format)
	if err != nil {
		return fmt.Errorf("日志配置错误: %w", err)
	}
	logsetup.Setup(lc, os.Stderr)
	return nil
}
