package main

import (
	"context"
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"

	cli2 "legend-vesting/cli"
	appcfg "legend-vesting/internal/config"
	"legend-vesting/lib/vestlog"
)

// logger 全局日志记录器
var log = logging.Logger("legend-vesting")

// main 程序入口函数
func main() {
	app := &cli.App{
		Name:    "legend-vesting",
		Usage:   "LEGEND 代币归属钱包：按计划线性释放，每个受益人每个计划一个钱包",
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "TOML 配置文件路径，默认依次查找 configs/config.toml 和 config.toml",
				EnvVars: []string{"LEGEND_VESTING_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "日志级别 (DEBUG, INFO, WARN, ERROR)",
				Value: "INFO",
			},
		},

		// 加载配置并注入到 Context，子命令通过 CtxConfig 取用
		Before: func(c *cli.Context) error {
			vestlog.SetupLogLevels(c.String("log-level"))

			if err := appcfg.Load(c.String("config")); err != nil {
				return err
			}
			cfg, err := appcfg.LoadConfig()
			if err != nil {
				return err
			}

			c.Context = context.WithValue(c.Context, cli2.CtxConfig, cfg)
			return nil
		},

		Commands: cli2.All(),
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
