package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"legend-vesting/internal/chain/types"
	"legend-vesting/internal/state"
	"legend-vesting/internal/wallet"
)

// InitCmd 部署代币、计划表和钱包工厂
// 全部发行量归 owner 所有，只能执行一次
var InitCmd = &cli.Command{
	Name:  "init",
	Usage: "部署 LEGEND 代币、归属计划表和钱包工厂",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "owner",
			Usage:    "代币与工厂的 owner，接收全部发行量",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:  "start",
			Usage: "归属起始时间（unix 秒），默认为当前时间加配置的 StartOffset",
		},
	},
	Action: func(cctx *cli.Context) error {
		owner, err := parseAddress(cctx.String("owner"), "owner")
		if err != nil {
			return err
		}
		if cctx.IsSet("start") && cctx.Uint64("start") > state.MaxStart {
			return fmt.Errorf("--start %d is out of range, must not exceed %d", cctx.Uint64("start"), uint64(state.MaxStart))
		}

		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()
		cfg := srv.Cfg

		if has, err := wallet.WalletHas(srv.Ex.Store(), owner); err != nil {
			log.Warnf("init: cannot check keystore for %s: %v", owner, err)
		} else if !has {
			log.Warnf("init: owner %s has no key in the local keystore", owner)
		}

		start := cctx.Uint64("start")
		if !cctx.IsSet("start") {
			now := int64(srv.Ex.Now())
			if now+cfg.StartOffset > 0 {
				start = uint64(now + cfg.StartOffset)
			}
		}

		w, err := srv.Ex.Genesis(cctx.Context, state.GenesisParams{
			Owner:     owner,
			Start:     start,
			Metadata:  cfg.Token,
			Supply:    types.FromLegend(cfg.Supply),
			Durations: cfg.Durations,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Token:     %s\n", color.CyanString(w.Token.Address().String()))
		fmt.Printf("Factory:   %s\n", color.CyanString(w.Factory.Address().String()))
		fmt.Printf("Owner:     %s\n", owner)
		fmt.Printf("Supply:    %s\n", formatLegend(w.Token.TotalSupply()))
		fmt.Printf("Start:     %s\n", formatTime(w.Factory.Start()))
		fmt.Printf("Schedules: %d\n", w.Schedules.Len())
		return nil
	},
}
