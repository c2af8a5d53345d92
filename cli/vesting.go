package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"legend-vesting/internal/schedule"
	"legend-vesting/internal/state"
)

// VestingCmd 归属钱包命令
var VestingCmd = &cli.Command{
	Name:  "vesting",
	Usage: "归属钱包：查询进度与释放代币",
	Subcommands: []*cli.Command{
		vestingInfo,
		vestingRelease,
	},
}

var vestingInfo = &cli.Command{
	Name:      "info",
	Usage:     "显示钱包的受益人、时间窗口和释放进度",
	ArgsUsage: "[钱包地址]",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "at",
			Usage: "按指定时间（unix 秒）计算，默认当前时间",
		},
	},
	Action: func(cctx *cli.Context) error {
		walletAddr, err := parseAddress(cctx.Args().First(), "wallet")
		if err != nil {
			return err
		}

		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()

		return srv.Ex.View(cctx.Context, func(w *state.World, now uint64) error {
			if cctx.IsSet("at") {
				now = cctx.Uint64("at")
			}

			vw, ok := w.VestingWallet(walletAddr)
			if !ok {
				return fmt.Errorf("%s is not a vesting wallet", walletAddr)
			}

			tranche := "-"
			for _, e := range w.Factory.Entries() {
				if e.Wallet.Address() == walletAddr {
					tranche = schedule.Tranche(e.ScheduleID).String()
					break
				}
			}

			fmt.Printf("Wallet:      %s\n", vw.Address())
			fmt.Printf("Beneficiary: %s\n", vw.Beneficiary())
			fmt.Printf("Tranche:     %s\n", tranche)
			fmt.Printf("Start:       %s\n", formatTime(vw.Start()))
			fmt.Printf("End:         %s\n", formatTime(vw.End()))
			fmt.Printf("Duration:    %s\n", formatDuration(vw.Duration()))
			fmt.Printf("Phase:       %s\n", colorPhase(vw.Phase(now)))
			fmt.Printf("Allocation:  %s\n", formatLegend(vw.TotalAllocation()))
			fmt.Printf("Vested:      %s\n", formatLegend(vw.VestedAmount(now)))
			fmt.Printf("Released:    %s\n", formatLegend(vw.Released()))
			fmt.Printf("Releasable:  %s\n", formatLegend(vw.Releasable(now)))
			return nil
		})
	},
}

// vestingRelease 将已归属代币转给受益人，任何账户都可以发起
var vestingRelease = &cli.Command{
	Name:      "release",
	Usage:     "释放已归属的代币给受益人",
	ArgsUsage: "[钱包地址]",
	Flags:     []cli.Flag{fromFlag},
	Action: func(cctx *cli.Context) error {
		fromAddr, err := parseAddress(cctx.String("from"), "sender")
		if err != nil {
			return err
		}
		walletAddr, err := parseAddress(cctx.Args().First(), "wallet")
		if err != nil {
			return err
		}

		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()

		amt, rcpt, err := srv.Ex.Release(cctx.Context, fromAddr, walletAddr)
		if err != nil {
			return err
		}
		printReceipt(rcpt)
		if amt.IsZero() {
			fmt.Println("nothing releasable yet")
			return nil
		}
		fmt.Printf("released %s\n", formatLegend(amt))
		return nil
	},
}

