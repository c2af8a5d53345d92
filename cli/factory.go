package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/filecoin-project/go-address"
	"github.com/urfave/cli/v2"

	"legend-vesting/internal/schedule"
	"legend-vesting/internal/state"
	"legend-vesting/internal/ui/tablewriter"
	"legend-vesting/internal/vesting"
)

// FactoryCmd 钱包工厂命令
var FactoryCmd = &cli.Command{
	Name:  "factory",
	Usage: "归属钱包工厂：创建与查询钱包",
	Subcommands: []*cli.Command{
		factoryInfo,
		factoryCreateWallet,
		factoryGetWallet,
		factoryList,
		transferOwnershipCmd(factoryContract),
		renounceOwnershipCmd(factoryContract),
	},
}

func factoryContract(w *state.World) address.Address { return w.Factory.Address() }

var factoryInfo = &cli.Command{
	Name:  "info",
	Usage: "显示工厂地址、owner、代币和起始时间",
	Action: func(cctx *cli.Context) error {
		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()

		return srv.Ex.View(cctx.Context, func(w *state.World, _ uint64) error {
			f := w.Factory
			fmt.Printf("Factory:   %s\n", f.Address())
			fmt.Printf("Owner:     %s\n", formatOwner(f.Owner()))
			fmt.Printf("Token:     %s\n", f.Token().Address())
			fmt.Printf("Start:     %s\n", formatTime(f.Start()))
			fmt.Printf("Schedules: %d\n", w.Schedules.Len())
			fmt.Printf("Wallets:   %d\n", f.Created())
			return nil
		})
	},
}

// factoryCreateWallet 为 (受益人, 计划) 创建归属钱包，仅工厂 owner
var factoryCreateWallet = &cli.Command{
	Name:      "create-wallet",
	Usage:     "为受益人创建归属钱包（仅 owner）",
	ArgsUsage: "[受益人地址] [类别名称或编号]",
	Flags:     []cli.Flag{fromFlag},
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 2 {
			return fmt.Errorf("'create-wallet' expects two arguments, beneficiary and tranche")
		}

		fromAddr, err := parseAddress(cctx.String("from"), "sender")
		if err != nil {
			return err
		}
		beneficiary, err := parseAddress(cctx.Args().Get(0), "beneficiary")
		if err != nil {
			return err
		}
		tr, err := schedule.ParseTranche(cctx.Args().Get(1))
		if err != nil {
			return err
		}

		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()

		walletAddr, rcpt, err := srv.Ex.CreateWallet(cctx.Context, fromAddr, beneficiary, tr.ID())
		if err != nil {
			return err
		}
		printReceipt(rcpt)
		fmt.Printf("created %s wallet %s for %s\n", tr, color.CyanString(walletAddr.String()), beneficiary)
		return nil
	},
}

var factoryGetWallet = &cli.Command{
	Name:      "get-wallet",
	Usage:     "查询受益人在某计划下的钱包地址",
	ArgsUsage: "[受益人地址] [类别名称或编号]",
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 2 {
			return fmt.Errorf("'get-wallet' expects two arguments, beneficiary and tranche")
		}

		beneficiary, err := parseAddress(cctx.Args().Get(0), "beneficiary")
		if err != nil {
			return err
		}
		tr, err := schedule.ParseTranche(cctx.Args().Get(1))
		if err != nil {
			return err
		}

		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()

		return srv.Ex.View(cctx.Context, func(w *state.World, _ uint64) error {
			a := w.Factory.GetWallet(beneficiary, tr.ID())
			if a == address.Undef {
				fmt.Println(color.YellowString("no wallet"))
				return nil
			}
			fmt.Println(a)
			return nil
		})
	},
}

// factoryList 列出工厂创建的所有钱包及其释放进度
var factoryList = &cli.Command{
	Name:  "list",
	Usage: "列出工厂创建的所有钱包",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "beneficiary",
			Usage: "只显示该受益人的钱包",
		},
	},
	Action: func(cctx *cli.Context) error {
		var filter address.Address
		if s := cctx.String("beneficiary"); s != "" {
			a, err := parseAddress(s, "beneficiary")
			if err != nil {
				return err
			}
			filter = a
		}

		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()

		tw := tablewriter.New(
			tablewriter.Col("Wallet"),
			tablewriter.Col("Beneficiary"),
			tablewriter.Col("Tranche"),
			tablewriter.Col("Phase"),
			tablewriter.Col("Allocation", tablewriter.RightAlign()),
			tablewriter.Col("Released", tablewriter.RightAlign()),
			tablewriter.Col("Releasable", tablewriter.RightAlign()))

		err = srv.Ex.View(cctx.Context, func(w *state.World, now uint64) error {
			for _, e := range w.Factory.Entries() {
				if filter != address.Undef && e.Beneficiary != filter {
					continue
				}
				vw := e.Wallet
				tw.Write(map[string]interface{}{
					"Wallet":      vw.Address(),
					"Beneficiary": e.Beneficiary,
					"Tranche":     schedule.Tranche(e.ScheduleID),
					"Phase":       colorPhase(vw.Phase(now)),
					"Allocation":  formatLegend(vw.TotalAllocation()),
					"Released":    formatLegend(vw.Released()),
					"Releasable":  formatLegend(vw.Releasable(now)),
				})
			}
			return nil
		})
		if err != nil {
			return err
		}
		return tw.Flush(os.Stdout)
	},
}

func colorPhase(p vesting.Phase) string {
	switch p {
	case vesting.PreVesting:
		return color.YellowString(p.String())
	case vesting.Vesting:
		return color.CyanString(p.String())
	default:
		return color.GreenString(p.String())
	}
}
