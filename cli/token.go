package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/filecoin-project/go-address"
	"github.com/urfave/cli/v2"

	"legend-vesting/internal/chain/types"
	"legend-vesting/internal/state"
	"legend-vesting/internal/ui/tablewriter"
)

// TokenCmd LEGEND 代币命令
var TokenCmd = &cli.Command{
	Name:  "token",
	Usage: "LEGEND 代币：余额、转账、暂停",
	Subcommands: []*cli.Command{
		tokenStatus,
		tokenBalance,
		tokenHolders,
		tokenTransfer,
		tokenPause,
		tokenUnpause,
		transferOwnershipCmd(tokenContract),
		renounceOwnershipCmd(tokenContract),
	},
}

func tokenContract(w *state.World) address.Address { return w.Token.Address() }

var tokenStatus = &cli.Command{
	Name:  "status",
	Usage: "显示代币地址、发行量、owner 和暂停状态",
	Action: func(cctx *cli.Context) error {
		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()

		return srv.Ex.View(cctx.Context, func(w *state.World, _ uint64) error {
			meta := w.Token.Metadata()
			paused := color.GreenString("active")
			if w.Token.Paused() {
				paused = color.RedString("paused")
			}
			fmt.Printf("Token:        %s\n", w.Token.Address())
			fmt.Printf("Name:         %s (%s)\n", meta.Name, meta.Symbol)
			fmt.Printf("Decimals:     %d\n", meta.Decimals)
			fmt.Printf("Total supply: %s\n", formatLegend(w.Token.TotalSupply()))
			fmt.Printf("Owner:        %s\n", formatOwner(w.Token.Ownership().Owner()))
			fmt.Printf("Transfers:    %s\n", paused)
			return nil
		})
	},
}

var tokenBalance = &cli.Command{
	Name:      "balance",
	Usage:     "查询地址余额",
	ArgsUsage: "[地址]",
	Action: func(cctx *cli.Context) error {
		addr, err := parseAddress(cctx.Args().First(), "holder")
		if err != nil {
			return err
		}

		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()

		return srv.Ex.View(cctx.Context, func(w *state.World, _ uint64) error {
			bal := w.Token.BalanceOf(addr)
			fmt.Printf("Address: %s\n", addr)
			fmt.Printf("Amount:  %s\n", formatLegend(bal))
			fmt.Printf("Bits:    %s\n", bal)
			return nil
		})
	},
}

var tokenHolders = &cli.Command{
	Name:  "holders",
	Usage: "列出所有非零余额持有人",
	Action: func(cctx *cli.Context) error {
		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()

		tw := tablewriter.New(
			tablewriter.Col("Holder"),
			tablewriter.Col("Kind"),
			tablewriter.Col("Balance", tablewriter.RightAlign()))

		err = srv.Ex.View(cctx.Context, func(w *state.World, _ uint64) error {
			for _, h := range w.Token.Holders() {
				kind := "account"
				if _, ok := w.VestingWallet(h.Address); ok {
					kind = color.YellowString("vesting wallet")
				} else if h.Address == w.Factory.Address() {
					kind = "factory"
				}
				tw.Write(map[string]interface{}{
					"Holder":  h.Address,
					"Kind":    kind,
					"Balance": formatLegend(h.Balance),
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

// tokenTransfer 代币转账，目标可以是账户或归属钱包
var tokenTransfer = &cli.Command{
	Name:      "transfer",
	Usage:     "在账户之间转账",
	ArgsUsage: "[目标地址] [金额]",
	Flags:     []cli.Flag{fromFlag},
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 2 {
			return fmt.Errorf("'transfer' expects two arguments, target and amount")
		}

		fromAddr, err := parseAddress(cctx.String("from"), "sender")
		if err != nil {
			return err
		}
		toAddr, err := parseAddress(cctx.Args().Get(0), "target")
		if err != nil {
			return err
		}
		val, err := types.ParseLegend(cctx.Args().Get(1))
		if err != nil {
			return fmt.Errorf("failed to parse amount: %w", err)
		}

		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()

		rcpt, err := srv.Ex.TokenTransfer(cctx.Context, fromAddr, toAddr, val.Bits())
		if err != nil {
			return err
		}
		printReceipt(rcpt)
		return nil
	},
}

var tokenPause = &cli.Command{
	Name:  "pause",
	Usage: "暂停所有转账（仅 owner）",
	Flags: []cli.Flag{fromFlag},
	Action: func(cctx *cli.Context) error {
		return setPaused(cctx, true)
	},
}

var tokenUnpause = &cli.Command{
	Name:  "unpause",
	Usage: "恢复转账（仅 owner）",
	Flags: []cli.Flag{fromFlag},
	Action: func(cctx *cli.Context) error {
		return setPaused(cctx, false)
	},
}

func setPaused(cctx *cli.Context, paused bool) error {
	fromAddr, err := parseAddress(cctx.String("from"), "sender")
	if err != nil {
		return err
	}

	srv, err := getService(cctx)
	if err != nil {
		return err
	}
	defer srv.Close()

	rcpt, err := srv.Ex.SetPaused(cctx.Context, fromAddr, paused)
	if err != nil {
		return err
	}
	printReceipt(rcpt)
	return nil
}

// transferOwnershipCmd 为 contract 返回的合约生成转移所有权命令
func transferOwnershipCmd(contract func(w *state.World) address.Address) *cli.Command {
	return &cli.Command{
		Name:      "transfer-ownership",
		Usage:     "转移合约所有权（仅 owner）",
		ArgsUsage: "[新 owner 地址]",
		Flags:     []cli.Flag{fromFlag},
		Action: func(cctx *cli.Context) error {
			fromAddr, err := parseAddress(cctx.String("from"), "sender")
			if err != nil {
				return err
			}
			newOwner, err := parseAddress(cctx.Args().First(), "new owner")
			if err != nil {
				return err
			}

			srv, err := getService(cctx)
			if err != nil {
				return err
			}
			defer srv.Close()

			target, err := contractAddress(cctx, srv, contract)
			if err != nil {
				return err
			}
			rcpt, err := srv.Ex.TransferOwnership(cctx.Context, fromAddr, target, newOwner)
			if err != nil {
				return err
			}
			printReceipt(rcpt)
			return nil
		},
	}
}

// renounceOwnershipCmd 放弃合约所有权，之后所有 owner 操作永久失效
func renounceOwnershipCmd(contract func(w *state.World) address.Address) *cli.Command {
	return &cli.Command{
		Name:  "renounce-ownership",
		Usage: "放弃合约所有权（不可恢复）",
		Flags: []cli.Flag{
			fromFlag,
			&cli.BoolFlag{
				Name:  "force",
				Usage: "强制执行，不需要确认",
			},
		},
		Action: func(cctx *cli.Context) error {
			fromAddr, err := parseAddress(cctx.String("from"), "sender")
			if err != nil {
				return err
			}

			srv, err := getService(cctx)
			if err != nil {
				return err
			}
			defer srv.Close()

			target, err := contractAddress(cctx, srv, contract)
			if err != nil {
				return err
			}

			if !cctx.Bool("force") && !confirm(fmt.Sprintf("确定要放弃合约 %s 的所有权吗？此操作不可恢复！", target)) {
				fmt.Println("已取消操作")
				return nil
			}

			rcpt, err := srv.Ex.RenounceOwnership(cctx.Context, fromAddr, target)
			if err != nil {
				return err
			}
			printReceipt(rcpt)
			return nil
		},
	}
}
