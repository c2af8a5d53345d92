package cli

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/filecoin-project/go-address"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"legend-vesting/internal/chain/types"
	"legend-vesting/internal/repository"
	"legend-vesting/internal/state"
	"legend-vesting/internal/ui/tablewriter"
	"legend-vesting/internal/wallet"
)

// AccountCmd 账户密钥管理命令
// 提供密钥生成、导入、导出、列表、删除等功能
var AccountCmd = &cli.Command{
	Name:  "account",
	Usage: "账户密钥管理",
	Subcommands: []*cli.Command{
		accountNew,
		accountList,
		accountExport,
		accountImport,
		accountDelete,
	},
}

// accountNew 生成新密钥命令
// 支持 BLS 和 secp256k1 两种密钥类型
var accountNew = &cli.Command{
	Name:      "new",
	Usage:     "生成指定类型的新密钥",
	ArgsUsage: "[bls|secp256k1 (默认 secp256k1)]",
	Action: func(cctx *cli.Context) error {
		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()

		t := cctx.Args().First()
		if t == "" {
			t = string(types.KTSecp256k1)
		}

		ki, addr, err := wallet.WalletNew(types.KeyType(t))
		if err != nil {
			return err
		}

		if err := srv.Ex.Store().SaveWalletKey(addr, *ki); err != nil {
			return err
		}

		fmt.Println(addr)
		return nil
	},
}

// accountExport 导出密钥命令
// 以 hex-lotus 格式输出解密后的私钥
var accountExport = &cli.Command{
	Name:      "export",
	Usage:     "导出密钥",
	ArgsUsage: "[地址]",
	Action: func(cctx *cli.Context) error {
		if !cctx.Args().Present() {
			return fmt.Errorf("must specify key to export")
		}

		addr, err := address.NewFromString(cctx.Args().First())
		if err != nil {
			return err
		}

		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()

		ki, err := srv.Ex.Store().GetWalletKey(addr)
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}

		b, err := json.Marshal(ki)
		if err != nil {
			return err
		}
		fmt.Println(hex.EncodeToString(b))
		return nil
	},
}

// accountImport 导入密钥命令
// 支持多种格式：hex-lotus、json-lotus、gfc-json
var accountImport = &cli.Command{
	Name:      "import",
	Usage:     "导入密钥",
	ArgsUsage: "[<路径> (可选，如果省略则从标准输入读取)]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "format",
			Usage: "指定密钥输入格式 (hex-lotus, json-lotus, gfc-json)",
			Value: "hex-lotus",
		},
	},
	Action: func(cctx *cli.Context) error {
		var inpdata []byte
		if !cctx.Args().Present() || cctx.Args().First() == "-" {
			reader := bufio.NewReader(os.Stdin)
			indata, err := reader.ReadBytes('\n')
			if err != nil && len(indata) == 0 {
				return err
			}
			inpdata = indata
		} else {
			fdata, err := os.ReadFile(cctx.Args().First())
			if err != nil {
				return err
			}
			inpdata = fdata
		}

		ki, err := parseKeyInfo(cctx.String("format"), inpdata)
		if err != nil {
			return err
		}

		addr, err := wallet.WalletImport(ki)
		if err != nil {
			return err
		}

		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()

		if err := srv.Ex.Store().SaveWalletKey(addr, *ki); err != nil {
			return err
		}

		fmt.Printf("imported key %s successfully!\n", addr)
		return nil
	},
}

func parseKeyInfo(format string, inpdata []byte) (*types.KeyInfo, error) {
	var ki types.KeyInfo
	switch format {
	case "hex-lotus":
		data, err := hex.DecodeString(strings.TrimSpace(string(inpdata)))
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &ki); err != nil {
			return nil, err
		}
	case "json-lotus":
		if err := json.Unmarshal(inpdata, &ki); err != nil {
			return nil, err
		}
	case "gfc-json":
		var f struct {
			KeyInfo []struct {
				PrivateKey []byte
				SigType    int
			}
		}
		if err := json.Unmarshal(inpdata, &f); err != nil {
			return nil, xerrors.Errorf("failed to parse go-filecoin key: %s", err)
		}
		if len(f.KeyInfo) == 0 {
			return nil, xerrors.New("go-filecoin key file contains no keys")
		}

		gk := f.KeyInfo[0]
		ki.PrivateKey = gk.PrivateKey
		switch gk.SigType {
		case 1:
			ki.Type = types.KTSecp256k1
		case 2:
			ki.Type = types.KTBLS
		default:
			return nil, fmt.Errorf("unrecognized key type: %d", gk.SigType)
		}
	default:
		return nil, fmt.Errorf("unrecognized format: %s", format)
	}
	return &ki, nil
}

// accountList 列出本地账户
// 显示地址、密钥类型、LEGEND 余额和 nonce；未部署时只显示地址
var accountList = &cli.Command{
	Name:  "list",
	Usage: "列出账户地址",
	Action: func(cctx *cli.Context) error {
		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()

		keys, err := srv.Ex.Store().GetAllWalletAddresses()
		if err != nil {
			return err
		}

		tw := tablewriter.New(
			tablewriter.Col("Address"),
			tablewriter.Col("Type"),
			tablewriter.Col("Balance", tablewriter.RightAlign()),
			tablewriter.Col("Nonce", tablewriter.RightAlign()),
			tablewriter.NewLineCol("Error"))

		err = srv.Ex.View(cctx.Context, func(w *state.World, _ uint64) error {
			for _, k := range keys {
				row := map[string]interface{}{
					"Address": k.Address,
					"Type":    k.KeyType,
				}
				addr, err := address.NewFromString(k.Address)
				if err != nil {
					row["Error"] = err
					tw.Write(row)
					continue
				}
				row["Balance"] = formatLegend(w.Token.BalanceOf(addr))
				row["Nonce"] = w.Nonce(addr)
				tw.Write(row)
			}
			return nil
		})
		if errors.Is(err, repository.ErrNotInitialized) {
			for _, k := range keys {
				tw.Write(map[string]interface{}{"Address": k.Address, "Type": k.KeyType})
			}
		} else if err != nil {
			return err
		}

		return tw.Flush(os.Stdout)
	},
}

// accountDelete 删除账户密钥命令
var accountDelete = &cli.Command{
	Name:      "del",
	Usage:     "删除账户密钥",
	ArgsUsage: "[地址]",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "force",
			Usage: "强制删除，不需要确认",
		},
	},
	Action: func(cctx *cli.Context) error {
		if !cctx.Args().Present() {
			return fmt.Errorf("请指定要删除的账户地址")
		}

		addr, err := address.NewFromString(cctx.Args().First())
		if err != nil {
			return fmt.Errorf("无效的地址: %w", err)
		}

		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()

		if !cctx.Bool("force") && !confirm(fmt.Sprintf("确定要删除账户 %s 吗？此操作不可恢复！", addr)) {
			fmt.Println("已取消删除操作")
			return nil
		}

		if err := srv.Ex.Store().DeleteWalletKey(addr); err != nil {
			return fmt.Errorf("删除账户失败: %w", err)
		}

		fmt.Printf("已成功删除账户 %s\n", addr)
		return nil
	},
}
