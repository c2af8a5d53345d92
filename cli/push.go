package cli

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"legend-vesting/internal/chain/types"
	"legend-vesting/internal/wallet"
)

// SignCmd 离线签名命令
// 用本地密钥库中的私钥签名一条消息，输出十六进制编码的 CBOR，不执行
var SignCmd = &cli.Command{
	Name:  "sign",
	Usage: "签名一条消息并输出十六进制编码，可在另一台机器上 push",
	Flags: []cli.Flag{
		fromFlag,
		&cli.StringFlag{
			Name:     "to",
			Usage:    "目标合约地址",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:     "method",
			Usage:    "方法编号",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "params",
			Usage: "十六进制编码的 CBOR 参数",
		},
		&cli.Uint64Flag{
			Name:  "nonce",
			Usage: "指定 nonce，默认使用账户下一个 nonce",
		},
	},
	Action: func(cctx *cli.Context) error {
		fromAddr, err := parseAddress(cctx.String("from"), "sender")
		if err != nil {
			return err
		}
		toAddr, err := parseAddress(cctx.String("to"), "target")
		if err != nil {
			return err
		}
		params, err := hex.DecodeString(strings.TrimSpace(cctx.String("params")))
		if err != nil {
			return xerrors.Errorf("failed to decode params: %w", err)
		}

		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()

		nonce := cctx.Uint64("nonce")
		if !cctx.IsSet("nonce") {
			if nonce, err = srv.Ex.NextNonce(cctx.Context, fromAddr); err != nil {
				return err
			}
		}

		sm, err := wallet.SignMessage(srv.Ex.Store(), &types.Message{
			Version: types.MessageVersion,
			To:      toAddr,
			From:    fromAddr,
			Nonce:   nonce,
			Method:  abi.MethodNum(cctx.Uint64("method")),
			Params:  params,
		})
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := sm.MarshalCBOR(&buf); err != nil {
			return err
		}
		log.Infof("sign: message %s from %s nonce %d", sm.Cid(), fromAddr, nonce)
		fmt.Println(hex.EncodeToString(buf.Bytes()))
		return nil
	},
}

// MpoolPushCmd 执行已签名消息
// 签名在执行前校验，无需本地持有发送方私钥
var MpoolPushCmd = &cli.Command{
	Name:  "push",
	Usage: "执行一条十六进制编码的已签名消息",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "msg",
			Usage:    "十六进制编码的已签名消息",
			Required: true,
		},
	},
	Action: func(cctx *cli.Context) error {
		buf, err := hex.DecodeString(strings.TrimSpace(cctx.String("msg")))
		if err != nil {
			return err
		}
		var sm = new(types.SignedMessage)

		if err := sm.UnmarshalCBOR(bytes.NewReader(buf)); err != nil {
			return err
		}

		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()

		rcpt, err := srv.Ex.Push(cctx.Context, sm)
		if err != nil {
			return xerrors.Errorf("failed to push message: %w", err)
		}

		printReceipt(rcpt)
		return nil
	},
}
