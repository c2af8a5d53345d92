package cli

import (
	"bufio"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"

	"legend-vesting/internal/chain/types"
	appcfg "legend-vesting/internal/config"
	"legend-vesting/internal/service"
	"legend-vesting/internal/state"
)

var log = logging.Logger("cli")

type ctxKey string

const (
	CtxConfig ctxKey = "config"
)

// All 返回所有可用的 CLI 命令列表
func All() []*cli.Command {
	return []*cli.Command{
		InitCmd,      // 部署代币、计划表和工厂
		AccountCmd,   // 账户密钥管理
		ScheduleCmd,  // 归属计划查询
		FactoryCmd,   // 钱包工厂
		VestingCmd,   // 归属钱包查询与释放
		TokenCmd,     // LEGEND 代币
		EventsCmd,    // 合约事件
		SignCmd,      // 离线签名消息
		MpoolPushCmd, // 执行已签名消息
	}
}

var fromFlag = &cli.StringFlag{
	Name:     "from",
	Usage:    "发送消息的账户地址（密钥需在本地密钥库中）",
	Required: true,
}

// getService 打开数据库并创建执行器
func getService(cctx *cli.Context) (*service.NewService, error) {
	cfg, ok := cctx.Context.Value(CtxConfig).(*appcfg.Config)
	if !ok {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return service.NewClient(cfg)
}

func parseAddress(s, what string) (address.Address, error) {
	if s == "" {
		return address.Undef, fmt.Errorf("must specify %s address", what)
	}
	a, err := address.NewFromString(s)
	if err != nil {
		return address.Undef, fmt.Errorf("invalid %s address %q: %w", what, s, err)
	}
	return a, nil
}

var legendPrecision = new(big.Int).SetUint64(types.LegendPrecision)

// formatLegend 带千分位的 LEGEND 数量
func formatLegend(amt abi.TokenAmount) string {
	if amt.Int == nil {
		return "0 LEGEND"
	}
	q, r := new(big.Int).QuoRem(amt.Int, legendPrecision, new(big.Int))
	s := humanize.BigComma(q)
	if r.Sign() != 0 {
		frac := r.String()
		frac = strings.Repeat("0", types.LegendDecimals-len(frac)) + frac
		s += "." + strings.TrimRight(frac, "0")
	}
	return s + " LEGEND"
}

// formatTime 绝对时间加相对描述
func formatTime(ts uint64) string {
	t := time.Unix(int64(ts), 0)
	return fmt.Sprintf("%s (%s)", t.UTC().Format(time.RFC3339), humanize.Time(t))
}

// formatDuration 以天为单位显示时长
func formatDuration(seconds uint64) string {
	if seconds == 0 {
		return "immediate"
	}
	days := seconds / 86400
	if days*86400 == seconds {
		return fmt.Sprintf("%s days", humanize.Comma(int64(days)))
	}
	return fmt.Sprintf("%ss", humanize.Comma(int64(seconds)))
}

func printReceipt(rcpt *service.Receipt) {
	fmt.Printf("message %s applied at %s\n", color.CyanString(rcpt.Message.String()), formatTime(rcpt.Timestamp))
	for _, ev := range rcpt.Events {
		fmt.Printf("  %s %s %s\n", color.GreenString(ev.Name()), ev.Emitter(), formatAttrs(ev.Attrs()))
	}
}

func formatAttrs(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+attrs[k])
	}
	return strings.Join(parts, " ")
}

// contractAddress 在当前状态中查找合约地址
func contractAddress(cctx *cli.Context, srv *service.NewService, contract func(w *state.World) address.Address) (address.Address, error) {
	var a address.Address
	err := srv.Ex.View(cctx.Context, func(w *state.World, _ uint64) error {
		a = contract(w)
		return nil
	})
	return a, err
}

// formatOwner 已放弃所有权时显示 renounced
func formatOwner(owner address.Address) string {
	if owner == address.Undef {
		return color.RedString("renounced")
	}
	return owner.String()
}

// confirm 提示用户输入 yes 确认
func confirm(prompt string) bool {
	fmt.Println(prompt)
	fmt.Print("输入 'yes' 确认: ")
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	return strings.TrimSpace(answer) == "yes"
}
