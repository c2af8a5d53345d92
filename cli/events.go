package cli

import (
	"encoding/json"
	"os"

	"github.com/urfave/cli/v2"

	"legend-vesting/internal/repository"
	"legend-vesting/internal/ui/tablewriter"
)

// EventsCmd 查询已持久化的合约事件
var EventsCmd = &cli.Command{
	Name:  "events",
	Usage: "查询合约事件",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "name",
			Usage: "事件名称，例如 ERC20Released、WalletCreated、Transfer",
		},
		&cli.StringFlag{
			Name:  "emitter",
			Usage: "发出事件的合约地址",
		},
		&cli.StringFlag{
			Name:  "msg",
			Usage: "消息 cid",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "最多显示的事件数",
		},
	},
	Action: func(cctx *cli.Context) error {
		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()

		evs, err := srv.Ex.Store().ListEvents(repository.EventFilter{
			Name:    cctx.String("name"),
			Emitter: cctx.String("emitter"),
			MsgCid:  cctx.String("msg"),
			Limit:   cctx.Int("limit"),
		})
		if err != nil {
			return err
		}

		tw := tablewriter.New(
			tablewriter.Col("Time"),
			tablewriter.Col("Event"),
			tablewriter.Col("Emitter"),
			tablewriter.Col("Attrs"),
			tablewriter.NewLineCol("Message"))

		for _, ev := range evs {
			row := map[string]interface{}{
				"Time":    formatTime(ev.Timestamp),
				"Event":   ev.Name,
				"Emitter": ev.Emitter,
				"Message": ev.MsgCid,
			}
			var attrs map[string]string
			if err := json.Unmarshal([]byte(ev.Attrs), &attrs); err != nil {
				log.Warnf("events: event %d has malformed attrs: %v", ev.ID, err)
				row["Attrs"] = ev.Attrs
			} else {
				row["Attrs"] = formatAttrs(attrs)
			}
			tw.Write(row)
		}

		return tw.Flush(os.Stdout)
	},
}
