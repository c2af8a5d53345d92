package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"legend-vesting/internal/schedule"
	"legend-vesting/internal/state"
	"legend-vesting/internal/ui/tablewriter"
)

// ScheduleCmd 归属计划查询
var ScheduleCmd = &cli.Command{
	Name:  "schedule",
	Usage: "查询归属计划表",
	Subcommands: []*cli.Command{
		scheduleList,
		scheduleGet,
	},
}

var scheduleList = &cli.Command{
	Name:  "list",
	Usage: "列出所有计划及其时长",
	Action: func(cctx *cli.Context) error {
		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()

		tw := tablewriter.New(
			tablewriter.Col("ID", tablewriter.RightAlign()),
			tablewriter.Col("Tranche"),
			tablewriter.Col("Duration", tablewriter.RightAlign()),
			tablewriter.Col("Seconds", tablewriter.RightAlign()))

		err = srv.Ex.View(cctx.Context, func(w *state.World, _ uint64) error {
			for _, e := range w.Schedules.Entries() {
				tw.Write(map[string]interface{}{
					"ID":       e.ID,
					"Tranche":  schedule.Tranche(e.ID),
					"Duration": formatDuration(e.DurationSeconds),
					"Seconds":  e.DurationSeconds,
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

var scheduleGet = &cli.Command{
	Name:      "get",
	Usage:     "查询单个计划的时长",
	ArgsUsage: "[类别名称或编号]",
	Action: func(cctx *cli.Context) error {
		if !cctx.Args().Present() {
			return fmt.Errorf("must specify a tranche")
		}
		tr, err := schedule.ParseTranche(cctx.Args().First())
		if err != nil {
			return err
		}

		srv, err := getService(cctx)
		if err != nil {
			return err
		}
		defer srv.Close()

		return srv.Ex.View(cctx.Context, func(w *state.World, _ uint64) error {
			d, err := w.Schedules.GetDuration(tr.ID())
			if err != nil {
				return err
			}
			fmt.Printf("%d %s: %s (%d seconds)\n", tr.ID(), tr, formatDuration(d), d)
			return nil
		})
	},
}
