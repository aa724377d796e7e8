package command

import (
	"github.com/urfave/cli/v2"
)

func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List the dated snapshots kept under the history directory",
		Action: func(c *cli.Context) error {
			e, err := envFrom(c)
			if err != nil {
				return err
			}
			entries, err := e.loader().History()
			if err != nil {
				return err
			}
			return e.print(c, historyList(entries))
		},
	}
}
