package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mbox2html/internal/mbox"
)

func newCountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count <input.mbox>",
		Short: "Count the messages in an mbox container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := mbox.Count(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}

	return cmd
}
