package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newDescribeCommand(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "describe TABLE",
		Short: "Print the columns and insert statement of a table.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, m, _, err := setup(cmd.Context(), cmd, stderr)
			if err != nil {
				return err
			}
			defer m.Close()

			b, err := m.Bind(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tCOLUMN\tTYPE\tNULL\tIDENTITY\tCOMPUTED")
			for _, col := range b.Meta().Columns {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%t\t%t\n",
					col.Ordinal, col.Name, col.DataType, col.Nullable, col.IsIdentity, col.IsComputed)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(stdout)
			fmt.Fprintln(stdout, b.Statement())
			return nil
		},
	}
}
