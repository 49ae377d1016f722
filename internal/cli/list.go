package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"freightbook/internal/storage"
)

var listRecent bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored tables, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		var metas []storage.TableMeta
		if listRecent {
			metas = s.RecentTables()
		} else {
			metas = s.Tables()
		}
		if len(metas) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no tables")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTART\tROWS\tUPDATED")
		for _, m := range metas {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", m.ID, m.Name, m.StartDate, m.RowCount, m.UpdatedAt)
		}
		return w.Flush()
	},
}

func init() {
	listCmd.Flags().BoolVar(&listRecent, "recent", false, "only the recently opened tables, in recency order")
	rootCmd.AddCommand(listCmd)
}
