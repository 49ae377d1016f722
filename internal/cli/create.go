package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	createStart string
	createRows  int
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new shipment table",
	Long: `Create a new table of date-sequenced rows. Without --start the table
begins today; without --rows it uses the configured initial row count.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		t, err := s.CreateAndOpen(createStart, createRows)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s, %d rows)\n", t.ID, t.StartDate, len(t.Rows))
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createStart, "start", "", "start date (YYYY-MM-DD, default today)")
	createCmd.Flags().IntVar(&createRows, "rows", 0, "row count (default from config)")
	rootCmd.AddCommand(createCmd)
}
