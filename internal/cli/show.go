package cli

import (
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <table-id>",
	Short: "Print a table's grid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		t, err := s.Open(args[0])
		if err != nil {
			return err
		}
		return renderTable(cmd.OutOrStdout(), t)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
