package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <table-id>",
	Short: "Total a table's amounts and rename it to cover its date range",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if _, err := s.Open(args[0]); err != nil {
			return err
		}
		total, err := s.Summarize()
		if err != nil {
			return err
		}
		t := s.Current()
		fmt.Fprintf(cmd.OutOrStdout(), "%s total %s\n", t.Name, total.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}
