package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"freightbook/internal/session"
)

var editCmd = &cobra.Command{
	Use:   "edit <table-id>",
	Short: "Edit a table interactively",
	Long: `Open a table and apply edits read line by line from stdin. Edits are
autosaved after a short idle period; quitting flushes anything pending.

Commands:
  set <row> <field> <value>   set one cell (freight/settleTons recompute amount)
  start <YYYY-MM-DD>          move the table to a new start date
  add                         append a row
  rm                          remove the last row
  show                        print the grid
  save                        persist now
  sum                         summarize: total amounts and rename the table
  next                        save, then open a fresh table continuing the dates
  quit                        flush and exit`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if _, err := s.Open(args[0]); err != nil {
			return err
		}
		return editLoop(s, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}

// editLoop reads commands until EOF or quit. Command errors are reported
// and the loop continues; only I/O failure ends it early.
func editLoop(s *session.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, `editing; type "quit" to finish, "show" to print the grid`)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, rest := fields[0], fields[1:]

		var err error
		switch cmd {
		case "set":
			err = applySet(s, rest)
		case "start":
			if len(rest) != 1 {
				err = fmt.Errorf("usage: start <YYYY-MM-DD>")
				break
			}
			err = s.SetStartDate(rest[0])
		case "add":
			err = s.AddRow()
		case "rm":
			err = s.RemoveLastRow()
		case "show":
			err = renderTable(out, s.Current())
		case "save":
			if err = s.Save(); err == nil {
				fmt.Fprintln(out, "saved")
			}
		case "sum":
			total, sumErr := s.Summarize()
			if sumErr != nil {
				err = sumErr
				break
			}
			fmt.Fprintf(out, "%s total %s\n", s.Current().Name, total.String())
		case "next":
			t, nextErr := s.SaveAndNext()
			if nextErr != nil {
				err = nextErr
				break
			}
			fmt.Fprintf(out, "opened %s (%s, %d rows)\n", t.ID, t.StartDate, len(t.Rows))
		case "quit", "exit":
			return nil
		default:
			err = fmt.Errorf("unknown command %q", cmd)
		}
		if err != nil {
			fmt.Fprintln(out, "error:", err)
		}
	}
	return scanner.Err()
}

// applySet parses "set <row> <field> <value...>". The value may contain
// spaces; everything after the field joins back together.
func applySet(s *session.Session, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: set <row> <field> <value>")
	}
	rowIdx, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("row index %q is not a number", args[0])
	}
	value := ""
	if len(args) > 2 {
		value = strings.Join(args[2:], " ")
	}
	return s.SetCell(rowIdx, args[1], value)
}
