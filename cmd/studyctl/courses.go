package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCoursesCmd(load func() (*app, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "Course commands",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List courses in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			courses, err := a.courses.List(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCODE\tNAME\tINSTRUCTOR")
			for _, c := range courses {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.Code, c.Name, c.Instructor)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(list)
	return cmd
}
