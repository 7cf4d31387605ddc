package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/arqon-study-api/internal/models"
	"github.com/noah-isme/arqon-study-api/pkg/export"
)

// viewFlags maps list flags onto an assignment view.
type viewFlags struct {
	course string
	status string
	due    string
	sort   string
	desc   bool
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.course, "course", "", "course code to match")
	cmd.Flags().StringVar(&f.status, "status", "", "status to match (pending, in-progress, completed, overdue)")
	cmd.Flags().StringVar(&f.due, "due", "", "due range (today, week, month, overdue)")
	cmd.Flags().StringVar(&f.sort, "sort", "", "column to sort by (dueDate, hours, priority, title, ...)")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "sort descending")
}

func (f *viewFlags) view() models.AssignmentView {
	view := models.AssignmentView{
		Criteria: models.FilterCriteria{
			Course:   f.course,
			Status:   f.status,
			DueRange: models.DueRange(f.due),
		},
		SortColumn:    f.sort,
		SortDirection: models.SortAsc,
	}
	if f.desc {
		view.SortDirection = models.SortDesc
	}
	return view
}

func newAssignmentsCmd(load func() (*app, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assignments",
		Short: "Assignment list commands",
	}
	cmd.AddCommand(
		newAssignmentsListCmd(load),
		newAssignmentsSummaryCmd(load),
		newAssignmentsExportCmd(load),
	)
	return cmd
}

func newAssignmentsListCmd(load func() (*app, error)) *cobra.Command {
	var flags viewFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Filter and sort assignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			list, err := a.assignments.List(cmd.Context(), flags.view())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tCOURSE\tSTATUS\tDUE\tPRIORITY\tHOURS")
			for _, row := range list.Items {
				due := row.DueDate
				if row.DueLabel != "" {
					due = fmt.Sprintf("%s (%s)", row.DueDate, row.DueLabel)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
					row.ID, row.Title, row.Course, row.Status, due, row.Priority, row.Hours.String())
			}
			if err := w.Flush(); err != nil {
				return err
			}
			return printSummary(cmd, list.Summary)
		},
	}
	flags.register(cmd)
	return cmd
}

func newAssignmentsSummaryCmd(load func() (*app, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print counters for every stored assignment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			summary, err := a.assignments.Summary(cmd.Context())
			if err != nil {
				return err
			}
			return printSummary(cmd, summary)
		},
	}
}

func newAssignmentsExportCmd(load func() (*app, error)) *cobra.Command {
	var (
		flags  viewFlags
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the filtered table as CSV or PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			result, err := a.assignments.Export(cmd.Context(), flags.view(), format)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(result.Body)
				return err
			}
			if err := os.WriteFile(out, result.Body, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", out, len(result.Body))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", export.FormatCSV, "export format (csv or pdf)")
	cmd.Flags().StringVar(&out, "out", "", "output file; stdout when empty")
	return cmd
}

func printSummary(cmd *cobra.Command, s models.Summary) error {
	w := cmd.OutOrStdout()
	_, err := fmt.Fprintf(w, "Total: %d  Hours: %s  Pending: %d  Overdue: %d\n",
		s.Count, strconv.FormatFloat(s.TotalHours, 'f', -1, 64), s.PendingCount, s.OverdueCount)
	if err != nil || s.UnparseableHours == 0 {
		return err
	}
	_, err = fmt.Fprintf(w, "Unparseable hours: %d\n", s.UnparseableHours)
	return err
}
