package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/soaringjerry/Scorecard/internal/services"
)

// ReportCmd returns the report command: a terminal rendering of one
// subject's records and their aggregate.
func ReportCmd() *cobra.Command {
	flags := &storeFlags{}

	cmd := &cobra.Command{
		Use:   "report <subject>",
		Short: "Print a subject's assessment records and aggregate summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := flags.open()
			if err != nil {
				return err
			}
			subject := args[0]
			svc := services.NewAssessmentService(store)
			actor := localAdmin()

			list, err := svc.ListForViewer(actor, subject)
			if err != nil {
				return err
			}
			sum, err := svc.Summary(actor, subject)
			if err != nil {
				return err
			}

			color.Cyan("\nAssessments for %s", subject)
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Assessor", "Role", "Status", "Tomo", "Submitted"})
			for _, r := range list.Records {
				tomo := "-"
				if r.Tomo != nil {
					tomo = fmt.Sprintf("%d (%s)", *r.Tomo, r.TomoBand)
				}
				table.Append([]string{
					r.ID,
					r.AssessorLabel,
					r.Role,
					string(r.Status),
					tomo,
					r.CreatedAt.Format(time.RFC3339),
				})
			}
			table.Render()

			if !sum.Aggregate.HasData {
				color.Yellow("\nNo approved records to aggregate.")
			} else {
				color.Yellow("\nAggregate (approved records only)")
				agg := tablewriter.NewWriter(os.Stdout)
				agg.SetHeader([]string{"Criterion", "Average"})
				for _, name := range sortedKeys(sum.Aggregate.PerCriterion) {
					agg.Append([]string{name, fmt.Sprintf("%.2f", sum.Aggregate.PerCriterion[name])})
				}
				agg.Append([]string{"Overall", fmt.Sprintf("%.2f", sum.Aggregate.Overall)})
				agg.Render()

				counts := tablewriter.NewWriter(os.Stdout)
				counts.SetHeader([]string{"Assessor", "Count"})
				for _, role := range []services.AssessorRole{services.RoleSelf, services.RolePeer, services.RoleManager} {
					counts.Append([]string{string(role), strconv.Itoa(sum.Aggregate.Counts[role])})
				}
				counts.Render()

				if sum.HasTomo {
					fmt.Printf("Average ToMo: %.2f (%s)\n", sum.AverageTomo, sum.TomoBand)
				}
			}

			if len(sum.Inconsistent) > 0 {
				color.Red("\nInconsistent records skipped: %v", sum.Inconsistent)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
