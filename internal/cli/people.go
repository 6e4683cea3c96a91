package cli

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/soaringjerry/Scorecard/internal/services"
)

// PeopleCmd returns the people command: the registered directory.
func PeopleCmd() *cobra.Command {
	flags := &storeFlags{}

	cmd := &cobra.Command{
		Use:   "people",
		Short: "List registered people",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := flags.open()
			if err != nil {
				return err
			}
			people, err := services.NewPeopleService(store).List(localAdmin())
			if err != nil {
				return err
			}
			if len(people) == 0 {
				color.Yellow("No people registered.")
				return nil
			}
			color.Cyan("\nPeople")
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Role", "Admin", "Team"})
			for _, p := range people {
				table.Append([]string{p.ID, p.Role, string(p.AdminRole), strings.Join(p.Team, ", ")})
			}
			table.Render()
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
