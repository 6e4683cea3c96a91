package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/soaringjerry/Scorecard/internal/services"
)

// ImportLegacyCmd returns the import-legacy command. It loads a legacy
// assessments.json file (a subject-keyed map of records, no ids, status
// often absent) and writes the normalized records into the target
// store.
func ImportLegacyCmd() *cobra.Command {
	flags := &storeFlags{}

	cmd := &cobra.Command{
		Use:   "import-legacy <assessments.json>",
		Short: "Import a legacy assessments file into the target store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var legacy map[string][]*services.AssessmentRecord
			if err := json.Unmarshal(raw, &legacy); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			store, err := flags.open()
			if err != nil {
				return err
			}

			subjects := make([]string, 0, len(legacy))
			for s := range legacy {
				subjects = append(subjects, s)
			}
			sort.Strings(subjects)

			total := 0
			for _, subject := range subjects {
				records := legacy[subject]
				for _, r := range records {
					r.Subject = subject
					if r.ID == "" {
						r.ID = strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
					}
					services.NormalizeRecord(r)
				}
				if err := store.SaveRecords(subject, records); err != nil {
					return fmt.Errorf("save %s: %w", subject, err)
				}
				total += len(records)
			}
			color.Green("Imported %d records across %d subjects.", total, len(subjects))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
