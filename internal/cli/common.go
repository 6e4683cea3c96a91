// Package cli implements the scorecard command-line tools. They operate
// directly on a store, bypassing HTTP auth; the implied actor is a
// local superadmin.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/soaringjerry/Scorecard/internal/services"
	"github.com/soaringjerry/Scorecard/internal/storage"
)

type storeFlags struct {
	dbPath  string
	dataDir string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dbPath, "db", "", "sqlite database path")
	cmd.Flags().StringVar(&f.dataDir, "data", "", "json data directory")
}

// open picks the store the same way the server does: --db wins over
// --data, and with neither flag the json store defaults to the current
// directory so the tool works in a checkout holding assessments.json.
func (f *storeFlags) open() (storage.Store, error) {
	if f.dbPath != "" {
		return storage.OpenSQLite(f.dbPath)
	}
	dir := f.dataDir
	if dir == "" {
		dir = "."
	}
	return storage.NewJSONFileStore(dir)
}

func localAdmin() services.ActorContext {
	return services.ActorContext{PersonID: "local-admin", AdminRole: services.AdminSuperadmin}
}
