package main

import (
	"github.com/spf13/cobra"
	"github.com/yukikurage/team-task-tracker/internal/database"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap()
			if err != nil {
				return err
			}
			defer app.close()

			return database.Migrate(app.db, app.log)
		},
	}
}
