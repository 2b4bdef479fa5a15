package cli

import (
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and indexes for the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer rt.close(ctx)

			if err := rt.store.Migrate(ctx); err != nil {
				return err
			}
			rt.log.Info("migration complete")
			return nil
		},
	}
}
