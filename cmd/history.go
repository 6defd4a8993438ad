package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List a user's recent sessions from PostgreSQL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if conf.Store.PostgresURL == "" {
			return errors.New("no postgres url (store.postgres_url or --postgres-url)")
		}
		if conf.User.ID == "" {
			return errors.New("no user id (user.id or --user-id)")
		}
		pg, err := openStore(cmd.Context(), conf)
		if err != nil {
			return err
		}
		defer pg.Close(cmd.Context())

		limit, _ := cmd.Flags().GetInt("limit")
		recs, err := pg.History(cmd.Context(), conf.User.ID, limit)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), outputFormat(cmd), recs)
	},
}

func init() {
	fs := historyCmd.Flags()
	fs.Int("limit", 10, "number of sessions")
	fs.String("format", "json", "output format (json, yaml)")
}
