package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/holiday-tree/cliparse"
	"github.com/danielhkuo/holiday-tree/db"
	"github.com/danielhkuo/holiday-tree/matching"
)

func newMatchCmd(flags *cliparse.Flags) *cobra.Command {
	var (
		seed uint64
		show bool
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Run the one-off Secret Santa draw against the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.Resolve()
			if err != nil {
				return err
			}
			if err := cfg.ValidateDatabase(); err != nil {
				return err
			}

			conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer conn.Close()

			var shuffler matching.Shuffler
			if seed != 0 {
				shuffler = matching.NewSeededFisherYates(seed)
			} else if shuffler, err = matching.NewFisherYates(); err != nil {
				return err
			}

			matches, err := matching.NewGenerator(db.NewMatchStore(conn), shuffler).Run(cmd.Context())
			if err != nil {
				return err
			}
			slog.Info("draw complete", "matches", len(matches), "seeded", seed != 0)

			if show {
				return yaml.NewEncoder(cmd.OutOrStdout()).Encode(matches)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d matches created\n", len(matches))
			return err
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "Fixed shuffle seed for a reproducible draw (0 = random)")
	cmd.Flags().BoolVar(&show, "show", false, "Print the drawn pairs as YAML")
	return cmd
}
