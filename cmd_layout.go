package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/holiday-tree/cliparse"
	"github.com/danielhkuo/holiday-tree/db"
	"github.com/danielhkuo/holiday-tree/handlers"
)

func newLayoutCmd(flags *cliparse.Flags) *cobra.Command {
	var ids []int64

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print ornament positions as YAML",
		Long: `Lays out the given ids, or the newest guestbook messages when --ids is
not set, using the configured tree layout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.Resolve()
			if err != nil {
				return err
			}

			layout, err := loadLayout(cfg.LayoutConfig)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("ids") {
				if err := cfg.ValidateDatabase(); err != nil {
					return err
				}
				conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer conn.Close()

				messages, err := handlers.RecentMessages(cmd.Context(), conn, cfg.MaxOrnaments)
				if err != nil {
					return err
				}
				for _, m := range messages {
					ids = append(ids, m.ID)
				}
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(layout.Place(ids))
		},
	}

	cmd.Flags().Int64SliceVar(&ids, "ids", nil, "Comma-separated ornament ids")
	return cmd
}
