package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/paperrun/paperrun/internal/config"
	"github.com/paperrun/paperrun/internal/paper"
)

// The sessions command belongs to the admin surface: it re-reads snapshot
// files the core itself never loads.
func newSessionsCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List persisted session snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				cfg, err := config.Load(flagConfigPath)
				if err != nil {
					return err
				}
				dir = cfg.Snapshots.Dir
			}

			sessions, err := paper.ReadSnapshots(dir)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				log.Info().Str("dir", dir).Msg("No session snapshots found")
				return nil
			}

			for _, s := range sessions {
				log.Info().
					Str("session_id", s.ID).
					Time("started_at", s.StartedAt).
					Int("trades", len(s.Trades)).
					Float64("final_equity", s.Portfolio.Equity).
					Float64("max_drawdown", s.Portfolio.MaxDrawdown).
					Msg("Session")
			}
			return printJSON(sessions)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "snapshot directory (default from config)")
	return cmd
}
