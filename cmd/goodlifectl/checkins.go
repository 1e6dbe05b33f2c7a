package main

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"goodlife/internal/application/projections"
)

func (a *app) checkInsCmd() *cobra.Command {
	checkInsCmd := &cobra.Command{Use: "checkins", Short: "Client check-in records"}

	var date, out string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write check-ins as CSV; --out - prints to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			now := time.Now()
			deps := projections.Deps{State: st.Container, Now: func() time.Time { return now }}
			list, err := projections.QueryGetCheckIns(cmd.Context(), projections.GetCheckInsQuery{Date: date}, deps)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "-" {
				if out == "" {
					out = projections.CheckInExportName(now)
				}
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := projections.WriteCheckInCSV(w, list, now.Location()); err != nil {
				return err
			}
			if out != "-" {
				cmd.PrintErrf("wrote %d check-ins to %s\n", len(list), out)
			}
			return nil
		},
	}
	export.Flags().StringVar(&date, "date", "", "only visits on this day (YYYY-MM-DD)")
	export.Flags().StringVarP(&out, "out", "o", "", "output file (default Goodlife_CheckIns_<today>.csv)")

	checkInsCmd.AddCommand(export)
	return checkInsCmd
}
