package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the cached session and whether the backend reports it ready",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd.Context(), *f)
			if err != nil {
				return err
			}
			defer rt.close()

			out := cmd.OutOrStdout()
			id, err := rt.store.Load()
			if err != nil {
				return err
			}
			if id == "" {
				fmt.Fprintln(out, "no cached session")
				return nil
			}
			status, err := rt.client.SessionStatus(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "session %s: %s\n", id, status)
			return nil
		},
	}
}
