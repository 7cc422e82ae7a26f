package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the cached session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd.Context(), *f)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.manager.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "session cleared")
			return nil
		},
	}
}
