package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-leads-backend/internal/services"
)

func newPurgeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "purge-idempotency",
		Short: "Delete expired Idempotency-Key records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := &services.IdempotencyService{DB: a.db, TTL: a.cfg.IdempotencyTTL}
			n, err := svc.Purge(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired keys\n", n)
			return nil
		},
	}
}
