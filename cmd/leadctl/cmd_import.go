package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-leads-backend/internal/repo"
	"github.com/tbourn/go-leads-backend/internal/services"
)

func newImportCmd(a *app) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import buyer leads from a CSV file",
		Long: `Import leads using the same rules as POST /buyers/import: every row is
validated on its own, valid rows are inserted in one transaction, and
invalid rows are listed by line number (the header is row 1).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			fi, err := os.Stat(path)
			if err != nil {
				return err
			}
			if err := a.buyers.CheckUpload(filepath.Base(path), "text/csv", fi.Size()); err != nil {
				return err
			}

			u, err := repo.EnsureUser(ctx, a.db, owner, "")
			if err != nil {
				return fmt.Errorf("resolving owner: %w", err)
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := a.buyers.Import(ctx, u.ID, f)
			if res != nil {
				printImport(cmd, res)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Email of the user who will own the imported leads")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func printImport(cmd *cobra.Command, res *services.ImportResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d of %d rows imported\n", res.Message, res.Imported, res.Total)
	for _, re := range res.Errors {
		for _, msg := range re.Errors {
			fmt.Fprintf(out, "  row %d: %s\n", re.Row, msg)
		}
	}
}
