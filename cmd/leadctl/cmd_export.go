package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-leads-backend/internal/domain"
	"github.com/tbourn/go-leads-backend/internal/repo"
	"github.com/tbourn/go-leads-backend/internal/services"
)

// exportFlags mirrors the list/export query parameters.
type exportFlags struct {
	search, city, propertyType, status, timeline string
	sortBy, sortOrder                            string
}

func (f exportFlags) query() (services.ListQuery, error) {
	q := services.ListQuery{
		Filter: repo.BuyerFilter{
			Search:       strings.TrimSpace(f.search),
			City:         domain.City(f.city),
			PropertyType: domain.PropertyType(f.propertyType),
			Status:       domain.Status(f.status),
			Timeline:     domain.Timeline(f.timeline),
		},
		Sort: repo.BuyerSort{Field: f.sortBy, Desc: true},
	}
	switch {
	case f.city != "" && !q.Filter.City.Valid():
		return q, fmt.Errorf("invalid --city %q", f.city)
	case f.propertyType != "" && !q.Filter.PropertyType.Valid():
		return q, fmt.Errorf("invalid --property-type %q", f.propertyType)
	case f.status != "" && !q.Filter.Status.Valid():
		return q, fmt.Errorf("invalid --status %q", f.status)
	case f.timeline != "" && !q.Filter.Timeline.Valid():
		return q, fmt.Errorf("invalid --timeline %q", f.timeline)
	case !repo.SortFieldValid(f.sortBy):
		return q, fmt.Errorf("invalid --sort %q", f.sortBy)
	}
	switch strings.ToLower(f.sortOrder) {
	case "desc":
	case "asc":
		q.Sort.Desc = false
	default:
		return q, fmt.Errorf("invalid --order %q", f.sortOrder)
	}
	return q, nil
}

func newExportCmd(a *app) *cobra.Command {
	var (
		flags      exportFlags
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export buyer leads to CSV",
		Long: `Export every lead matching the filters with the same 16-column layout
as GET /buyers/export. Without -o the file is named
buyers-export-YYYY-MM-DD.csv; use -o - for stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.query()
			if err != nil {
				return err
			}

			if outputPath == "" {
				outputPath = services.ExportFilename(time.Now())
			}

			var w io.Writer = cmd.OutOrStdout()
			if outputPath != "-" {
				f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer f.Close()
				w = f
			}

			n, err := a.buyers.Export(cmd.Context(), w, q)
			if err != nil {
				return fmt.Errorf("export failed after %d rows: %w", n, err)
			}
			if outputPath != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d leads to %s\n", n, outputPath)
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&flags.search, "search", "", "Match name, email or phone")
	fl.StringVar(&flags.city, "city", "", "City filter")
	fl.StringVar(&flags.propertyType, "property-type", "", "Property type filter")
	fl.StringVar(&flags.status, "status", "", "Status filter")
	fl.StringVar(&flags.timeline, "timeline", "", "Timeline filter")
	fl.StringVar(&flags.sortBy, "sort", "updatedAt", "Sort key: updatedAt|createdAt|fullName")
	fl.StringVar(&flags.sortOrder, "order", "desc", "Sort order: asc|desc")
	fl.StringVarP(&outputPath, "output", "o", "", "Output file path (use - for stdout)")
	return cmd
}
