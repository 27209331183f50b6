package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/catalog/internal/core"
	"github.com/JonMunkholm/catalog/internal/database"
)

func newSearchCmd() *cobra.Command {
	var page, limit int
	values := map[string]*string{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the catalog and print one page as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			svc, err := core.NewService(database.NewStore(e.pool), core.ServiceConfig{ReportDir: e.cfg.Reports.Dir})
			if err != nil {
				return err
			}

			filters := map[string]string{
				"page":  strconv.Itoa(page),
				"limit": strconv.Itoa(limit),
			}
			for key, v := range values {
				filters[key] = *v
			}
			result, err := svc.Search(cmd.Context(), filters)
			if err != nil {
				return err
			}
			return writeJSON(result)
		},
	}

	for _, f := range core.SearchFields() {
		values[f.Key] = cmd.Flags().String(f.Key, "", "Filter on "+f.Key)
	}
	cmd.Flags().IntVar(&page, "page", core.DefaultPage, "Page number")
	cmd.Flags().IntVar(&limit, "limit", core.DefaultLimit, "Rows per page")
	return cmd
}
