package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/catalog/internal/core"
	"github.com/JonMunkholm/catalog/internal/database"
)

func newImportCmd() *cobra.Command {
	var familiesFile, productsFile string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import families and/or products CSV files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if familiesFile == "" && productsFile == "" {
				return errors.New("at least one of --families or --products is required")
			}

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			svc, err := core.NewService(database.NewStore(e.pool), core.ServiceConfig{ReportDir: e.cfg.Reports.Dir})
			if err != nil {
				return err
			}

			// The pipeline deletes its inputs, so it gets copies.
			famCopy, err := stageCopy(familiesFile)
			if err != nil {
				return err
			}
			prodCopy, err := stageCopy(productsFile)
			if err != nil {
				_ = os.Remove(famCopy)
				return err
			}

			summary, err := svc.ProcessImport(cmd.Context(), famCopy, prodCopy)
			if err != nil {
				return err
			}
			return writeJSON(summary)
		},
	}

	cmd.Flags().StringVar(&familiesFile, "families", "", "Families CSV file")
	cmd.Flags().StringVar(&productsFile, "products", "", "Products CSV file")
	return cmd
}

// stageCopy copies path to a temporary file and returns its name, or ""
// for an empty path.
func stageCopy(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "catalog-import-*.csv")
	if err != nil {
		return "", fmt.Errorf("stage %s: %w", path, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("stage %s: %w", path, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("stage %s: %w", path, err)
	}
	return dst.Name(), nil
}
