package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/suteetoe/hrms/internal/importer"
	"github.com/suteetoe/hrms/internal/model"
	"github.com/suteetoe/hrms/pkg/logger"
	"go.uber.org/zap"
)

func newImportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:       "import (departments|employees) FILE",
		Short:     "Bulk-create departments or employees from a CSV, JSON or XLSX file",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{model.EntityDepartment + "s", model.EntityEmployee + "s"},
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, path := args[0], args[1]
			if entity != "departments" && entity != "employees" {
				return fmt.Errorf("unknown import target %q; use departments or employees", entity)
			}

			f, err := importer.DetectFormat(format, path, "")
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := logger.WithContext(cmd.Context(), a.log.With(zap.String("command", "import")))
			var result model.BulkResult
			if entity == "departments" {
				result, err = a.imports.ImportDepartments(ctx, data, f)
			} else {
				result, err = a.imports.ImportEmployees(ctx, data, f)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d created, %d failed\n", entity, result.Created, result.Failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Input format: csv, json or xlsx (default: from file extension)")
	return cmd
}
