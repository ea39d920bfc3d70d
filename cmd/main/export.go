package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"zerosugar/explorer/internal/container"
	"zerosugar/explorer/internal/service"
)

var (
	exportOut        string
	exportQuery      string
	exportCategoryID int
	exportSweetener  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the product list to an xlsx file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx := context.Background()
		app, err := container.New(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer app.Close()

		opts := service.FilterOptions{
			Query:     exportQuery,
			Sweetener: exportSweetener,
		}
		if cmd.Flags().Changed("category-id") {
			opts.CategoryID = strconv.Itoa(exportCategoryID)
		}

		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOut, err)
		}
		defer f.Close()

		n, err := app.Export(ctx, f, opts)
		if err != nil {
			return fmt.Errorf("failed to export products: %w", err)
		}

		log.Infof("✅ Exported %d products to %s", n, exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "products.xlsx", "output file")
	exportCmd.Flags().StringVarP(&exportQuery, "q", "q", "", "search text")
	exportCmd.Flags().IntVar(&exportCategoryID, "category-id", 0, "only products of this category")
	exportCmd.Flags().StringVar(&exportSweetener, "sweetener", "", "only products containing this sweetener")
	rootCmd.AddCommand(exportCmd)
}
