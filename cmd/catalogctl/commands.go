package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/moementrabelsi/mma/internal/query"
	"github.com/moementrabelsi/mma/internal/store"
	"github.com/moementrabelsi/mma/pkg/client"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const commandTimeout = 30 * time.Second

func (a *app) migrateCmd() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Import a products.json document into an empty data source",
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == "" {
				from = filepath.Join(a.cfg.Data.Dir, store.CatalogFile)
			}
			f, err := os.Open(from)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", from, err)
			}
			defer f.Close()

			doc, err := store.ReadDocument(f)
			if err != nil {
				return err
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			stats, err := store.Import(ctx, st, doc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if stats.Skipped {
				fmt.Fprintln(out, "Data already exists, skipping migration")
				return nil
			}
			a.log.Info("Catalog imported",
				zap.String("from", from),
				zap.Int("categories", stats.Categories),
				zap.Int("subcategories", stats.SubCategories),
				zap.Int("products", stats.Products))
			fmt.Fprintf(out, "Migrated %d categories, %d subcategories, %d products\n",
				stats.Categories, stats.SubCategories, stats.Products)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "catalog document to import (default $DATA_DIR/products.json)")
	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the data source connection and print row counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			if err := st.Ping(ctx); err != nil {
				return fmt.Errorf("data source unreachable: %w", err)
			}

			counts, err := store.Count(ctx, st)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Connected to %s data source\n", st.Name())
			writeCounts(out, counts)

			products, err := st.Products().List(ctx, query.Filter{})
			if err != nil {
				return err
			}
			if len(products) == 0 {
				fmt.Fprintln(out, "No products found")
				return nil
			}
			page := query.Run(products, query.Params{SortBy: query.SortName, Page: 1, Limit: 5})
			fmt.Fprintln(out, "Sample products:")
			for i, p := range page.Products {
				fmt.Fprintf(out, "  %d. %s (%s) - %s\n", i+1, p.Name, p.ID, p.Category)
			}
			return nil
		},
	}
}

func writeCounts(out io.Writer, c store.Counts) {
	fmt.Fprintln(out, strings.Repeat("-", 40))
	fmt.Fprintf(out, "  %-20s : %d\n", "categories", c.Categories)
	fmt.Fprintf(out, "  %-20s : %d\n", "subcategories", c.SubCategories)
	fmt.Fprintf(out, "  %-20s : %d\n", "products", c.Products)
	fmt.Fprintf(out, "  %-20s : %d\n", "admins", c.Admins)
	fmt.Fprintln(out, strings.Repeat("-", 40))
}

func (a *app) clearProductsCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear-products",
		Short: "Delete every persisted product",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete products without --yes")
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			n, err := store.ClearProducts(ctx, st)
			if err != nil {
				return err
			}
			a.log.Warn("Products cleared", zap.Int("deleted", n))
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d product(s)\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

func (a *app) clearAllCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear-all",
		Short: "Delete every product, subcategory and category (admins are kept)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete the catalog without --yes")
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			removed, err := store.ClearAll(ctx, st)
			if err != nil {
				return err
			}
			a.log.Warn("Catalog cleared",
				zap.Int("products", removed.Products),
				zap.Int("subcategories", removed.SubCategories),
				zap.Int("categories", removed.Categories))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Deleted %d product(s)\n", removed.Products)
			fmt.Fprintf(out, "Deleted %d subcategorie(s)\n", removed.SubCategories)
			fmt.Fprintf(out, "Deleted %d categorie(s)\n", removed.Categories)
			fmt.Fprintln(out, "Data will not be re-imported automatically")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

func (a *app) browseCmd() *cobra.Command {
	var (
		api    string
		params query.Params
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "List products from a running API, or the built-in catalog when it is unreachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.NewClient(api, a.log)
			catalog := client.NewCatalog(c, store.NewFixtureStore())

			page, err := catalog.ListProducts(cmd.Context(), params)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range page.Products {
				stock := "in stock"
				if !p.InStock {
					stock = "out of stock"
				}
				fmt.Fprintf(out, "%-12s %-40s %9.2f  %s\n", p.ID, p.Name, p.Price, stock)
			}
			pg := page.Pagination
			fmt.Fprintf(out, "page %d/%d, %d product(s)\n", pg.CurrentPage, pg.TotalPages, pg.TotalProducts)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&api, "api", "http://localhost:5000/api", "catalog API base URL")
	flags.StringVar(&params.Category, "category", "", "category id")
	flags.StringVar(&params.SubCategory, "sub-category", "", "subcategory id")
	flags.StringVar(&params.Search, "search", "", "search in name and description")
	flags.StringVar(&params.Type, "type", "", "product type")
	flags.StringVar(&params.Usage, "usage", "", "product usage")
	flags.StringVar(&params.SortBy, "sort", query.SortName, "name, price-asc or price-desc")
	flags.IntVar(&params.Page, "page", 1, "page number")
	flags.IntVar(&params.Limit, "limit", 0, "page size")
	return cmd
}
