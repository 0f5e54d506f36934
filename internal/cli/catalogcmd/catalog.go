package catalogcmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cuihairu/arcadehub/internal/catalog"
	"github.com/cuihairu/arcadehub/internal/db"
	dom "github.com/cuihairu/arcadehub/internal/ports"
	repocatalog "github.com/cuihairu/arcadehub/internal/repo/gorm/catalog"
	"github.com/cuihairu/arcadehub/internal/search"
)

// New returns the `arcadehub catalog` command group.
func New() *cobra.Command {
	cmd := &cobra.Command{Use: "catalog", Short: "Inspect and import catalog documents"}
	cmd.AddCommand(newValidate(), newSearch(), newImport())
	return cmd
}

func load(ctx context.Context, location string) (dom.Catalog, error) {
	src, err := catalog.NewSource(catalog.Config{Location: location})
	if err != nil {
		return dom.Catalog{}, err
	}
	return catalog.Load(ctx, src)
}

func newValidate() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <path|url>",
		Short: "Check a catalog document against the schema and uniqueness rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog OK: %d games\n", c.Len())
			return nil
		},
	}
}

func newSearch() *cobra.Command {
	var location string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Print the games whose title or description contains query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(cmd.Context(), location)
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			printGames(cmd.OutOrStdout(), search.Filter(c.Games(), query))
			return nil
		},
	}
	cmd.Flags().StringVar(&location, "catalog", "configs/games.json", "catalog document: path, http(s) URL or bucket URL")
	return cmd
}

func printGames(w io.Writer, games []dom.Game) {
	for _, g := range games {
		fmt.Fprintf(w, "%s\t%s\n", g.ID, g.Title)
	}
	fmt.Fprintf(w, "%d games found\n", len(games))
}

func newImport() *cobra.Command {
	var dsn string
	cmd := &cobra.Command{
		Use:   "import <path|url>",
		Short: "Replace the database catalog with a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			gdb, err := db.Open(dsn)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := repocatalog.AutoMigrate(gdb); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			repo := repocatalog.NewPortRepo(repocatalog.NewRepo(gdb))
			if err := repo.ReplaceAll(cmd.Context(), c.Games()); err != nil {
				return fmt.Errorf("import: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d games\n", c.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "database DSN (postgres://, mysql://, sqlite:///path); default data/arcadehub.db")
	return cmd
}
