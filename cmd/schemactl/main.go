// Package main, şema açıklamalarını sunucuyu başlatmadan derleyip
// kontrol etmek için komut satırı aracıdır.
//
//	schemactl compile schema.yaml --sort
//	schemactl diff schema.yaml --snapshot ./data/schema.snapshot
//	schemactl apply schema.yaml --db ./data/tohum.db --snapshot ./data/schema.snapshot
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/akinalp/tohum/database"
	"github.com/akinalp/tohum/schema"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "schemactl",
		Short:         "Compile and apply tohum schema descriptions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(compileCmd(), diffCmd(), applyCmd())
	return cmd
}

func compileCmd() *cobra.Command {
	var sortRefs bool

	cmd := &cobra.Command{
		Use:   "compile <schema.yaml>",
		Short: "Print the DDL statements a schema compiles to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return compile(cmd.OutOrStdout(), cmd.ErrOrStderr(), text, sortRefs)
		},
	}

	cmd.Flags().BoolVar(&sortRefs, "sort", false, "Order models so referenced tables are created first")
	return cmd
}

func compile(out, errOut io.Writer, text []byte, sortRefs bool) error {
	s, err := schema.Parse(text)
	if err != nil {
		return err
	}

	if sortRefs {
		sorted, err := schema.SortByReferences(s)
		if err != nil {
			if !errors.Is(err, schema.ErrReferenceCycle) {
				return err
			}
			fmt.Fprintf(errOut, "warning: %v, keeping declared order\n", err)
		}
		s = sorted
	}

	statements, err := schema.Compile(s)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, strings.Join(statements, "\n\n"))
	return nil
}

func diffCmd() *cobra.Command {
	var snapshotPath string

	cmd := &cobra.Command{
		Use:   "diff <schema.yaml>",
		Short: "Report whether the schema differs from the last applied snapshot",
		Long: `Exits with status 0 and prints "unchanged" when the schema text equals
the stored snapshot byte for byte. Otherwise prints "changed"; the next
server start will drop and recreate every table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			previous, err := database.NewFileSnapshotStore(snapshotPath).Load(cmd.Context())
			if err != nil {
				return err
			}

			if database.HasChanged(previous, string(text)) {
				fmt.Fprintln(cmd.OutOrStdout(), "changed")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "unchanged")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "./data/schema.snapshot", "Snapshot file path")
	return cmd
}

func applyCmd() *cobra.Command {
	var (
		dbPath       string
		snapshotPath string
		sortRefs     bool
	)

	cmd := &cobra.Command{
		Use:   "apply <schema.yaml>",
		Short: "Run the migration gate against a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			db, err := database.New(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			gate := &database.Gate{
				Store:            database.NewFileSnapshotStore(snapshotPath),
				Exec:             db,
				SortByReferences: sortRefs,
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			outcome, err := gate.Apply(ctx, string(text))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcome)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "./data/tohum.db", "SQLite database path")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "./data/schema.snapshot", "Snapshot file path")
	cmd.Flags().BoolVar(&sortRefs, "sort", true, "Order models so referenced tables are created first")
	return cmd
}
