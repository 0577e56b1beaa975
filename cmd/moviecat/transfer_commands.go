package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"moviecat/internal/config"
	"moviecat/internal/fileutil"
	"moviecat/internal/store"
)

type importSummary struct {
	Source     string `json:"source"`
	Records    int    `json:"records"`
	Reassigned int    `json:"reassigned_ids"`
	Backup     string `json:"backup,omitempty"`
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the catalog with records from a JSON file",
		Long: "Accepts a legacy imdb.json array or a moviecat catalog file. Missing or\n" +
			"duplicate ids, and ids this catalog already issued, are reassigned.\n" +
			"The current catalog is copied to <data_file>.bak first.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(source); err != nil {
				return fmt.Errorf("import source: %w", err)
			}
			incoming, _, err := store.Load(source)
			if err != nil {
				return err
			}

			logger := ctx.cliLogger()
			st, err := ctx.openStore(logger)
			if err != nil {
				return err
			}
			defer st.Close()

			if st.Count() > 0 && !force {
				return fmt.Errorf("catalog %s already holds %d records (use --force to replace them)", st.Path(), st.Count())
			}

			summary := importSummary{Source: source, Records: len(incoming.Movies)}
			if _, err := os.Stat(st.Path()); err == nil {
				summary.Backup = st.Path() + ".bak"
				if err := fileutil.CopyFileVerified(st.Path(), summary.Backup); err != nil {
					return fmt.Errorf("back up catalog: %w", err)
				}
			} else if !errors.Is(err, os.ErrNotExist) {
				return err
			}

			reassigned, err := st.Replace(cmd.Context(), incoming.Movies)
			if err != nil {
				return err
			}
			summary.Reassigned = reassigned

			if ctx.jsonOutput() {
				return writeJSON(cmd, summary)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d records from %s\n", summary.Records, source)
			if summary.Reassigned > 0 {
				fmt.Fprintf(out, "Reassigned %d missing or duplicate ids\n", summary.Reassigned)
			}
			if summary.Backup != "" {
				fmt.Fprintf(out, "Previous catalog saved to %s\n", summary.Backup)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace a non-empty catalog")
	return cmd
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as a plain JSON array",
		Long:  "Writes the records in the legacy imdb.json layout, to stdout or --output.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			state, _, err := store.Load(cfg.Paths.DataFile)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(state.Movies, "", "  ")
			if err != nil {
				return fmt.Errorf("encode catalog: %w", err)
			}
			data = append(data, '\n')

			target := strings.TrimSpace(output)
			if target == "" || target == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if target, err = config.ExpandPath(target); err != nil {
				return err
			}
			if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d records to %s\n", len(state.Movies), target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (default stdout)")
	return cmd
}
