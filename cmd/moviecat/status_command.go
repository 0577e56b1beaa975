package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"moviecat/internal/journal"
	"moviecat/internal/preflight"
	"moviecat/internal/store"
)

type statusReport struct {
	ConfigPath    string             `json:"config_path"`
	ConfigExists  bool               `json:"config_exists"`
	DataFile      string             `json:"data_file"`
	Records       int                `json:"records"`
	LastID        int                `json:"last_id"`
	Journal       string             `json:"journal,omitempty"`
	JournalCount  int                `json:"journal_entries"`
	LLMProvider   string             `json:"llm_provider"`
	LLMModel      string             `json:"llm_model"`
	APIBind       string             `json:"api_bind"`
	Checks        []preflight.Result `json:"checks"`
	checkFailures int
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, catalog and dependency status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report := statusReport{
				ConfigPath:   ctx.configSource,
				ConfigExists: ctx.configExists,
				DataFile:     cfg.Paths.DataFile,
				Journal:      cfg.JournalPath(),
				LLMProvider:  cfg.LLM.Provider,
				LLMModel:     cfg.LLM.Model,
				APIBind:      cfg.API.Bind,
			}
			if state, _, err := store.Load(cfg.Paths.DataFile); err == nil {
				report.Records = len(state.Movies)
				report.LastID = state.LastID
			}
			if report.Journal != "" {
				if j, err := journal.Open(report.Journal); err == nil {
					report.JournalCount, _ = j.Count(cmd.Context())
					_ = j.Close()
				}
			}
			report.Checks = preflight.RunAll(cmd.Context(), cfg)
			report.checkFailures = len(preflight.Failed(report.Checks))

			if ctx.jsonOutput() {
				return writeJSON(cmd, report)
			}
			printStatus(cmd, report)
			return nil
		},
	}
}

func printStatus(cmd *cobra.Command, r statusReport) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	lines := renderSectionHeader("Configuration", colorize)
	configDetail := r.ConfigPath
	if !r.ConfigExists {
		configDetail += " (not found, defaults in use)"
	}
	lines = append(lines,
		renderStatusLine("Config", statusInfo, configDetail, colorize),
		renderStatusLine("API bind", statusInfo, r.APIBind, colorize),
		renderStatusLine("Language model", statusInfo, r.LLMProvider+" / "+r.LLMModel, colorize),
		"",
	)

	lines = append(lines, renderSectionHeader("Catalog", colorize)...)
	lines = append(lines,
		renderStatusLine("Data file", statusInfo, r.DataFile, colorize),
		renderStatusLine("Records", statusInfo, fmt.Sprintf("%d (last id %d)", r.Records, r.LastID), colorize),
	)
	if r.Journal == "" {
		lines = append(lines, renderStatusLine("Chat journal", statusWarn, "disabled", colorize))
	} else {
		lines = append(lines, renderStatusLine("Chat journal", statusInfo, fmt.Sprintf("%s (%d exchanges)", r.Journal, r.JournalCount), colorize))
	}
	lines = append(lines, "")

	lines = append(lines, renderSectionHeader("Checks", colorize)...)
	for _, check := range r.Checks {
		kind := statusOK
		if !check.Passed {
			kind = statusError
		}
		lines = append(lines, renderStatusLine(check.Name, kind, check.Detail, colorize))
	}
	if r.checkFailures > 0 {
		lines = append(lines, "", fmt.Sprintf("%d check(s) failed", r.checkFailures))
	}
	fmt.Fprintln(out, strings.Join(lines, "\n"))
}
