package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"moviecat/internal/api"
	"moviecat/internal/chat"
	"moviecat/internal/config"
	"moviecat/internal/journal"
	"moviecat/internal/services"
	"moviecat/internal/services/llm"
	"moviecat/internal/store"
	"moviecat/internal/translator"
)

// chatRuntime owns the resources behind a chat session.
type chatRuntime struct {
	service *chat.Service
	store   *store.Store
	journal *journal.Journal
}

func (r *chatRuntime) Close() {
	if r.journal != nil {
		_ = r.journal.Close()
	}
	if r.store != nil {
		_ = r.store.Close()
	}
}

// newChatService wires the translator, catalog service and journal for cfg
// over an already open store.
func newChatService(cfg *config.Config, st *store.Store, logger *slog.Logger) (*chat.Service, *journal.Journal, error) {
	gen, err := llm.New(llm.FromConfig(cfg))
	if err != nil {
		return nil, nil, err
	}
	tr := translator.New(gen, translator.WithTimeout(cfg.LLMTimeout()), translator.WithLogger(logger))

	var j *journal.Journal
	if path := cfg.JournalPath(); path != "" {
		j, err = journal.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open chat journal: %w", err)
		}
	}
	catalogSvc := api.NewCatalogService(st, logger)
	// A nil *journal.Journal must not become a non-nil interface.
	if j == nil {
		return chat.NewService(tr, catalogSvc, nil, logger), nil, nil
	}
	return chat.NewService(tr, catalogSvc, j, logger), j, nil
}

func (c *commandContext) chatRuntime() (*chatRuntime, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger := c.cliLogger()
	st, err := c.openStore(logger)
	if err != nil {
		return nil, err
	}
	svc, j, err := newChatService(cfg, st, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return &chatRuntime{service: svc, store: st, journal: j}, nil
}

func newChatCommand(ctx *commandContext) *cobra.Command {
	var showRequest bool
	cmd := &cobra.Command{
		Use:   "chat [question]",
		Short: "Ask about the catalog in plain language",
		Long: "With a question argument, answers it and exits. Without one, reads\n" +
			"questions line by line from stdin until EOF or \"exit\".",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.chatRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			if len(args) > 0 {
				return askOnce(cmd, ctx, rt.service, strings.Join(args, " "), showRequest)
			}
			return chatLoop(cmd, ctx, rt.service, cmd.InOrStdin(), showRequest)
		},
	}
	cmd.Flags().BoolVar(&showRequest, "show-request", false, "Print the structured request derived from each question")
	return cmd
}

func chatLoop(cmd *cobra.Command, ctx *commandContext, svc *chat.Service, in io.Reader, showRequest bool) error {
	out := cmd.OutOrStdout()
	interactive := shouldColorize(in)
	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		if err := askOnce(cmd, ctx, svc, line, showRequest); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			// The session survives a bad question.
			fmt.Fprintf(cmd.ErrOrStderr(), "error (%s): %v\n", services.Kind(err), err)
		}
	}
	return scanner.Err()
}

// chatFailure is the --json shape of a chat message that failed. Request is
// set when the message translated but the request failed to execute.
type chatFailure struct {
	RequestID string       `json:"request_id"`
	Query     string       `json:"query"`
	Request   *api.Request `json:"request,omitempty"`
	Error     string       `json:"error"`
	Kind      string       `json:"kind"`
}

func askOnce(cmd *cobra.Command, ctx *commandContext, svc *chat.Service, question string, showRequest bool) error {
	resp, err := svc.Chat(cmd.Context(), question)
	if err != nil {
		if ctx.jsonOutput() {
			if werr := writeJSON(cmd, chatFailure{
				RequestID: resp.RequestID,
				Query:     resp.Query,
				Request:   resp.Request,
				Error:     err.Error(),
				Kind:      services.Kind(err),
			}); werr != nil {
				return werr
			}
		} else if showRequest {
			printDerivedRequest(cmd.OutOrStdout(), resp.Request)
		}
		return err
	}
	if ctx.jsonOutput() {
		return writeJSON(cmd, resp)
	}
	out := cmd.OutOrStdout()
	if showRequest {
		printDerivedRequest(out, resp.Request)
	}
	if resp.Result == nil {
		return nil
	}
	req := api.Request{}
	if resp.Request != nil {
		req = *resp.Request
	}
	return printResult(cmd, ctx, req, *resp.Result)
}

func printDerivedRequest(out io.Writer, req *api.Request) {
	if req == nil {
		return
	}
	encoded, err := json.Marshal(req)
	if err != nil {
		return
	}
	fmt.Fprintln(out, dim(string(encoded), shouldColorize(out)))
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent chat exchanges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.JournalPath()
			if path == "" {
				return errors.New("chat journal is disabled (set chat.journal = true)")
			}
			if limit <= 0 {
				limit = cfg.Chat.HistoryLimit
			}
			j, err := journal.Open(path)
			if err != nil {
				return err
			}
			defer j.Close()
			entries, err := j.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, entries)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No chat history.")
				return nil
			}
			fmt.Fprintln(out, renderHistory(entries))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of exchanges to show (default from config)")
	return cmd
}

func renderHistory(entries []journal.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		outcome := string(e.Outcome)
		if e.ErrorKind != "" {
			outcome += " (" + e.ErrorKind + ")"
		}
		op := e.Operation
		if op == "" {
			op = "-"
		}
		rows = append(rows, []string{
			e.Time.Local().Format(time.DateTime),
			e.Query,
			op,
			outcome,
			strconv.FormatInt(e.DurationMS, 10) + "ms",
		})
	}
	return renderTable([]string{"Time", "Question", "Operation", "Outcome", "Took"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight})
}
