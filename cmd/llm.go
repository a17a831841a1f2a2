package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/framequiz/internal/llm"
	"github.com/abhisek/framequiz/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the LLM request log",
	Long: `Inspect LLM calls recorded by serve and ask.

Recording is enabled by store.path in the config file or the --db flag.`,
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded LLM calls, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := store.QueryOpts{}
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		opts.Purpose, _ = cmd.Flags().GetString("purpose")
		opts.Failed, _ = cmd.Flags().GetBool("failed")

		return withEventRepo(cmd, func(ctx context.Context, repo store.EventRepo) error {
			events, err := repo.QueryLLMEvents(ctx, opts)
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "no calls recorded")
				return nil
			}

			tw := newTable(out)
			fmt.Fprintln(tw, "ID\tTIME\tPURPOSE\tMODEL\tTOKENS\tMS\tRESULT")
			for _, e := range events {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d/%d\t%d\t%s\n",
					e.ID, e.Timestamp.Local().Format(timeLayout), e.Purpose, e.Model,
					e.InputTokens, e.OutputTokens, e.LatencyMs, result(e))
			}
			return tw.Flush()
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply of one recorded call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid event id %q", args[0])
		}

		return withEventRepo(cmd, func(ctx context.Context, repo store.EventRepo) error {
			e, err := repo.GetLLMEvent(ctx, id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}

			out := cmd.OutOrStdout()
			tw := newTable(out)
			fmt.Fprintf(tw, "id\t%d\n", e.ID)
			fmt.Fprintf(tw, "time\t%s\n", e.Timestamp.Local().Format(timeLayout))
			fmt.Fprintf(tw, "backend\t%s\n", e.Provider)
			fmt.Fprintf(tw, "model\t%s\n", e.Model)
			fmt.Fprintf(tw, "purpose\t%s\n", e.Purpose)
			if e.RequestID != "" {
				fmt.Fprintf(tw, "request id\t%s\n", e.RequestID)
			}
			fmt.Fprintf(tw, "tokens\t%d in, %d out\n", e.InputTokens, e.OutputTokens)
			fmt.Fprintf(tw, "latency\t%dms\n", e.LatencyMs)
			fmt.Fprintf(tw, "result\t%s\n", result(*e))
			if e.ErrorMessage != "" {
				fmt.Fprintf(tw, "error\t%s\n", e.ErrorMessage)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			section(out, "request", e.RequestBody)
			section(out, "response", e.ResponseBody)
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise calls, failures and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEventRepo(cmd, func(ctx context.Context, repo store.EventRepo) error {
			byPurpose, err := repo.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("usage by purpose: %w", err)
			}
			byModel, err := repo.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("usage by model: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(byPurpose) == 0 {
				fmt.Fprintln(out, "no calls recorded")
				return nil
			}

			tw := newTable(out)
			fmt.Fprintln(tw, "PURPOSE\tCALLS\tFAILED\tIN\tOUT\tAVG MS")
			var total store.UsageStat
			for _, st := range byPurpose {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n",
					st.Key, st.Calls, st.Failures, st.InputTokens, st.OutputTokens, st.AvgLatencyMs)
				total.Calls += st.Calls
				total.Failures += st.Failures
				total.InputTokens += st.InputTokens
				total.OutputTokens += st.OutputTokens
			}
			fmt.Fprintf(tw, "total\t%d\t%d\t%d\t%d\t\n",
				total.Calls, total.Failures, total.InputTokens, total.OutputTokens)
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(out)
			tw = newTable(out)
			fmt.Fprintln(tw, "MODEL\tCALLS\tCOST (USD)")
			var sum float64
			var unpriced []string
			for _, mu := range byModel {
				price := llm.LookupCost(mu.Key)
				if price == nil {
					unpriced = append(unpriced, mu.Key)
					fmt.Fprintf(tw, "%s\t%d\t?\n", mu.Key, mu.Calls)
					continue
				}
				c := price.Cost(mu.InputTokens, mu.OutputTokens)
				sum += c
				fmt.Fprintf(tw, "%s\t%d\t%s\n", mu.Key, mu.Calls, usd(c))
			}
			fmt.Fprintf(tw, "total\t\t%s\n", usd(sum))
			if err := tw.Flush(); err != nil {
				return err
			}
			if len(unpriced) > 0 {
				fmt.Fprintf(out, "\nno pricing for %s; total is partial\n", strings.Join(unpriced, ", "))
			}
			return nil
		})
	},
}

// withEventRepo opens the request log named by --db or the config and hands
// its event repo to fn.
func withEventRepo(cmd *cobra.Command, fn func(context.Context, store.EventRepo) error) error {
	path, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	return fn(cmd.Context(), s.EventRepo())
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func result(e store.LLMRequestEvent) string {
	if e.Success {
		return "ok"
	}
	return "failed (" + e.ErrorKind + ")"
}

func section(w io.Writer, title, body string) {
	if body == "" {
		body = "(not captured)"
	}
	fmt.Fprintf(w, "\n--- %s ---\n%s\n", title, strings.TrimRight(body, "\n"))
}

func usd(v float64) string {
	if v < 0.01 {
		return fmt.Sprintf("$%.4f", v)
	}
	return fmt.Sprintf("$%.2f", v)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Maximum number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show calls with this purpose, e.g. quiz-question")
	llmListCmd.Flags().Bool("failed", false, "Only show failed calls")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
