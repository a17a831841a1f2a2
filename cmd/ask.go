package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/framequiz/internal/quiz"
)

var askCmd = &cobra.Command{
	Use:   "ask <id>",
	Short: "Generate one question and print it",
	Long: `Generate a single question for the given number without starting the server.

Useful for checking prompt quality against the configured backend.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, verr := quiz.ParseNumber("id", args[0])
		if verr != nil {
			return fmt.Errorf("invalid question number %q: %w", args[0], verr)
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		ctx := context.Background()
		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		q, err := a.generator.Generate(ctx, n)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(q)
		}

		fmt.Printf("── Question %d ──\n", n)
		fmt.Println(q.Question)
		for i, o := range q.Options {
			fmt.Printf("  %d) %s\n", i+1, o)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().Bool("json", false, "Print the question as JSON")
}
