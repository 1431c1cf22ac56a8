package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/quotecard/editor"
)

func newSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <quote>",
		Short: "Ask the design-suggestion service for a text style",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				return editor.ErrNoQuote
			}

			client, c, err := newSuggester(ctx, configFromContext(ctx), logger)
			if err != nil {
				return err
			}
			defer c.Close()

			prog := newProgress(logger)
			sug, err := client.Suggest(ctx, strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Suggestion from %s", client.Model()))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(sug)
		},
	}
	return cmd
}
