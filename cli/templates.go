package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ByLCY/quotecard/style"
)

func newTemplatesCmd() *cobra.Command {
	var (
		file   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg, err := loadRegistry(configFromContext(ctx), file, loggerFromContext(ctx))
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(reg.All())
			}
			printTemplates(cmd.OutOrStdout(), reg.All())
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "templates", "", "user template file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print full configurations as JSON")
	return cmd
}

func printTemplates(w io.Writer, templates []style.Template) {
	for i, t := range templates {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, StyleTitle.Render(t.Name))
		text := t.Text
		printDetail(w, "font", fmt.Sprintf("%s · %g%% · %s", text.FontFamily, text.FontSize, text.Align))
		printDetail(w, "color", swatch(text.Color))
		printDetail(w, "quote marks", onOff(text.QuoteMarks.Enabled, string(text.QuoteMarks.Variant)))
		printDetail(w, "frame", onOff(t.Frame.Enabled, fmt.Sprintf("%s %g%%", t.Frame.Variant, t.Frame.Width)))
		printDetail(w, "separator", onOff(t.Separator.Enabled, fmt.Sprintf("%g%% × %gpx", t.Separator.Width, t.Separator.Thickness)))
		if t.Image.Blur > 0 {
			printDetail(w, "blur", fmt.Sprintf("%gpx", t.Image.Blur))
		}
	}
}

func onOff(enabled bool, detail string) string {
	if !enabled {
		return StyleDim.Render("off")
	}
	return detail
}
