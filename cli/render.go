package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ByLCY/quotecard/editor"
	"github.com/ByLCY/quotecard/layout"
	canvasrenderer "github.com/ByLCY/quotecard/renderer/canvas"
	"github.com/ByLCY/quotecard/style"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	images        []string
	imageIndex    int
	quote         string
	quotesFile    string
	quoteIndex    int
	template      string
	templatesFile string
	size          int
	output        string
	format        string
	frame         string
	blur          float64
	suggest       bool
	debug         string
	debugRawUnits bool
}

func newRenderCmd() *cobra.Command {
	opts := renderOpts{output: "quote.png"}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a quote image",
		Example: `  quotecard render -i photo.jpg -q "Stay hungry, stay foolish." -t "Urban Explorer" -o card.png
  quotecard render -i a.jpg -i b.jpg --image-index 1 --quotes quotes.txt --quote-index 3 --suggest -o card.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("blur") {
				opts.blur = -1
			}
			return runRender(cmd.Context(), cmd, &opts)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.images, "image", "i", nil, "background image file (repeatable)")
	f.IntVar(&opts.imageIndex, "image-index", 0, "index of the image to use")
	f.StringVarP(&opts.quote, "quote", "q", "", "quote text")
	f.StringVar(&opts.quotesFile, "quotes", "", "text file with one quote per line")
	f.IntVar(&opts.quoteIndex, "quote-index", 0, "index of the quote in --quotes")
	f.StringVarP(&opts.template, "template", "t", "", "template name (default from config)")
	f.StringVar(&opts.templatesFile, "templates", "", "user template file")
	f.IntVarP(&opts.size, "size", "s", 0, "surface side in pixels, at most 800 (default from config)")
	f.StringVarP(&opts.output, "output", "o", opts.output, "output file")
	f.StringVarP(&opts.format, "format", "f", "", "output format: png, jpeg, pdf (default from extension)")
	f.StringVar(&opts.frame, "frame", "", "frame style override: solid, dashed, dotted, double, groove, corners")
	f.Float64Var(&opts.blur, "blur", 0, "background blur override in pixels")
	f.BoolVar(&opts.suggest, "suggest", false, "merge an AI design suggestion into the text style")
	f.StringVar(&opts.debug, "debug", "", "write the resolved layout as JSON to this path")
	f.BoolVar(&opts.debugRawUnits, "debug-raw-units", false, "include raw units in the debug JSON")

	return cmd
}

func runRender(ctx context.Context, cmd *cobra.Command, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)
	prog := newProgress(logger)

	format, err := outputFormat(opts.output, opts.format)
	if err != nil {
		return err
	}

	reg, err := loadRegistry(cfg, opts.templatesFile, logger)
	if err != nil {
		return err
	}
	name := opts.template
	if name == "" {
		name = cfg.Template
	}
	tpl, err := reg.Lookup(name)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, reg.Names())
	}

	size := opts.size
	if size <= 0 {
		size = cfg.Size
	}

	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Logger: logger})
	ed := editor.New(r,
		editor.WithLogger(logger),
		editor.WithConfig(tpl.Configuration),
		editor.WithSize(size),
	)

	if err := loadSources(ed, opts); err != nil {
		return err
	}
	if err := applyOverrides(ed, opts); err != nil {
		return err
	}

	if opts.suggest {
		client, c, err := newSuggester(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer c.Close()
		sug, err := ed.Suggest(ctx, client)
		if err != nil {
			return err
		}
		logger.Info("applied design suggestion", "font", sug.FontFamily, "size", sug.FontSize, "align", sug.Align)
	}

	if opts.debug != "" {
		plan, err := r.PlanWithDebug(ed.Job(), layout.DebugOptions{RawUnits: opts.debugRawUnits})
		if err != nil {
			return err
		}
		if err := writeDebug(plan, opts.debug); err != nil {
			return err
		}
	}

	if _, err := ed.Render(ctx); err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := writeOutput(ed, opts.output, format); err != nil {
		return err
	}

	prog.done("Rendered quote image")
	out := cmd.OutOrStdout()
	printSuccess(out, "Rendered %s with %s", StyleHighlight.Render(string(format)), StyleHighlight.Render(tpl.Name))
	printFile(out, opts.output)
	if opts.debug != "" {
		printFile(out, opts.debug)
	}
	return nil
}

func outputFormat(output, explicit string) (editor.Format, error) {
	if explicit != "" {
		return editor.ParseFormat(explicit)
	}
	return editor.FormatFromFilename(output)
}

func loadSources(ed *editor.Editor, opts *renderOpts) error {
	for _, path := range opts.images {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("读取图片失败: %w", err)
		}
		ed.AddImages(data)
	}
	if len(opts.images) > 0 {
		if err := ed.SelectImage(opts.imageIndex); err != nil {
			return err
		}
	}

	switch {
	case opts.quote != "":
		ed.SetQuotes([]string{opts.quote})
	case opts.quotesFile != "":
		f, err := os.Open(opts.quotesFile)
		if err != nil {
			return fmt.Errorf("读取引文文件失败: %w", err)
		}
		defer f.Close()
		if _, err := ed.LoadQuotes(f); err != nil {
			return err
		}
		if err := ed.SelectQuote(opts.quoteIndex); err != nil {
			return err
		}
	}
	return nil
}

func applyOverrides(ed *editor.Editor, opts *renderOpts) error {
	if opts.frame != "" {
		variant := style.FrameVariant(opts.frame)
		if !variant.Valid() {
			return fmt.Errorf("invalid frame style: %s", opts.frame)
		}
		ed.Update(func(c style.Configuration) style.Configuration {
			return c.WithFrame(func(f style.FrameStyle) style.FrameStyle {
				f.Enabled = true
				f.Variant = variant
				return f
			})
		})
	}
	if opts.blur >= 0 {
		ed.Update(func(c style.Configuration) style.Configuration {
			return c.WithImage(func(i style.ImageStyle) style.ImageStyle {
				i.Blur = opts.blur
				return i
			})
		})
	}
	return nil
}

func writeOutput(ed *editor.Editor, path string, format editor.Format) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}
	if err := ed.Export(f, format); err != nil {
		f.Close()
		return fmt.Errorf("导出失败: %w", err)
	}
	return f.Close()
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
