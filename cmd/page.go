package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/talkboard/internal/config"
	"github.com/ziadkadry99/talkboard/internal/page"
	"github.com/ziadkadry99/talkboard/internal/preview"
	"github.com/ziadkadry99/talkboard/internal/progress"
	"github.com/ziadkadry99/talkboard/internal/render"
	"github.com/ziadkadry99/talkboard/internal/walker"
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Run site pages through the client-side behaviours",
}

var pageRenderCmd = &cobra.Command{
	Use:   "render <file.html>",
	Short: "Render a page after load, highlighting and an optional preview click",
	Long: `Loads an HTML page as if it were served at --path, fires the load event
(navigation highlight and fade-in), optionally clicks the Nth .travel-image to
open the preview, and writes the resulting document.

Images are checked against the configured board URL; unreachable images get
the placeholder.`,
	Args: cobra.ExactArgs(1),
	RunE: runPageRender,
}

var pageRenderSiteCmd = &cobra.Command{
	Use:   "render-site <dir>",
	Short: "Render every HTML page of a site directory",
	Long: `Walks a static site directory and renders each HTML page at the
location path matching its place in the tree, writing the results under
--out-dir with the same layout.`,
	Args: cobra.ExactArgs(1),
	RunE: runPageRenderSite,
}

func init() {
	pageRenderCmd.Flags().String("path", "/", "location path the page is served at")
	pageRenderCmd.Flags().Int("preview", 0, "click the Nth .travel-image (1-based, 0 for none)")
	pageRenderCmd.Flags().String("out", "", "output file (defaults to stdout)")
	pageRenderCmd.Flags().Bool("fade", true, "run the load fade-in and wait for it to finish")

	pageRenderSiteCmd.Flags().String("out-dir", "rendered", "output directory")
	pageRenderSiteCmd.Flags().StringSlice("include", nil, "glob patterns of pages to render (default **/*.html)")
	pageRenderSiteCmd.Flags().StringSlice("exclude", nil, "glob patterns of pages to skip")
	pageRenderSiteCmd.Flags().Bool("fade", true, "run the load fade-in and wait for it to finish")

	pageCmd.AddCommand(pageRenderCmd)
	pageCmd.AddCommand(pageRenderSiteCmd)
	rootCmd.AddCommand(pageCmd)
}

// renderOptions builds the render options shared by the page commands.
func renderOptions(cfg *config.Config, path string, fade bool) (render.Options, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return render.Options{}, fmt.Errorf("parsing base_url: %w", err)
	}
	opts := render.Options{
		Path:        path,
		Placeholder: cfg.PlaceholderImage,
		Checker: &preview.HTTPChecker{
			Client: &http.Client{Timeout: cfg.Timeout()},
			Base:   base.ResolveReference(&url.URL{Path: path}),
		},
		ResizeDelay: cfg.Debounce(),
	}
	if fade {
		opts.FadeDelay = page.DefaultFadeDelay
	}
	return opts, nil
}

func runPageRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, _ := cmd.Flags().GetString("path")
	index, _ := cmd.Flags().GetInt("preview")
	out, _ := cmd.Flags().GetString("out")
	fade, _ := cmd.Flags().GetBool("fade")

	opts, err := renderOptions(cfg, path, fade)
	if err != nil {
		return err
	}
	opts.Preview = index
	html, err := render.File(context.Background(), args[0], opts)
	if err != nil {
		return err
	}
	if out == "" {
		fmt.Print(html)
		return nil
	}
	if err := os.WriteFile(out, []byte(html), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
	return nil
}

func runPageRenderSite(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	outDir, _ := cmd.Flags().GetString("out-dir")
	include, _ := cmd.Flags().GetStringSlice("include")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	fade, _ := cmd.Flags().GetBool("fade")

	pages, err := walker.Walk(walker.Config{RootDir: args[0], Include: include, Exclude: exclude})
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("no pages found under %s", args[0])
	}

	ctx := context.Background()
	reporter := progress.NewReporter(os.Stderr)
	reporter.Start(len(pages))
	for _, pg := range pages {
		opts, err := renderOptions(cfg, pg.URLPath, fade)
		if err != nil {
			reporter.Finish()
			return err
		}
		html, err := render.File(ctx, pg.Path, opts)
		if err != nil {
			reporter.Finish()
			return fmt.Errorf("rendering %s: %w", pg.RelPath, err)
		}
		dest := filepath.Join(outDir, filepath.FromSlash(pg.RelPath))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			reporter.Finish()
			return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
		}
		if err := os.WriteFile(dest, []byte(html), 0644); err != nil {
			reporter.Finish()
			return fmt.Errorf("writing %s: %w", dest, err)
		}
		reporter.Done(pg.URLPath)
	}
	reporter.Finish()

	fmt.Printf("Rendered %d pages into %s\n", len(pages), outDir)
	return nil
}
