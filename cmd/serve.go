package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/talkboard/internal/render"
	"github.com/ziadkadry99/talkboard/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve <dir>",
	Short: "Serve a site directory with the page behaviours applied",
	Long: `Starts a local HTTP server for a static site directory. Each HTML page is
rendered for its own path (navigation highlight) before it is sent; other
files are served unchanged. Add ?preview=N to a page URL to open the
preview of its Nth .travel-image.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		port, _ := cmd.Flags().GetInt("port")
		allowAll, _ := cmd.Flags().GetBool("allow-all")

		imageBase, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return fmt.Errorf("parsing base_url: %w", err)
		}

		srv := server.New(server.Config{
			Port:    port,
			SiteDir: args[0],
			Render: render.Options{
				Placeholder: cfg.PlaceholderImage,
				ResizeDelay: cfg.Debounce(),
			},
			AllowAll:    allowAll,
			ImageBase:   imageBase,
			ImageClient: &http.Client{Timeout: cfg.Timeout()},
		})

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "talkboard %s serving %s on port %d\n", Version, args[0], port)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().Int("port", 8080, "port to listen on")
	serveCmd.Flags().Bool("allow-all", false, "allow all CORS origins")
	rootCmd.AddCommand(serveCmd)
}
