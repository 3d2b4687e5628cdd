package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tltv/timeline-flow/internal/cli/config"
	"github.com/tltv/timeline-flow/internal/ui"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewServeCommand creates the serve command. configFile reports the resolved
// config file path so the server can watch it for live re-render.
func NewServeCommand(configFile func() string) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the timeline on the web",
		Long: `Start a local web server rendering the timeline with a control panel:
resolution, start/end, locale, timezone and row toggles. Panel choices are
kept per browser session; edits to the config file re-render every open
page live.`,
		Example: `  # Serve on the default port
  timeline-flow serve

  # Custom port, no browser
  timeline-flow serve --port 3000 --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts, configFile())
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8497)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Watch the config file for changes")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions, configFile string) error {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	logger := config.GetLogger(cmd.Context())

	uiCfg := cfg.GetUIConfig()

	// CLI flags override config file
	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	autoOpen := uiCfg.AutoOpen
	if opts.NoBrowser {
		autoOpen = false
	}

	watch := uiCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	secret := uiCfg.SessionSecret
	if secret == "" {
		secret = randomSecret()
	}

	server := ui.NewServer(ui.Config{
		Base:          cfg,
		ConfigFile:    configFile,
		Port:          port,
		Watch:         watch,
		SessionSecret: secret,
		Logger:        logger,
	})

	if autoOpen {
		url := fmt.Sprintf("http://localhost:%d", port)
		go openBrowser(url)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Serving timeline on http://localhost:%d\n", port)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx)
}

// randomSecret generates a per-process session secret when none is
// configured. Sessions then expire on restart, which is fine for a dev tool.
func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "timeline-flow-fallback-secret"
	}
	return hex.EncodeToString(buf)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return
	}

	_ = cmd.Start()
}
