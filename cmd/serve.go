package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.lsp.dev/uri"

	"github.com/systerlang/systerview/internal/bridge"
	"github.com/systerlang/systerview/internal/config"
	"github.com/systerlang/systerview/internal/editor"
	"github.com/systerlang/systerview/internal/logging"
	"github.com/systerlang/systerview/internal/panel"
	"github.com/systerlang/systerview/internal/server"
	"github.com/systerlang/systerview/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the diagram panel",
	Long: `Starts the panel server: the visual front end on a local port, the
workspace watcher for .sysml/.kerml activity, and the bridge to the
Syster language server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		log := logging.Init(cfg.LogLevel, verbose)
		return runServe(cfg, log)
	},
}

func runServe(cfg *config.Config, log zerolog.Logger) error {
	watcher, err := watch.New(cfg.Workspace, cfg.Include, cfg.Exclude, log)
	if err != nil {
		return err
	}
	rootURI := uri.File(watcher.Root())

	resolver := bridge.NewResolver(cfg.Server.Command, cfg.Server.Args, rootURI, log)
	defer resolver.Close()

	manager := panel.NewManager(panel.Deps{
		Diagrams: resolver,
		Editor:   editor.NewCommandOpener(cfg.Editor, log),
		Notifier: logNotifier{log},
		Log:      log,
	})

	if err := watcher.Start(); err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Workspace activity plays the role of the editor's active-document
	// events: a recognized file changing refreshes a live panel in scope.
	go func() {
		for ev := range watcher.Events() {
			manager.DocumentActive(ctx, string(uri.File(ev.Path)))
		}
	}()

	srv := server.New(server.Config{
		Port:     cfg.Port,
		RootURI:  string(rootURI),
		AllowAll: cfg.AllowAll,
	}, manager, log)

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	fmt.Printf("systerview panel on http://localhost:%d (workspace %s)\n", cfg.Port, watcher.Root())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		return srv.Shutdown(context.Background())
	}
}

// logNotifier surfaces transient notices on the host log, the closest
// thing a headless panel host has to a dismissible notification.
type logNotifier struct {
	log zerolog.Logger
}

func (n logNotifier) Notify(message string) {
	n.log.Warn().Msg(message)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
