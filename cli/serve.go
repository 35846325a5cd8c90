// ABOUTME: HTTP server subcommand
// ABOUTME: Serves the JSON API and HTML dashboard with a background dashboard refresher
package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web dashboard and JSON API",
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			return runServer(cmd.Context(), rt)
		}),
	}
	defaults := app.viper
	cmd.Flags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.Flags().Duration("refresh", defaults.GetDuration("dashboard.refresh"), "Dashboard refresh interval")
	if err := app.viper.BindPFlag("http.address", cmd.Flags().Lookup("http-address")); err != nil {
		panic(err)
	}
	if err := app.viper.BindPFlag("dashboard.refresh", cmd.Flags().Lookup("refresh")); err != nil {
		panic(err)
	}
	return cmd
}

func runServer(ctx context.Context, rt *Runtime) error {
	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cache := web.NewDashboardCache()
	refresher := crm.NewRefresher(rt.Service, rt.Config.Window, rt.Config.RefreshInterval, cache.Publish).WithLogger(rt.Logger)
	cache.OnInvalidate(func() { refresher.Trigger(signalCtx) })

	handler, err := web.NewHTTPHandler(web.Dependencies{
		Service:         rt.Service,
		Metrics:         rt.Metrics,
		Logger:          rt.Logger,
		Cache:           cache,
		Window:          rt.Config.Window,
		SessionCookie:   rt.Config.SessionCookie,
		SessionRequired: rt.Config.SessionRequired,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              rt.Config.HTTPAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	refreshed := make(chan struct{})
	go func() {
		refresher.Run(signalCtx)
		close(refreshed)
	}()

	errCh := make(chan error, 1)
	go func() {
		rt.Logger.Info("server starting", zap.String("address", rt.Config.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		<-refreshed
		return err
	case err := <-errCh:
		stop()
		<-refreshed
		return err
	}
}
