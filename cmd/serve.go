package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/mrbane10/AI-CV-MatchMaker/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default :8501)")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the cv-matchmaker web UI", zap.String("version", version))

	app := fx.New(appOptions(config, logger))

	if err := app.Start(context.Background()); err != nil {
		logger.Fatal("starting the application", zap.Error(err))
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	if err := app.Stop(context.Background()); err != nil {
		logger.Fatal("stopping the application", zap.Error(err))
	}
}

// appOptions wires the web UI. Hooks start in order (tracing, then the HTTP
// server) and stop in reverse.
func appOptions(config *Config, logger *zap.Logger) fx.Option {
	return fx.Options(
		fx.Supply(config, logger),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(
			newGenerator,
			fx.Annotate(newWorkflow, fx.As(new(web.Matcher))),
			newWebServer,
		),
		fx.Invoke(
			registerTracing,
			registerWebServer,
		),
	)
}

func registerTracing(lc fx.Lifecycle, config *Config, logger *zap.Logger) {
	var shutdown func(context.Context) error
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			shutdown = initTracing(ctx, config, logger)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return shutdown(ctx)
		},
	})
}

func registerWebServer(lc fx.Lifecycle, server *web.Server) {
	lc.Append(fx.Hook{
		OnStart: server.Start,
		OnStop:  server.Stop,
	})
}
