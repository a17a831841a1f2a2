package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/framequiz/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the quiz HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if !cfg.IsDevelopment() {
			gin.SetMode(gin.ReleaseMode)
		}

		log.Info("starting framequiz",
			zap.String("version", version),
			zap.String("provider", cfg.LLM.Provider),
			zap.String("model", a.provider.ModelID()),
			zap.Bool("request_log", a.store != nil),
		)

		router := server.NewRouter(a.generator, a.provider.ModelID(), log)
		srv := server.New(cfg.Server.Addr, router, cfg.Server.ShutdownTimeout, log)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
