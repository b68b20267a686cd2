package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"

	"github.com/owaisjunedi/dev-interview-platform/internal/auth"
	"github.com/owaisjunedi/dev-interview-platform/internal/config"
	"github.com/owaisjunedi/dev-interview-platform/internal/handlers"
	"github.com/owaisjunedi/dev-interview-platform/internal/runner"
	"github.com/owaisjunedi/dev-interview-platform/internal/services"
	_ "github.com/owaisjunedi/dev-interview-platform/pb_migrations"
)

func main() {
	pb := pocketbase.New()

	cfg := config.Load()

	migratecmd.MustRegister(pb, pb.RootCmd, migratecmd.Config{})

	pb.OnServe().BindFunc(func(se *core.ServeEvent) error {
		logger := pb.Logger()

		// Sync engine wiring. The store is the only stateful collaborator;
		// everything else lives in this process.
		store := services.NewRecordStore(pb)
		metrics := services.NewMetrics()
		registry := services.NewRegistry()
		roster := services.NewRoster()
		state := services.NewStateCache(store)
		hub := services.NewHub(logger, metrics)
		router := services.NewRouter(logger, registry, roster, state, hub, metrics)

		tokens := auth.New(cfg.JWTSecret, cfg.TokenTTL)
		run := runner.New(cfg.PythonBin, cfg.NodeBin, cfg.ExecTimeout)
		ws := handlers.NewWSHandler(logger, cfg, hub, router, metrics)

		se.Router.POST("/auth/signup", handlers.Signup(pb, tokens))
		se.Router.POST("/auth/login", handlers.Login(pb, tokens))

		se.Router.GET("/sessions", handlers.SessionsList(store))
		se.Router.POST("/sessions", handlers.SessionsCreate(store))
		se.Router.GET("/sessions/{id}", handlers.SessionsView(store))
		se.Router.PUT("/sessions/{id}", handlers.RequireAuth(tokens, handlers.SessionsUpdate(store)))
		se.Router.POST("/sessions/{id}/terminate", handlers.RequireAuth(tokens, handlers.SessionsTerminate(store, router)))

		se.Router.POST("/execute", handlers.Execute(run, router))
		se.Router.GET("/resources/questions", handlers.Questions())

		se.Router.GET("/ws", ws.Handle)

		se.Router.GET("/health", handlers.HandleHealth(metrics))
		se.Router.GET("/metrics", handlers.HandleMetrics(metrics))

		return se.Next()
	})

	if err := pb.Start(); err != nil {
		log.Fatal(err)
	}
}
