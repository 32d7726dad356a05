package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlibekovAA/tasktrack/internal/common/bootstrap"
	"github.com/AlibekovAA/tasktrack/internal/common/config"
	srv "github.com/AlibekovAA/tasktrack/internal/common/server"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup finishes before exit.
func run() int {
	cfg, err := config.LoadAPIConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	log, err := bootstrap.NewLogger(cfg, "api")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer log.Close()

	app, err := bootstrap.NewApp(cfg, log)
	if err != nil {
		log.Errorf("failed to start api: %v", err)
		return 1
	}
	defer app.Close()

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), app.Handler, log)

	hooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Info("api service: closing task event feed")
			return app.Shutdown(ctx)
		},
	}

	if err := srv.Run(server, log, "api", hooks); err != nil {
		log.Errorf("api service exited: %v", err)
		return 1
	}
	return 0
}
