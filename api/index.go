package handler

import (
	"net/http"
	"os"
	"sync"
	"tablebook/config"
	"tablebook/di"
	"tablebook/shared/logger"
	transport "tablebook/transport/http"
)

var (
	server *transport.HTTP
	once   sync.Once
)

// Handler serves the API from a serverless function. The dependency graph is
// built on the first invocation and reused while the instance stays warm.
// The expired-hold purge job does not run here.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()
		logger.SetLogLevel(cfg)
		logger.SetOutput(cfg, os.Stdout)

		server = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	server.ServeHTTP(w, r)
}
