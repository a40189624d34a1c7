package main

import (
	"net/http"

	"github.com/Dan9191/users-service/internal/handler"
	"github.com/Dan9191/users-service/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// newRouter wires the user routes and middlewares. Metrics wraps Recover so recovered panics are counted.
func newRouter(h *handler.Handler, metrics *middleware.Metrics, metricsHandler http.Handler, log logrus.FieldLogger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.RequestLogger(log), metrics.Middleware, middleware.Recover(log))
	h.Register(r)
	r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)
	return r
}
