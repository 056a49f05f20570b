package server

import (
	"net/http"

	"github.com/mattackal/family-onboarding/pkg/application"
	"github.com/mattackal/family-onboarding/pkg/configuration"
	"github.com/mattackal/family-onboarding/pkg/constants"
	"github.com/mattackal/family-onboarding/pkg/httpapi"
	"github.com/mattackal/family-onboarding/pkg/middleware"
	"github.com/mattackal/family-onboarding/pkg/server"
)

// Default assembles the HTTP server with the standard middleware chain.
func Default(app application.Application, conf *configuration.Configuration) *server.HTTPServer {
	app.RegisterMiddleware(
		middleware.Cors(conf.AllowedOrigins),
		middleware.WithLogger(app.Logger()),
		middleware.Provide(constants.AppKey, app),
	)
	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "no such route", nil)
	})
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed for this route", nil)
	})
	return server.NewHTTPServer(app, notFound, methodNotAllowed)
}
