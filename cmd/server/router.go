package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/taskapi/internal/api"
	apiMiddleware "github.com/phrazzld/taskapi/internal/api/middleware"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	// Health stays reachable when clients are rate limited.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	commentHandler := api.NewCommentHandler(app.commentService, app.logger)

	r.Group(func(r chi.Router) {
		if rl := app.config.RateLimit; rl.Enabled {
			r.Use(apiMiddleware.NewRateLimiter(rl.Requests, rl.Window).Middleware)
		}

		r.Get("/task/tasks", taskHandler.ListTasks)
		r.Get("/task", taskHandler.GetTask)
		r.Post("/task", taskHandler.CreateTask)
		r.Put("/task", taskHandler.UpdateTask)
		r.Delete("/task", taskHandler.DeleteTask)

		r.Get("/comments", commentHandler.ListComments)
		r.Post("/comments", commentHandler.CreateComment)
		r.Put("/comments", commentHandler.UpdateComment)
		r.Delete("/comments", commentHandler.DeleteComment)
	})

	return r
}
