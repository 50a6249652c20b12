package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kryptapp/krypt/internal/auth"
	"github.com/kryptapp/krypt/internal/transfers"
	"github.com/kryptapp/krypt/internal/version"
	"github.com/kryptapp/krypt/pkg/store"
)

type Router struct {
	apiKey string
	store  *store.Store
	gifs   transfers.GifSearcher
}

func NewServer(apiKey string, st *store.Store, gifs transfers.GifSearcher) *Router {
	return &Router{
		apiKey,
		st,
		gifs,
	}
}

// Handler builds the routes served by the api
func (r *Router) Handler() http.Handler {
	cr := chi.NewRouter()

	a := auth.New(r.apiKey)

	// configure middleware
	cr.Use(middleware.RequestID)
	cr.Use(middleware.Logger)

	// configure custom middleware
	cr.Use(OptionsMiddleware)
	cr.Use(HealthMiddleware)
	cr.Use(RequestSizeLimitMiddleware(1 << 20)) // drafts are small, 1MB is plenty
	cr.Use(a.AuthMiddleware)
	cr.Use(middleware.Compress(9))

	// instantiate handlers
	t := transfers.NewService(r.store, r.gifs)
	v := version.NewService()

	// configure routes
	cr.Get("/version", v.Current)

	cr.Get("/state", t.State)
	cr.Post("/connect", t.Connect)
	cr.Post("/reset", t.Reset)
	cr.Patch("/draft", t.UpdateDraft)

	cr.Route("/transfers", func(cr chi.Router) {
		cr.Get("/", t.GetAll)
		cr.Post("/", t.Send)
		cr.Post("/refresh", t.Refresh)
	})

	cr.Route("/notices", func(cr chi.Router) {
		cr.Get("/", t.Notices)
		cr.Delete("/{id}", t.Dismiss)
	})

	cr.Get("/gifs", t.Gif)

	return cr
}

// Start serves the api on the given port
func (r *Router) Start(port int) error {
	return http.ListenAndServe(fmt.Sprintf(":%v", port), r.Handler())
}
