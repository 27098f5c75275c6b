package httpapi

import (
	"expvar"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()
	r.Use(WithRequestID)
	r.Use(WithLogging)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	})

	r.Get("/products", app.listProductsHandler)

	r.Route("/register", func(r chi.Router) {
		r.Get("/", app.getRegisterHandler)
		r.Delete("/", app.resetSaleHandler)
	})
	r.Route("/cart", func(r chi.Router) {
		r.Delete("/", app.clearCartHandler)
		r.Post("/items", app.addItemHandler)
		r.Patch("/items/{productID}", app.adjustQuantityHandler)
	})
	r.Route("/tender", func(r chi.Router) {
		r.Put("/", app.setTenderHandler)
		r.Post("/quick", app.quickCashHandler)
		r.Get("/presets", app.presetsHandler)
	})
	r.Get("/settlement", app.settlementHandler)
	r.Post("/checkout", app.checkoutHandler)
	r.Route("/receipt", func(r chi.Router) {
		r.Get("/", app.getReceiptHandler)
		r.Get("/print-preview", app.printPreviewHandler)
		r.Post("/proceed", app.proceedHandler)
		r.Post("/cancel", app.cancelReceiptHandler)
	})

	r.Get("/healthz", app.healthHandler)
	r.Get("/debug/metrics", app.metricsHandler)
	r.Handle("/debug/vars", expvar.Handler())
	r.Get("/openapi.yaml", app.openapiHandler)
	r.Get("/docs", app.docsHandler)
	return r
}
