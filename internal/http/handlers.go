package httpapi

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fairyhunter13/pos-register/internal/catalog"
	"github.com/fairyhunter13/pos-register/internal/config"
	"github.com/fairyhunter13/pos-register/internal/feedback"
	httpopenapi "github.com/fairyhunter13/pos-register/internal/http/openapi"
	"github.com/fairyhunter13/pos-register/internal/obs"
	"github.com/fairyhunter13/pos-register/internal/queue"
	"github.com/fairyhunter13/pos-register/internal/receipt"
	"github.com/fairyhunter13/pos-register/internal/register"
)

// App holds the dependencies shared by the HTTP handlers.
type App struct {
	Cfg      config.Config
	Catalog  *catalog.Catalog
	Manager  *queue.Manager
	Feedback *feedback.Channel
	Header   receipt.Header
	closing  atomic.Bool
	started  time.Time
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
}

type adjustRequest struct {
	Delta int64 `json:"delta"`
}

type tenderRequest struct {
	Raw string `json:"raw"`
}

type quickCashRequest struct {
	Amount int64 `json:"amount"`
}

type presetView struct {
	Amount int64  `json:"amount"`
	Label  string `json:"label"`
}

// NewApp wires an App and derives the receipt header from cfg.
func NewApp(cfg config.Config, cat *catalog.Catalog, m *queue.Manager, fb *feedback.Channel) *App {
	return &App{
		Cfg:      cfg,
		Catalog:  cat,
		Manager:  m,
		Feedback: fb,
		Header: receipt.Header{
			StoreName: cfg.StoreName,
			Branch:    cfg.StoreBranch,
			Location:  cfg.ReceiptLocation,
		},
		started: time.Now(),
	}
}

// StartShutdown refuses new commands; reads keep working.
func (a *App) StartShutdown() {
	a.closing.Store(true)
	a.Manager.CloseIntake()
}

// run sends cmd to the register and answers with the resulting view.
func (a *App) run(w http.ResponseWriter, r *http.Request, cmd register.Command) {
	if a.closing.Load() || a.Manager.IsShuttingDown() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	ctx := r.Context()
	if a.Cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Cfg.RequestTimeout)
		defer cancel()
	}
	res, err := a.Manager.Do(ctx, cmd)
	if err == nil {
		err = res.Outcome.Err
	}
	if err != nil {
		obs.Logger.Info("command_failed",
			"request_id", RequestIDFromContext(r.Context()),
			"command", cmd.Name(),
			"error", err.Error(),
		)
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRegisterView(res.State, a.Header.Location))
}

func (a *App) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	ps := a.Catalog.Filter(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, map[string]any{"products": ps, "count": len(ps)})
}

func (a *App) getRegisterHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newRegisterView(a.Manager.Snapshot(), a.Header.Location))
}

func (a *App) resetSaleHandler(w http.ResponseWriter, r *http.Request) {
	a.run(w, r, register.ResetSale{})
}

func (a *App) addItemHandler(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, ok := a.Catalog.Find(req.ProductID)
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "unknown_product", "product "+strconv.FormatInt(req.ProductID, 10)+" is not in the catalog")
		return
	}
	a.run(w, r, register.AddItem{Product: p})
}

func (a *App) adjustQuantityHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_product_id", "product id must be an integer")
		return
	}
	var req adjustRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a.run(w, r, register.AdjustQuantity{ProductID: id, Delta: req.Delta})
}

func (a *App) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	a.run(w, r, register.ClearCart{})
}

func (a *App) setTenderHandler(w http.ResponseWriter, r *http.Request) {
	var req tenderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a.run(w, r, register.SetTender{Raw: req.Raw})
}

func (a *App) quickCashHandler(w http.ResponseWriter, r *http.Request) {
	var req quickCashRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !slices.Contains(a.Cfg.QuickCash, req.Amount) {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "amount must be one of the quick-cash presets")
		return
	}
	a.run(w, r, register.AddTender{Amount: req.Amount})
}

func (a *App) presetsHandler(w http.ResponseWriter, r *http.Request) {
	out := make([]presetView, 0, len(a.Cfg.QuickCash))
	for _, amt := range a.Cfg.QuickCash {
		out = append(out, presetView{Amount: amt, Label: receipt.FormatNumber(amt)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"presets": out})
}

func (a *App) settlementHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newTotalsView(a.Manager.Snapshot().Totals()))
}

func (a *App) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	a.run(w, r, register.Submit{})
}

func (a *App) getReceiptHandler(w http.ResponseWriter, r *http.Request) {
	rc, ok := a.Manager.Snapshot().Receipt()
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "no_pending_receipt", "")
		return
	}
	writeJSON(w, http.StatusOK, newReceiptView(rc, a.Header.Location))
}

func (a *App) printPreviewHandler(w http.ResponseWriter, r *http.Request) {
	rc, ok := a.Manager.Snapshot().Receipt()
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "no_pending_receipt", "")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := receipt.Render(w, rc, a.Header); err != nil {
		obs.Logger.Warn("print_preview_failed", "receipt_id", rc.ID, "error", err.Error())
	}
}

func (a *App) proceedHandler(w http.ResponseWriter, r *http.Request) {
	a.run(w, r, queue.Proceed{})
}

func (a *App) cancelReceiptHandler(w http.ResponseWriter, r *http.Request) {
	a.run(w, r, register.Cancel{})
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	qs := a.Manager.QueueStats()
	applied, rejected := a.Manager.CommandMetrics()
	st := a.Manager.Snapshot()
	m := map[string]any{
		"commands_enqueued":  qs.Enqueued,
		"commands_processed": qs.Processed,
		"commands_shed":      qs.Shed,
		"commands_applied":   applied,
		"commands_rejected":  rejected,
		"backlog_size":       qs.Backlog,
		"queue_depth":        qs.Depth,
		"queue_saturated":    qs.Saturated,
		"register_version":   st.Version(),
		"register_phase":     st.Phase().String(),
		"catalog_size":       a.Catalog.Len(),
		"uptime_sec":         time.Since(a.started).Seconds(),
	}
	if a.Feedback != nil {
		emitted, dropped := a.Feedback.Metrics()
		m["feedback_emitted"] = emitted
		m["feedback_dropped"] = dropped
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>POS Register API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
