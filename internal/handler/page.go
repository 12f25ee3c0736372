package handler

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"viralcoin/internal/directory"
	"viralcoin/internal/domain"
	"viralcoin/pkg/logger"
)

//go:embed web/index.html web/static
var webFS embed.FS

var pageTemplate = template.Must(template.ParseFS(webFS, "web/index.html"))

// PageHandler renders the single-page front-end.
type PageHandler struct {
	wallet    WalletService
	transfers TransferService
	apps      directory.Source
	logger    logger.Logger
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(wallet WalletService, transfers TransferService, apps directory.Source, log logger.Logger) *PageHandler {
	return &PageHandler{
		wallet:    wallet,
		transfers: transfers,
		apps:      apps,
		logger:    log,
	}
}

type networkOption struct {
	Value    domain.Network
	Label    string
	Selected bool
}

type pageData struct {
	Session      domain.WalletSession
	Networks     []networkOption
	Outcome      *domain.TransferOutcome
	Sending      bool
	Apps         directory.View
	EmptyMessage string
}

// Index renders the page. Each render is one directory fetch cycle.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	session := h.wallet.Session()

	data := pageData{
		Session:      session,
		Outcome:      h.transfers.LastOutcome(),
		Sending:      h.transfers.InFlight(),
		Apps:         directory.Fetch(r.Context(), h.apps, h.logger),
		EmptyMessage: directory.EmptyMessage,
	}
	for _, n := range domain.Networks {
		data.Networks = append(data.Networks, networkOption{
			Value:    n,
			Label:    n.Label(),
			Selected: n == session.Network,
		})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.logger.Error("Page render failed", map[string]interface{}{"error": err.Error()})
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Static serves the page's script and stylesheet.
func Static() http.Handler {
	sub, err := fs.Sub(webFS, "web/static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
