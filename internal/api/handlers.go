package api

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"orcafacil/internal"
	"orcafacil/internal/catalog"
	"orcafacil/internal/learned"
	"orcafacil/internal/pipeline"
	"orcafacil/internal/storage"
)

const maxBodyBytes = 10 << 20

type Handler struct {
	resolver *pipeline.Resolver
	learned  *learned.Cache
	catalog  *catalog.Holder
	kv       storage.KV
	version  string
}

func NewHandler(resolver *pipeline.Resolver, cache *learned.Cache, holder *catalog.Holder, kv storage.KV, version string) *Handler {
	return &Handler{resolver: resolver, learned: cache, catalog: holder, kv: kv, version: version}
}

type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	CatalogItems int    `json:"catalogItems"`
}

type ResolveResponse struct {
	Lines     []internal.ResolvedLine `json:"lines"`
	Total     float64                 `json:"total"`
	Clipboard string                  `json:"clipboard"`
}

type CorrectionRequest struct {
	OriginalText string `json:"originalText"`
	ProductID    string `json:"productId"`
}

type CountResponse struct {
	Count int `json:"count"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:       "healthy",
		Version:      h.version,
		CatalogItems: h.catalog.Current().Len(),
	})
}

// Resolve handles POST /api/v1/resolve. The body is the order document; the
// type query parameter names its format and defaults to plain text.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	source := internal.OrderSource(strings.ToLower(r.URL.Query().Get("type")))
	text, err := pipeline.OrderText(source, body)
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}

	lines, err := h.resolver.Resolve(r.Context(), text, h.catalog.Current())
	if err != nil {
		MapError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ResolveResponse{
		Lines:     lines,
		Total:     pipeline.Total(lines),
		Clipboard: pipeline.ClipboardTSV(lines),
	})
}

// ReplaceCatalog handles POST /api/v1/catalog with a TSV body.
func (h *Handler) ReplaceCatalog(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	items := catalog.ParseTSV(string(body))
	if len(items) == 0 {
		WriteProblem(w, r, http.StatusUnprocessableEntity, "catalog has no valid rows")
		return
	}
	if err := catalog.Save(r.Context(), h.kv, items); err != nil {
		MapError(w, r, err)
		return
	}
	h.catalog.Replace(catalog.NewSnapshot(items))
	log.Info().Int("items", len(items)).Msg("catalog replaced")
	writeJSON(w, http.StatusOK, CountResponse{Count: len(items)})
}

func (h *Handler) ListLearned(w http.ResponseWriter, r *http.Request) {
	entries, err := h.learned.Entries(r.Context())
	if err != nil {
		MapError(w, r, err)
		return
	}
	if entries == nil {
		entries = []internal.LearnedMatch{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) ExportLearned(w http.ResponseWriter, r *http.Request) {
	blob, err := h.learned.Export(r.Context())
	if err != nil {
		MapError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="learned_matches.json"`)
	_, _ = w.Write(blob)
}

func (h *Handler) ImportLearned(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	n, err := h.learned.Import(r.Context(), body)
	if err != nil {
		MapError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}

// CorrectLearned handles a manual correction: the given text now maps to the
// given catalog item.
func (h *Handler) CorrectLearned(w http.ResponseWriter, r *http.Request) {
	var req CorrectionRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.OriginalText) == "" || strings.TrimSpace(req.ProductID) == "" {
		WriteProblem(w, r, http.StatusUnprocessableEntity, "originalText and productId are required")
		return
	}
	item, found := h.catalog.Current().ByID(req.ProductID)
	if !found {
		WriteProblem(w, r, http.StatusNotFound, "product not in catalog: "+req.ProductID)
		return
	}
	line, err := h.resolver.Correct(r.Context(), internal.ResolvedLine{
		Quantity:     1,
		OriginalText: req.OriginalText,
	}, item)
	if err != nil {
		MapError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, line)
}

// ConfirmLearned accepts a line as returned by resolve and remembers the
// match it carries.
func (h *Handler) ConfirmLearned(w http.ResponseWriter, r *http.Request) {
	var line internal.ResolvedLine
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&line); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(line.OriginalText) == "" {
		WriteProblem(w, r, http.StatusUnprocessableEntity, "originalText is required")
		return
	}
	if line.MatchedItem != nil {
		item, found := h.catalog.Current().ByID(line.MatchedItem.ID)
		if !found {
			WriteProblem(w, r, http.StatusNotFound, "product not in catalog: "+line.MatchedItem.ID)
			return
		}
		line.MatchedItem = &item
	}
	if err := h.resolver.Confirm(r.Context(), line); err != nil {
		MapError(w, r, err)
		return
	}
	line.IsLearned = true
	writeJSON(w, http.StatusOK, line)
}

func (h *Handler) DeleteLearned(w http.ResponseWriter, r *http.Request) {
	text, err := url.PathUnescape(chi.URLParam(r, "text"))
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "invalid text")
		return
	}
	removed, err := h.learned.Delete(r.Context(), text)
	if err != nil {
		MapError(w, r, err)
		return
	}
	if !removed {
		WriteProblem(w, r, http.StatusNotFound, "no learned match for: "+text)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteProblem(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		WriteProblem(w, r, http.StatusBadRequest, "read body: "+err.Error())
		return nil, false
	}
	return body, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}
