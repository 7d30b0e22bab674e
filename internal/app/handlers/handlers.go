package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/virp/go-shortener/internal/app/storage"
)

// LinkStore is the part of storage.LinkStore the handlers drive.
type LinkStore interface {
	CreateLink(ctx context.Context, destination, requestedCode string) (string, error)
	Resolve(ctx context.Context, code string) (string, bool, error)
	List(ctx context.Context) (storage.LinkTable, error)
}

type Handlers struct {
	Store LinkStore
}

func NewRouter(h Handlers) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/shorten", h.Shorten).Methods(http.MethodPost)
	r.HandleFunc("/links", h.ListLinks).Methods(http.MethodGet)
	r.HandleFunc("/{code}", h.Redirect).Methods(http.MethodGet)

	return RequestLogger(DecompressRequest(r))
}

const maxShortenBody = 1 << 20

type shortenRequest struct {
	URL       string `json:"url"`
	ShortCode string `json:"shortCode,omitempty"`
}

type shortenResponse struct {
	Success   bool   `json:"success"`
	ShortCode string `json:"shortCode,omitempty"`
	Message   string `json:"message,omitempty"`
}

func (h Handlers) Shorten(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxShortenBody)

	var req shortenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	defer func() {
		_ = r.Body.Close()
	}()

	code, err := h.Store.CreateLink(r.Context(), req.URL, req.ShortCode)
	if err != nil {
		switch storage.KindOf(err) {
		case storage.InvalidInput:
			msg := "Invalid short code"
			if strings.TrimSpace(req.URL) == "" {
				msg = "URL is required"
			}
			writeError(w, http.StatusBadRequest, msg)
		case storage.CodeConflict:
			writeError(w, http.StatusBadRequest, "Short code already in use")
		default:
			log.Printf("[%s] create link: %v", RequestID(r.Context()), err)
			writeError(w, http.StatusInternalServerError, "Failed to save link")
		}
		return
	}

	writeJSON(w, http.StatusCreated, shortenResponse{Success: true, ShortCode: code})
}

func (h Handlers) ListLinks(w http.ResponseWriter, r *http.Request) {
	table, err := h.Store.List(r.Context())
	if err != nil {
		log.Printf("[%s] list links: %v", RequestID(r.Context()), err)
		writeError(w, http.StatusInternalServerError, "Failed to read links")
		return
	}

	writeJSON(w, http.StatusOK, table)
}

func (h Handlers) Redirect(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	dest, found, err := h.Store.Resolve(r.Context(), code)
	if err != nil {
		log.Printf("[%s] resolve %q: %v", RequestID(r.Context()), code, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if !found {
		http.NotFound(w, r)
		return
	}

	http.Redirect(w, r, dest, http.StatusMovedPermanently)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, shortenResponse{Success: false, Message: msg})
}
