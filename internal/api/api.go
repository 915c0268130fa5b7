// Package api exposes the acquisition pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/MananiDennis/alumniSystem/internal/acquire"
	"github.com/MananiDennis/alumniSystem/internal/ingest"
	"github.com/MananiDennis/alumniSystem/internal/model"
	"github.com/MananiDennis/alumniSystem/internal/query"
	"github.com/MananiDennis/alumniSystem/internal/schedule"
	"github.com/MananiDennis/alumniSystem/internal/search"
	"github.com/MananiDennis/alumniSystem/internal/stats"
	"github.com/MananiDennis/alumniSystem/internal/store"
)

const (
	maxRequestBodySize = 1 << 20  // 1MB
	maxUploadBodySize  = 16 << 20 // spreadsheets run larger than JSON bodies
)

// Acquirer runs acquisition batches.
type Acquirer interface {
	AcquireBatch(ctx context.Context, reqs []search.Request) (*model.BatchResult, error)
}

// Reporter produces freshness reports.
type Reporter interface {
	Report(ctx context.Context) (*schedule.Report, error)
}

// Summarizer computes population stats.
type Summarizer interface {
	Summarize(ctx context.Context) (*stats.Summary, error)
}

// Updater refreshes due profiles.
type Updater interface {
	Run(ctx context.Context, tier schedule.Tier) (*model.BatchResult, error)
}

// Querier answers free-text questions about the stored population.
type Querier interface {
	Ask(ctx context.Context, question string) (*query.Result, error)
}

// Deps carries everything the handlers need.
type Deps struct {
	Store      store.Store
	Acquirer   Acquirer
	Tasks      acquire.TaskStore
	Reporter   Reporter
	Summarizer Summarizer
	Updater    Updater
	Querier    Querier
}

// AcquireRequest is the POST /api/acquire body.
type AcquireRequest struct {
	Names []NameRequest `json:"names"`
}

// NameRequest is one name to acquire.
type NameRequest struct {
	Name        string `json:"name"`
	Institution string `json:"institution,omitempty"`
	Region      string `json:"region,omitempty"`
	Context     string `json:"context,omitempty"`
}

// UpdateRequest is the POST /api/update body.
type UpdateRequest struct {
	Tier schedule.Tier `json:"tier"`
}

// QueryRequest is the POST /api/query body.
type QueryRequest struct {
	Question string `json:"question"`
}

// UploadResponse is the POST /api/upload-names reply.
type UploadResponse struct {
	Names []string           `json:"names"`
	Count int                `json:"count"`
	Batch *model.BatchResult `json:"batch,omitempty"`
}

// NewHandler builds the HTTP routing tree.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/acquire", handleAcquire(deps))
		r.Get("/tasks", handleListTasks(deps))
		r.Get("/profiles", handleListProfiles(deps))
		r.Get("/profiles/{id}", handleGetProfile(deps))
		r.Delete("/profiles/{id}", handleDeleteProfile(deps))
		r.Get("/report", handleReport(deps))
		r.Post("/update", handleUpdate(deps))
		r.Get("/stats", handleStats(deps))
		r.Post("/query", handleQuery(deps))
		r.Post("/upload-names", handleUploadNames(deps))
	})

	return r
}

func handleAcquire(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req AcquireRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
			return
		}
		if len(req.Names) == 0 {
			httpError(w, http.StatusBadRequest, "names is required")
			return
		}

		reqs := make([]search.Request, 0, len(req.Names))
		for _, n := range req.Names {
			if n.Name == "" {
				httpError(w, http.StatusBadRequest, "every entry needs a name")
				return
			}
			reqs = append(reqs, search.Request{
				Name:        n.Name,
				Institution: n.Institution,
				Region:      n.Region,
				Context:     n.Context,
			})
		}

		result, err := deps.Acquirer.AcquireBatch(r.Context(), reqs)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "batch failed: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleListTasks(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.Tasks.List())
	}
}

func handleListProfiles(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := store.Filter{
			Industry: model.Industry(r.URL.Query().Get("industry")),
			Name:     r.URL.Query().Get("name"),
			Location: r.URL.Query().Get("location"),
		}
		if y := r.URL.Query().Get("graduation_year"); y != "" {
			year, err := strconv.Atoi(y)
			if err != nil {
				httpError(w, http.StatusBadRequest, "invalid graduation_year %q", y)
				return
			}
			filter.GraduationYear = year
		}
		if c := r.URL.Query().Get("min_confidence"); c != "" {
			conf, err := strconv.ParseFloat(c, 64)
			if err != nil {
				httpError(w, http.StatusBadRequest, "invalid min_confidence %q", c)
				return
			}
			filter.MinConfidence = conf
		}
		if l := r.URL.Query().Get("limit"); l != "" {
			limit, err := strconv.Atoi(l)
			if err != nil {
				httpError(w, http.StatusBadRequest, "invalid limit %q", l)
				return
			}
			filter.Limit = limit
		}
		if o := r.URL.Query().Get("offset"); o != "" {
			offset, err := strconv.Atoi(o)
			if err != nil {
				httpError(w, http.StatusBadRequest, "invalid offset %q", o)
				return
			}
			filter.Offset = offset
		}

		profiles, err := deps.Store.ListAll(r.Context(), filter)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "list failed: %v", err)
			return
		}
		if profiles == nil {
			profiles = []*model.AlumniProfile{}
		}
		writeJSON(w, http.StatusOK, profiles)
	}
}

func handleGetProfile(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		profile, err := deps.Store.Get(r.Context(), id)
		if eris.Is(err, store.ErrNotFound) {
			httpError(w, http.StatusNotFound, "profile %s not found", id)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "get failed: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func handleDeleteProfile(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		err := deps.Store.Delete(r.Context(), id)
		if eris.Is(err, store.ErrNotFound) {
			httpError(w, http.StatusNotFound, "profile %s not found", id)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "delete failed: %v", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleReport(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := deps.Reporter.Report(r.Context())
		if err != nil {
			httpError(w, http.StatusInternalServerError, "report failed: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func handleUpdate(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req UpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
			return
		}
		switch req.Tier {
		case schedule.TierImmediate, schedule.TierShould, schedule.TierCan:
		case "":
			req.Tier = schedule.TierShould
		default:
			httpError(w, http.StatusBadRequest, "unknown tier %q", req.Tier)
			return
		}

		result, err := deps.Updater.Run(r.Context(), req.Tier)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "update failed: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleQuery(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
			return
		}
		if strings.TrimSpace(req.Question) == "" {
			httpError(w, http.StatusBadRequest, "question is required")
			return
		}

		result, err := deps.Querier.Ask(r.Context(), req.Question)
		if eris.Is(err, query.ErrUnavailable) {
			httpError(w, http.StatusServiceUnavailable, "natural-language queries need an Anthropic API key")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "query failed: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleUploadNames(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodySize)

		file, header, err := r.FormFile("file")
		if err != nil {
			httpError(w, http.StatusBadRequest, "file is required: %v", err)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			httpError(w, http.StatusBadRequest, "read upload: %v", err)
			return
		}

		names, err := ingest.ParseNames(header.Filename, data)
		if err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}
		if len(names) == 0 {
			httpError(w, http.StatusBadRequest, "no valid names found in file")
			return
		}

		resp := UploadResponse{Names: names, Count: len(names)}
		if r.FormValue("auto_collect") == "true" {
			reqs := make([]search.Request, 0, len(names))
			for _, name := range names {
				reqs = append(reqs, search.Request{
					Name:        name,
					Institution: r.FormValue("institution"),
					Region:      r.FormValue("region"),
				})
			}
			batch, err := deps.Acquirer.AcquireBatch(r.Context(), reqs)
			if err != nil {
				httpError(w, http.StatusInternalServerError, "batch failed: %v", err)
				return
			}
			resp.Batch = batch
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleStats(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := deps.Summarizer.Summarize(r.Context())
		if err != nil {
			httpError(w, http.StatusInternalServerError, "stats failed: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response failed", zap.Error(err))
	}
}

func httpError(w http.ResponseWriter, code int, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
		"error": msg,
	})
}
