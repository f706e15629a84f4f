package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/surveyforge/draftd/docpipe"
	"github.com/surveyforge/draftd/pipeline"
	"github.com/surveyforge/draftd/survey"
)

// Stable error codes surfaced alongside the error message. A pipeline
// failure never crashes the process: every handler answers with a payload.
const (
	codeUnsupportedFormat = "unsupported_format"
	codeDocumentRead      = "document_read"
	codeBadRequest        = "bad_request"
	codeInternal          = "internal"
)

func newRouter(svc *pipeline.Service, logger *slog.Logger, mcpSrv *mcp.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(recoverPanics(logger))

	r.Get("/health", handleHealth(svc))
	r.Post("/ingest", handleIngest(svc, logger))
	r.Post("/extract", handleExtract(svc, logger))
	r.Post("/export/decipher", handleExport(svc, logger))

	if mcpSrv != nil {
		r.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return mcpSrv
		}, nil))
	}

	return r
}

func handleHealth(svc *pipeline.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{"status": "ok"}
		if store := svc.Audit(); store != nil {
			if n, err := store.Count(r.Context()); err == nil {
				resp["runs_recorded"] = n
			}
		}
		writeJSON(w, 200, resp)
	}
}

func handleIngest(svc *pipeline.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, cleanup, ok := saveUpload(svc, w, r)
		if !ok {
			return
		}
		defer cleanup()

		structured, err := svc.Ingest(r.Context(), path)
		if err != nil {
			logger.Error("ingest", "error", err)
			writeError(w, err)
			return
		}

		chunks := structured.Chunks
		if chunks == nil {
			chunks = []string{}
		}

		// Deployment variant: ?limit=N returns a truncated sample plus the
		// full count.
		if limit := queryInt(r, "limit", 0); limit > 0 && limit < len(chunks) {
			writeJSON(w, 200, map[string]any{
				"chunks": chunks[:limit],
				"count":  len(chunks),
			})
			return
		}

		writeJSON(w, 200, map[string]any{"chunks": chunks})
	}
}

func handleExtract(svc *pipeline.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, cleanup, ok := saveUpload(svc, w, r)
		if !ok {
			return
		}
		defer cleanup()

		result, err := svc.Extract(r.Context(), path)
		if err != nil {
			logger.Error("extract", "error", err)
			writeError(w, err)
			return
		}

		writeJSON(w, 200, result)
	}
}

func handleExport(svc *pipeline.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sv survey.Survey
		if err := json.NewDecoder(r.Body).Decode(&sv); err != nil {
			writeErrorCode(w, 400, codeBadRequest, "invalid survey JSON: "+err.Error())
			return
		}

		xml, err := svc.Export(r.Context(), &sv)
		if err != nil {
			logger.Error("export", "error", err)
			writeError(w, err)
			return
		}

		writeJSON(w, 200, map[string]string{"xml": xml})
	}
}

// saveUpload parses the multipart "file" field and stores it in the drafts
// directory. The returned cleanup removes the stored file and must run on
// every exit path.
func saveUpload(svc *pipeline.Service, w http.ResponseWriter, r *http.Request) (string, func(), bool) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorCode(w, 400, codeBadRequest, "missing file field: "+err.Error())
		return "", nil, false
	}
	defer file.Close()

	path, cleanup, err := svc.SaveDraft(header.Filename, file)
	if err != nil {
		writeErrorCode(w, 500, codeInternal, err.Error())
		return "", nil, false
	}
	return path, cleanup, true
}

func recoverPanics(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic", "path", r.URL.Path, "recovered", rec)
					writeErrorCode(w, 500, codeInternal, "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// writeError maps pipeline errors to HTTP status and stable error codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, docpipe.ErrUnsupportedFormat):
		writeErrorCode(w, 400, codeUnsupportedFormat, err.Error())
	case errors.Is(err, docpipe.ErrDocumentRead):
		writeErrorCode(w, 422, codeDocumentRead, err.Error())
	default:
		writeErrorCode(w, 500, codeInternal, err.Error())
	}
}

func writeErrorCode(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "code": code})
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
