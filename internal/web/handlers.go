package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nahidhasan/picklist-export/internal/export"
	"github.com/nahidhasan/picklist-export/internal/history"
	"github.com/nahidhasan/picklist-export/internal/report"
	"github.com/nahidhasan/picklist-export/internal/salesforce"
)

// handleIndex serves the single-page UI.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "index not available")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// handleListObjects returns the org's queryable object names, optionally
// filtered to standard or custom objects.
func (s *Server) handleListObjects(w http.ResponseWriter, r *http.Request) {
	filter := salesforce.ObjectFilter(r.URL.Query().Get("filter"))
	if filter == "" {
		filter = salesforce.FilterAll
	}

	names, err := s.client.ListObjects(r.Context(), filter)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, map[string]any{"objects": names, "count": len(names)})
}

// startExportRequest is the body of POST /api/export.
type startExportRequest struct {
	Objects []string `json:"objects"`
	Format  string   `json:"format,omitempty"` // "xlsx" (default) or "csv"
}

// handleStartExport begins an asynchronous export run and returns its id.
func (s *Server) handleStartExport(w http.ResponseWriter, r *http.Request) {
	var req startExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	objects := make([]string, 0, len(req.Objects))
	for _, name := range req.Objects {
		if name = strings.TrimSpace(name); name != "" {
			objects = append(objects, name)
		}
	}
	if len(objects) == 0 {
		writeError(w, r, http.StatusBadRequest, "no objects selected")
		return
	}

	format := strings.ToLower(req.Format)
	if format != "csv" {
		format = "xlsx"
	}

	if err := os.MkdirAll(s.cfg.Export.OutputDir, 0o755); err != nil {
		writeError(w, r, http.StatusInternalServerError, fmt.Sprintf("create output dir: %v", err))
		return
	}

	runID := uuid.New().String()
	outputPath := filepath.Join(s.cfg.Export.OutputDir,
		fmt.Sprintf("Picklist_Export_%s.%s", time.Now().Format("20060102_150405"), format))

	runCtx, cancel := context.WithCancel(context.Background())
	run := newExportRun(runID, len(objects), cancel)

	s.mu.Lock()
	s.runs[runID] = run
	s.mu.Unlock()

	go s.runExport(runCtx, run, objects, outputPath)

	writeJSON(w, map[string]string{"runId": runID})
}

// runExport executes one export on a background goroutine and records the
// outcome.
func (s *Server) runExport(ctx context.Context, run *exportRun, objects []string, outputPath string) {
	defer func() {
		run.closeListeners()
		close(run.done)
		s.cleanup(run.id, runRetention)
	}()

	started := time.Now()
	svc := export.NewService(s.client, report.ForPath(outputPath), run)
	path, stats, err := svc.Export(ctx, objects, outputPath)
	run.finish(path, stats, err)

	if err != nil {
		slog.Error("export run failed", "run_id", run.id, "error", err)
		return
	}
	slog.Info("export run finished",
		"run_id", run.id,
		"objects", stats.TotalObjects,
		"values", stats.TotalValues,
		"cancelled", stats.Cancelled,
		"duration", time.Since(started),
	)

	if s.store != nil {
		recordCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := s.store.RecordRun(recordCtx, history.Run{
			ID:         run.id,
			StartedAt:  started,
			Duration:   time.Since(started),
			OutputPath: path,
			Stats:      *stats,
		})
		if err != nil {
			slog.Warn("record run history", "run_id", run.id, "error", err)
		}
	}
}

// handleRunStatus returns the current state of a run without blocking.
func (s *Server) handleRunStatus(w http.ResponseWriter, r *http.Request) {
	run, ok := s.getRun(chi.URLParam(r, "runID"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, run.Status())
}

// handleRunEvents streams run log lines and progress ticks via
// Server-Sent Events until the run completes.
func (s *Server) handleRunEvents(w http.ResponseWriter, r *http.Request) {
	run, ok := s.getRun(chi.URLParam(r, "runID"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "run not found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events := run.subscribe()
	for {
		select {
		case ev, open := <-events:
			if !open {
				data, _ := json.Marshal(run.Status())
				fmt.Fprintf(w, "event: complete\ndata: %s\n\n", data)
				flusher.Flush()
				return
			}
			data, _ := json.Marshal(ev)
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// handleCancelRun requests cooperative cancellation of a run. The engine
// stops between objects; results accumulated so far stay valid.
func (s *Server) handleCancelRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.getRun(chi.URLParam(r, "runID"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "run not found")
		return
	}

	run.cancel()
	writeJSON(w, map[string]string{"status": "cancelling"})
}

// handleDownload serves the finished report file.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	run, ok := s.getRun(chi.URLParam(r, "runID"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "run not found")
		return
	}

	status := run.Status()
	if status.OutputPath == "" || (status.Phase != PhaseComplete && status.Phase != PhaseCancelled) {
		writeError(w, r, http.StatusConflict, "report not ready")
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename=%q`, filepath.Base(status.OutputPath)))
	http.ServeFile(w, r, status.OutputPath)
}

// handleRunHistory lists recent runs from the history store.
func (s *Server) handleRunHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, r, http.StatusNotFound, "run history is not configured")
		return
	}

	runs, err := s.store.RecentRuns(r.Context(), 50)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]any{"runs": runs})
}
