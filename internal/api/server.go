package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/hong880226/printer-server/internal/action"
	"github.com/hong880226/printer-server/internal/config"
	"github.com/hong880226/printer-server/internal/notify"
	"github.com/hong880226/printer-server/internal/poll"
	"github.com/hong880226/printer-server/internal/state"
)

// Server hosts the local web UI and the endpoints that bridge view actions
// into the orchestrator
type Server struct {
	config   *config.Config
	store    *state.Store
	notifier *notify.Notifier
	orch     *action.Orchestrator
	poller   *poll.Poller
	logBuf   *LogBuffer
	hub      *Hub
	mux      *http.ServeMux
}

// NewServer creates the UI server
func NewServer(cfg *config.Config, store *state.Store, notifier *notify.Notifier, orch *action.Orchestrator, poller *poll.Poller, logBuf *LogBuffer, hub *Hub) *Server {
	s := &Server{
		config:   cfg,
		store:    store,
		notifier: notifier,
		orch:     orch,
		poller:   poller,
		logBuf:   logBuf,
		hub:      hub,
		mux:      http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("GET /api/logs", s.handleLogs)

	s.mux.HandleFunc("POST /api/upload", s.handleUpload)
	s.mux.HandleFunc("POST /api/print", s.handlePrint)
	s.mux.HandleFunc("DELETE /api/files/{name}", s.handleDelete)
	s.mux.HandleFunc("POST /api/jobs/{id}/cancel", s.handleCancel)

	s.mux.HandleFunc("POST /api/refresh/files", s.handleRefreshFiles)
	s.mux.HandleFunc("POST /api/refresh/jobs", s.handleRefreshJobs)

	s.mux.HandleFunc("POST /api/preview/{name}", s.handleOpenPreview)
	s.mux.HandleFunc("DELETE /api/preview", s.handleClosePreview)

	s.mux.HandleFunc("GET /ws", s.hub.HandleWS)

	s.mux.HandleFunc("GET /", s.handleUI)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	return http.ListenAndServe(addr, s.mux)
}

// Handler exposes the mux, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "healthy"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"state":         s.store.Snapshot(),
		"notifications": s.notifier.Active(),
	})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"entries": s.logBuf.Entries(),
	})
}

// handleUpload accepts one or more files under the multipart field "file"
// and runs them through the orchestrator as a single sequential batch
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		http.Error(w, "invalid multipart body", http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		http.Error(w, "no files in request", http.StatusBadRequest)
		return
	}

	items := make([]action.UploadItem, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			log.Printf("failed to open uploaded part %q: %v", fh.Filename, err)
			continue
		}
		defer f.Close()
		items = append(items, action.UploadItem{Filename: fh.Filename, Data: f})
	}

	s.orch.UploadBatch(r.Context(), items)
	writeJSON(w, map[string]bool{"success": true})
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename  string `json:"filename"`
		Printer   string `json:"printer"`
		Copies    int    `json:"copies"`
		PageRange string `json:"page_range"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ok := s.orch.Print(r.Context(), req.Filename, req.Printer, req.Copies, req.PageRange)
	writeJSON(w, map[string]bool{"success": ok})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("name")
	fromPreview := r.URL.Query().Get("from_preview") == "1"

	s.orch.Delete(r.Context(), filename, fromPreview)
	writeJSON(w, map[string]bool{"success": true})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	jobID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}

	s.orch.CancelJob(r.Context(), jobID)
	writeJSON(w, map[string]bool{"success": true})
}

func (s *Server) handleRefreshFiles(w http.ResponseWriter, r *http.Request) {
	if err := s.poller.RefreshFiles(r.Context()); err != nil {
		s.notifier.Push(notify.Error, "failed to refresh file list")
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (s *Server) handleRefreshJobs(w http.ResponseWriter, r *http.Request) {
	s.poller.RefreshJobs(r.Context())
	writeJSON(w, map[string]bool{"success": true})
}

func (s *Server) handleOpenPreview(w http.ResponseWriter, r *http.Request) {
	ok := s.store.OpenPreview(r.PathValue("name"))
	writeJSON(w, map[string]bool{"success": ok})
}

func (s *Server) handleClosePreview(w http.ResponseWriter, r *http.Request) {
	s.store.ClosePreview()
	writeJSON(w, map[string]bool{"success": true})
}

func (s *Server) handleUI(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(webUI))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
