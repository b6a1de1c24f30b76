package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"ai-email-agent/internal/memory"
	"ai-email-agent/internal/processor"
)

// Runner is the slice of the job processor the control surface needs.
type Runner interface {
	Run(ctx context.Context, skip func(email string) bool) (processor.Summary, error)
	SendDirect(ctx context.Context, to, firstName, lastName, fruit string) error
}

// MemoryReader lists recorded memory entries. Only the file backend keeps a
// local log that can be listed; a nil reader disables the task.
type MemoryReader interface {
	LoadAll() ([]memory.Entry, error)
}

// Server is the HTTP control surface: a health check and a manual task
// trigger for operators and external automations.
type Server struct {
	runner   Runner
	memories MemoryReader
	server   *http.Server
	port     int
}

type runRequest struct {
	Task      string `json:"task"`
	To        string `json:"to"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Fruit     string `json:"fruit"`
}

func NewServer(runner Runner, memories MemoryReader, port int) *Server {
	return &Server{runner: runner, memories: memories, port: port}
}

func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/run", s.handleRun)
	mux.HandleFunc("/", s.handleRoot)

	s.server = &http.Server{
		Addr:        fmt.Sprintf(":%d", s.port),
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		// A manual processSheet run is bounded only by the sheet size
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("🌐 Control server running on port %d", s.port)
	return s.server.ListenAndServe()
}

func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "🧠 Agent is running and ready!")
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "✅ AI Email Agent is active (controlled mode)")
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Task == "" {
		writeError(w, http.StatusBadRequest, "Missing 'task' in request body.")
		return
	}

	log.Printf("⚙️ Control server received task: %s", req.Task)

	switch req.Task {
	case "processSheet":
		if _, err := s.runner.Run(r.Context(), nil); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "✅ Sheet processed successfully"})

	case "sendEmail":
		if req.To == "" || req.FirstName == "" {
			writeError(w, http.StatusBadRequest, "Missing 'to' or 'firstName' in body")
			return
		}
		fruit := req.Fruit
		if fruit == "" {
			fruit = "apple"
		}
		if err := s.runner.SendDirect(r.Context(), req.To, req.FirstName, req.LastName, fruit); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": fmt.Sprintf("📧 Email sent to %s", req.To)})

	case "listMemories":
		if s.memories == nil {
			writeError(w, http.StatusBadRequest, "Memory listing is not supported by the configured backend")
			return
		}
		entries, err := s.memories.LoadAll()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   fmt.Sprintf("🧠 Loaded %d memories", len(entries)),
			"memories": entries,
		})

	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown task: %s", req.Task))
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
