package inbound

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"homecmd/internal/application"
	"homecmd/internal/domain"
)

const (
	maxTextBody   = 1024
	maxIntentBody = 64 * 1024
	queueSize     = 10
)

// HTTPSource accepts commands over HTTP:
//
//	POST /text    raw utterance
//	POST /intent  tagged entity tree as JSON
//	POST /alexa   raw utterance, guarded by the auth token
//	GET  /health
type HTTPSource struct {
	addr        string
	server      *http.Server
	inputs      chan domain.Input
	logger      *zap.Logger
	mu          sync.Mutex
	running     bool
	router      *mux.Router
	closed      chan struct{}
	closeOnce   sync.Once
	busCheck    func() bool
	rateLimiter *RateLimiter
	authToken   string
}

// NewHTTPSource builds the source. ratePerMinute <= 0 disables rate limiting.
func NewHTTPSource(addr, authToken string, ratePerMinute int, logger *zap.Logger) *HTTPSource {
	h := &HTTPSource{
		addr:      addr,
		inputs:    make(chan domain.Input, queueSize),
		closed:    make(chan struct{}),
		logger:    logger,
		router:    mux.NewRouter(),
		authToken: authToken,
	}

	h.router.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)

	commands := h.router.NewRoute().Subrouter()
	if ratePerMinute > 0 {
		h.rateLimiter = NewRateLimiter(ratePerMinute, time.Minute)
		commands.Use(h.rateLimiter.Middleware)
	}
	commands.HandleFunc("/text", h.handleText).Methods(http.MethodPost)
	commands.HandleFunc("/intent", h.handleIntent).Methods(http.MethodPost)
	commands.HandleFunc("/alexa", h.handleAlexa).Methods(http.MethodPost)
	return h
}

func (h *HTTPSource) Name() string {
	return "http"
}

func (h *HTTPSource) Start(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running {
		return nil
	}

	h.server = &http.Server{
		Addr:         h.addr,
		Handler:      h.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func(srv *http.Server) {
		h.logger.Info("HTTP command server starting", zap.String("addr", h.addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("HTTP server error", zap.Error(err))
		}
	}(h.server)

	h.running = true
	return nil
}

func (h *HTTPSource) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return nil
	}

	if h.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.server.Shutdown(ctx); err != nil {
			h.logger.Warn("graceful shutdown failed, forcing close", zap.Error(err))
			if err := h.server.Close(); err != nil {
				return fmt.Errorf("closing server: %w", err)
			}
		}
	}

	h.closeOnce.Do(func() {
		close(h.closed)
	})
	h.running = false
	return nil
}

func (h *HTTPSource) NextInput(ctx context.Context) (domain.Input, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-h.closed:
		return nil, application.ErrSourceClosed
	case in := <-h.inputs:
		return in, nil
	}
}

func (h *HTTPSource) Handler() http.Handler {
	return h.router
}

// SetBusCheck makes /health also report whether the command bus is
// connected.
func (h *HTTPSource) SetBusCheck(check func() bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.busCheck = check
}

// Inject queues an input as if it had arrived over HTTP. It reports false
// when the queue is full or the source has been stopped.
func (h *HTTPSource) Inject(in domain.Input) bool {
	select {
	case <-h.closed:
		return false
	default:
	}
	select {
	case h.inputs <- in:
		return true
	default:
		return false
	}
}

func (h *HTTPSource) handleText(w http.ResponseWriter, r *http.Request) {
	text, ok := readText(w, r)
	if !ok {
		return
	}
	h.enqueue(w, r, domain.FreeText(text), zap.String("text", text))
}

func (h *HTTPSource) handleIntent(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var tree domain.EntityTree
	dec := json.NewDecoder(io.LimitReader(r.Body, maxIntentBody))
	if err := dec.Decode(&tree); err != nil {
		http.Error(w, "invalid entity tree: "+err.Error(), http.StatusBadRequest)
		return
	}
	if tree.Intent == "" {
		http.Error(w, "missing intent", http.StatusBadRequest)
		return
	}

	h.enqueue(w, r, domain.TaggedIntent{Tree: tree}, zap.String("intent", string(tree.Intent)))
}

func (h *HTTPSource) handleAlexa(w http.ResponseWriter, r *http.Request) {
	if h.authToken != "" {
		token := r.Header.Get("X-Auth-Token")
		if token == "" {
			token = r.URL.Query().Get("token")
		}

		if token != h.authToken {
			h.logger.Warn("unauthorized alexa request", zap.String("remote_addr", r.RemoteAddr))
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	text, ok := readText(w, r)
	if !ok {
		return
	}
	h.enqueue(w, r, domain.FreeText(text), zap.String("text", text), zap.String("via", "alexa"))
}

func readText(w http.ResponseWriter, r *http.Request) (string, bool) {
	defer r.Body.Close()

	data, err := io.ReadAll(io.LimitReader(r.Body, maxTextBody))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return "", false
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		http.Error(w, "empty text", http.StatusBadRequest)
		return "", false
	}
	return text, true
}

func (h *HTTPSource) enqueue(w http.ResponseWriter, r *http.Request, in domain.Input, fields ...zap.Field) {
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set("X-Request-ID", requestID)

	if !h.Inject(in) {
		http.Error(w, "not accepting commands, try again", http.StatusServiceUnavailable)
		return
	}

	h.logger.Info("received command via HTTP", append(fields, zap.String("request_id", requestID))...)
	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":     "received",
		"request_id": requestID,
	})
}

func (h *HTTPSource) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	running := h.running
	queued := len(h.inputs)
	busCheck := h.busCheck
	h.mu.Unlock()

	body := map[string]any{
		"running":    running,
		"queue_size": queued,
	}
	ready := running
	if busCheck != nil {
		connected := busCheck()
		body["bus_connected"] = connected
		ready = ready && connected
	}

	body["status"] = "ok"
	statusCode := http.StatusOK
	if !ready {
		body["status"] = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
