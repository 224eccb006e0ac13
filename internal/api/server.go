// Package api exposes a live monitor for a running benchmark.
//
// The server publishes engine progress as JSON over plain HTTP and as
// a once-per-second push stream over a websocket. It is read-only:
// the benchmark itself is driven by the CLI, not the server.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"iobench/internal/bench"
	"iobench/internal/logger"

	"golang.org/x/net/websocket"
)

// Server はモニタサーバー
type Server struct {
	addr   string
	engine *bench.Engine

	mu        sync.RWMutex
	wsClients map[*websocket.Conn]bool

	server *http.Server
}

// NewServer は新しいServerを作成する
func NewServer(addr string, engine *bench.Engine) *Server {
	return &Server{
		addr:      addr,
		engine:    engine,
		wsClients: make(map[*websocket.Conn]bool),
	}
}

// Start はサーバーを開始する
// ctxのキャンセルでシャットダウンする
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/progress", s.handleProgress)
	mux.Handle("/ws", websocket.Handler(s.handleWebSocket))

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	// バックグラウンドで進捗を配信
	go s.broadcastLoop(ctx)

	logger.Info("api", "monitor server starting on http://%s", s.addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// StatusResponse はステータスレスポンス
type StatusResponse struct {
	Running   bool   `json:"running"`
	Rates     []int  `json:"rates"`
	Duration  string `json:"duration"`
	Campaigns int    `json:"campaigns"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg := s.engine.Config()
	resp := StatusResponse{
		Running:   s.engine.Progress().Running,
		Rates:     cfg.Rates,
		Duration:  cfg.Duration.String(),
		Campaigns: len(cfg.Rates),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.engine.Progress())
}

// handleWebSocket はクライアントを登録し、切断まで保持する
func (s *Server) handleWebSocket(ws *websocket.Conn) {
	s.mu.Lock()
	s.wsClients[ws] = true
	s.mu.Unlock()

	logger.Debug("api", "websocket client connected: %s", ws.Request().RemoteAddr)

	// 切断検出のための読み捨てループ
	var discard string
	for {
		if err := websocket.Message.Receive(ws, &discard); err != nil {
			break
		}
	}

	s.mu.Lock()
	delete(s.wsClients, ws)
	s.mu.Unlock()
	_ = ws.Close()
}

// broadcastLoop は毎秒、全クライアントに進捗を配信する
func (s *Server) broadcastLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.broadcast(s.engine.Progress())
		}
	}
}

func (s *Server) broadcast(p bench.Progress) {
	s.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(s.wsClients))
	for ws := range s.wsClients {
		clients = append(clients, ws)
	}
	s.mu.RUnlock()

	for _, ws := range clients {
		if err := websocket.JSON.Send(ws, p); err != nil {
			s.mu.Lock()
			delete(s.wsClients, ws)
			s.mu.Unlock()
			_ = ws.Close()
		}
	}
}
