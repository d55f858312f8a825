// Package server exposes the query operations over a WebSocket endpoint so
// a launcher window can drive the engine with remote-procedure-style calls.
// Every frame carries a client sequence number that is echoed back; the
// aggregated "query" operation additionally runs through the debounce
// dispatcher, so responses superseded by a newer query are never written.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/cheru-app/cheru/internal/engine"
	"github.com/cheru-app/cheru/internal/index"
	"github.com/cheru-app/cheru/internal/security"
)

// Request is one frame from the client.
type Request struct {
	Op     string `json:"op"`
	Seq    uint64 `json:"seq"`
	Query  string `json:"query,omitempty"`
	Path   string `json:"path,omitempty"`
	Filter string `json:"filter,omitempty"`
	Exec   string `json:"exec,omitempty"`
}

// Response is one frame to the client. Error distinguishes policy denials
// ("denied") from other failures so the client can present the boundary.
// Streamed "query" frames additionally echo the query text and carry the
// dispatch generation, so the client can discard frames for superseded
// keystrokes without trusting the seq alone.
type Response struct {
	Op         string          `json:"op"`
	Seq        uint64          `json:"seq"`
	Query      string          `json:"query,omitempty"`
	Generation uint64          `json:"generation,omitempty"`
	Results    []engine.Result `json:"results,omitempty"`
	Value      string          `json:"value,omitempty"`
	Count      int             `json:"count,omitempty"`
	OK         bool            `json:"ok"`
	Error      string          `json:"error,omitempty"`
	Denied     bool            `json:"denied,omitempty"`
}

// Server serves the RPC surface for one engine.
type Server struct {
	engine   *engine.Engine
	debounce time.Duration
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

// New builds a server around engine.
func New(eng *engine.Engine, debounce time.Duration, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Server{
		engine:   eng,
		debounce: debounce,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The launcher window connects from a local origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP handler with the /ws endpoint mounted.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// ListenAndServe blocks serving the RPC surface on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.log.WithField("addr", addr).Info("rpc server listening")
	return http.ListenAndServe(addr, s.Handler())
}

// seqTracker remembers which client sequence number asked for which query
// text. Two frames carrying identical query text collapse to the newest seq,
// which is harmless: identical queries produce identical results.
type seqTracker struct {
	mu   sync.Mutex
	seqs map[string]uint64
}

func newSeqTracker() *seqTracker {
	return &seqTracker{seqs: make(map[string]uint64)}
}

func (t *seqTracker) record(query string, seq uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seqs[query] = seq
}

// take returns the recorded seq for query and forgets it, keeping the map
// bounded by the number of in-flight queries.
func (t *seqTracker) take(query string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	seq := t.seqs[query]
	delete(t.seqs, query)
	return seq
}

type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) write(resp Response) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(resp)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer ws.Close()

	c := &conn{ws: ws}

	// Per-connection dispatcher: the client streams keystrokes as "query"
	// frames and receives only the newest generation's results. The seq is
	// recorded per query text at submit time, so a search that completes
	// after newer keystrokes arrived is still stamped with the seq that
	// actually asked for it.
	seqs := newSeqTracker()
	dispatcher := engine.NewDispatcher(s.engine, s.debounce, func(resp engine.Response) {
		_ = c.write(Response{
			Op:         "query",
			Seq:        seqs.take(resp.Query),
			Query:      resp.Query,
			Generation: resp.Generation,
			Results:    resp.Results,
			OK:         true,
		})
	})
	defer dispatcher.Stop()

	s.log.WithField("remote", r.RemoteAddr).Info("client connected")
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			s.log.WithField("remote", r.RemoteAddr).Debug("client disconnected")
			return
		}
		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			_ = c.write(Response{Op: "error", Error: "malformed frame"})
			continue
		}
		if req.Op == "query" {
			seqs.record(req.Query, req.Seq)
			dispatcher.Submit(req.Query)
			continue
		}
		_ = c.write(s.dispatch(req))
	}
}

func (s *Server) dispatch(req Request) Response {
	resp := Response{Op: req.Op, Seq: req.Seq, OK: true}
	switch req.Op {
	case "search_apps":
		resp.Results = s.engine.SearchApps(req.Query)
	case "search_folders":
		resp.Results = s.engine.SearchFolders(req.Query)
	case "search_images":
		resp.Results = s.engine.SearchImages(req.Query)
	case "browse_directory":
		results, err := s.engine.BrowseDirectory(req.Path, req.Filter)
		if err != nil {
			return failure(req, err)
		}
		resp.Results = results
	case "launch_app":
		if err := s.engine.Launch(engine.Result{Name: req.Exec, Exec: req.Exec, Kind: index.KindApp}); err != nil {
			return failure(req, err)
		}
	case "open_path":
		if err := s.engine.OpenPath(req.Path); err != nil {
			return failure(req, err)
		}
	case "eval_expression":
		value, ok := s.engine.EvalExpression(req.Query)
		resp.Value = value
		resp.OK = ok
	case "get_index_size":
		resp.Count = s.engine.IndexSize()
	default:
		resp.OK = false
		resp.Error = "unknown op " + req.Op
	}
	return resp
}

func failure(req Request, err error) Response {
	return Response{
		Op:     req.Op,
		Seq:    req.Seq,
		OK:     false,
		Error:  err.Error(),
		Denied: security.IsDenied(err),
	}
}
