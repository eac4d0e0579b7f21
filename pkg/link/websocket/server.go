// Package websocket serves the host link over a websocket, one host at a
// time. Every binary message carries raw link bytes.
package websocket

import (
	"context"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/gauge.go/pkg/framework"
	"github.com/robotalks/gauge.go/pkg/link"
)

// DefaultPath is where the host link is served.
const DefaultPath = "/gauge"

// Server accepts host connections and feeds them to Receive.
type Server struct {
	Addr    string
	Path    string
	Receive link.Receiver

	lock sync.Mutex
	conn *websocket.Conn
}

// NewServer creates a Server.
func NewServer(addr string, recv link.Receiver) *Server {
	return &Server{Addr: addr, Path: DefaultPath, Receive: recv}
}

// Handler returns the websocket handler of the host link.
func (s *Server) Handler() http.Handler {
	return websocket.Handler(s.serve)
}

// Connected tells if a host is attached.
func (s *Server) Connected() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.conn != nil
}

// Transmit implements com.USBPort.
func (s *Server) Transmit(b []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.conn == nil {
		return link.ErrNotConnected
	}
	return websocket.Message.Send(s.conn, b)
}

// Run implements framework.Runnable.
func (s *Server) Run(ctx context.Context) error {
	path := s.Path
	if path == "" {
		path = DefaultPath
	}
	mux := http.NewServeMux()
	mux.Handle(path, s.Handler())
	srv := &http.Server{Addr: s.Addr, Handler: mux}
	glog.Infof("host link listening on %s%s", s.Addr, path)
	return framework.RunWithContextCancel(ctx, func() { srv.Close() }, srv.ListenAndServe)
}

func (s *Server) attach(ws *websocket.Conn) {
	ws.PayloadType = websocket.BinaryFrame
	s.lock.Lock()
	prev := s.conn
	s.conn = ws
	s.lock.Unlock()
	if prev != nil {
		glog.Warningf("host %s replaced by %s", prev.Request().RemoteAddr, ws.Request().RemoteAddr)
		prev.Close()
	}
	glog.Infof("host %s connected", ws.Request().RemoteAddr)
}

func (s *Server) detach(ws *websocket.Conn) {
	s.lock.Lock()
	if s.conn == ws {
		s.conn = nil
	}
	s.lock.Unlock()
	ws.Close()
	glog.Infof("host %s disconnected", ws.Request().RemoteAddr)
}

func (s *Server) serve(ws *websocket.Conn) {
	s.attach(ws)
	defer s.detach(ws)
	for {
		var msg []byte
		if err := websocket.Message.Receive(ws, &msg); err != nil {
			return
		}
		if glog.V(2) {
			glog.Infof("ws RX % x", msg)
		}
		if s.Receive != nil {
			s.Receive(msg)
		}
	}
}

// Dial connects to a gauge serving its host link at url.
func Dial(url string) (*websocket.Conn, error) {
	conn, err := websocket.Dial(url, "", "http://localhost/")
	if err != nil {
		return nil, err
	}
	conn.PayloadType = websocket.BinaryFrame
	return conn, nil
}
