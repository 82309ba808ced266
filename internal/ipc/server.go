package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"smartinput/internal/logging"
)

// Handler processes IPC requests the server does not answer itself.
type Handler interface {
	HandleMessage(ctx context.Context, msg *Message) (*Message, error)
}

// HandlerFunc is a function that implements Handler
type HandlerFunc func(ctx context.Context, msg *Message) (*Message, error)

func (f HandlerFunc) HandleMessage(ctx context.Context, msg *Message) (*Message, error) {
	return f(ctx, msg)
}

// ServerConfig configures the IPC server
type ServerConfig struct {
	SocketPath     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxConnections int
	Logger         *logging.Logger
}

// Server listens on a Unix socket and dispatches messages to a handler.
type Server struct {
	mu       sync.RWMutex
	listener net.Listener
	cfg      ServerConfig
	handler  Handler
	conns    map[net.Conn]struct{}
	log      *logging.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewServer creates a new IPC server
func NewServer(cfg ServerConfig, handler Handler) *Server {
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.MaxConnections == 0 {
		cfg.MaxConnections = 16
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:     cfg,
		handler: handler,
		conns:   make(map[net.Conn]struct{}),
		log:     cfg.Logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins listening for connections
func (s *Server) Start() error {
	socketDir := filepath.Dir(s.cfg.SocketPath)
	if err := os.MkdirAll(socketDir, 0o700); err != nil {
		return fmt.Errorf("create socket directory: %w", err)
	}

	// Remove stale socket file from a previous run
	if err := os.Remove(s.cfg.SocketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", s.cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("listen on socket: %w", err)
	}

	// Owner only
	if err := os.Chmod(s.cfg.SocketPath, 0o600); err != nil {
		listener.Close()
		return fmt.Errorf("set socket permissions: %w", err)
	}

	s.listener = listener
	s.running.Store(true)

	s.wg.Add(1)
	go s.acceptLoop()

	s.log.Info("ipc server listening", "socket", s.cfg.SocketPath)
	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	s.cancel()
	if s.listener != nil {
		s.listener.Close()
	}

	s.mu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.log.Warn("ipc server shutdown timed out")
	}

	os.Remove(s.cfg.SocketPath)
	return nil
}

// SocketPath returns the socket path
func (s *Server) SocketPath() string {
	return s.cfg.SocketPath
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.ctx.Done():
				return
			default:
				if errors.Is(err, net.ErrClosed) {
					return
				}
				continue
			}
		}

		s.mu.Lock()
		if len(s.conns) >= s.cfg.MaxConnections {
			s.mu.Unlock()
			conn.Close()
			continue
		}
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		msg, err := ReadMessage(conn)
		if err != nil {
			if err == io.EOF || errors.Is(err, net.ErrClosed) {
				return
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return
			}
			s.log.Debug("ipc read failed", "error", err)
			return
		}

		response := s.processMessage(msg)
		if response == nil {
			continue
		}

		conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		if err := response.Write(conn); err != nil {
			return
		}
	}
}

func (s *Server) processMessage(msg *Message) *Message {
	if msg.Header.Type == MsgPing {
		return NewMessage(MsgPong, msg.Header.RequestID, nil)
	}

	if s.handler == nil {
		return NewErrorMessage(msg.Header.RequestID, ErrInvalidRequest, "no handler")
	}

	response, err := s.handler.HandleMessage(s.ctx, msg)
	if err != nil {
		return NewErrorMessage(msg.Header.RequestID, ErrInternalError, err.Error())
	}
	return response
}
