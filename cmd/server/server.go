package main

import (
	"bufio"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/nickyhof/MyDB"
	"github.com/nickyhof/MyDB/core"
	"github.com/nickyhof/MyDB/db"
)

// Server is a TCP SQL server that exposes the MyDB engine. It serves one
// connection at a time; each connection is its own session with a fresh
// catalog.
type Server struct {
	Logger *slog.Logger

	listener   net.Listener
	instance   *MyDB.Instance
	identity   core.Identity
	authConfig *AuthConfig
	tlsEnabled bool

	mu       sync.Mutex
	current  net.Conn
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopErr  error
}

// NewServer creates a server whose sessions commit as identity.
func NewServer(instance *MyDB.Instance, identity core.Identity) *Server {
	return &Server{
		Logger:   slog.Default(),
		instance: instance,
		identity: identity,
		done:     make(chan struct{}),
	}
}

// NewServerWithAuth creates a server that requires AUTH JWT before any
// statement. Sessions commit as the identity carried by the token.
func NewServerWithAuth(instance *MyDB.Instance, identity core.Identity, authConfig *AuthConfig) *Server {
	server := NewServer(instance, identity)
	server.authConfig = authConfig
	return server
}

// Start begins listening for connections on the specified address.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.serve(listener)
	return nil
}

// StartTLS is Start with TLS using the given certificate and key files.
func (s *Server) StartTLS(addr, certFile, keyFile string) error {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	listener, err := tls.Listen("tcp", addr, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
	if err != nil {
		return fmt.Errorf("failed to start TLS server: %w", err)
	}
	s.tlsEnabled = true
	s.serve(listener)
	return nil
}

func (s *Server) serve(listener net.Listener) {
	s.listener = listener

	s.Logger.Info("server listening",
		"addr", listener.Addr().String(),
		"tls", s.tlsEnabled,
		"auth", s.authConfig != nil)

	s.wg.Add(1)
	go s.acceptLoop()
}

// Stop closes the listener and any open session, then waits for the
// accept loop to exit. Later calls return the first call's result.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)

		if s.listener != nil {
			s.stopErr = s.listener.Close()
		}

		s.mu.Lock()
		if s.current != nil {
			s.current.Close()
		}
		s.mu.Unlock()

		s.wg.Wait()
	})
	return s.stopErr
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) TLSEnabled() bool {
	return s.tlsEnabled
}

func (s *Server) AuthEnabled() bool {
	return s.authConfig != nil
}

// acceptLoop serves connections one after another. A client connecting
// while another session is open waits in the listen backlog.
func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.Logger.Warn("accept failed", "error", err)
			continue
		}

		s.mu.Lock()
		s.current = conn
		s.mu.Unlock()

		// Stop may have run between Accept and the assignment above.
		select {
		case <-s.done:
			conn.Close()
			return
		default:
		}

		s.handleConnection(conn)

		s.mu.Lock()
		s.current = nil
		s.mu.Unlock()
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	logger := s.Logger.With("remote", remote)
	logger.Info("client connected")

	engine := s.instance.Engine(s.identity)
	engine.Logger = logger

	state := &ConnectionState{}
	reader := bufio.NewReader(conn)
	statements := 0

	defer func() {
		logger.Info("client disconnected", "statements", statements)
	}()

	for {
		// One request per line
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				logger.Warn("read failed", "error", err)
			}
			return
		}

		request, err := DecodeRequest([]byte(line))
		if err != nil {
			if !s.send(conn, logger, Response{Success: false, Kind: "ProtocolError", Error: fmt.Sprintf("invalid request: %v", err)}) {
				return
			}
			continue
		}

		query := request.Query
		if query == "" {
			continue
		}

		if strings.EqualFold(query, "quit") || strings.EqualFold(query, "exit") {
			return
		}

		var response Response
		switch {
		case isAuthCommand(query):
			response = s.handleAuth(query, state)
			if response.Success {
				engine.Identity = state.Identity()
				logger.Info("client authenticated", "identity", state.Identity().String())
			}
		case s.authConfig != nil && !state.IsAuthenticated(time.Now()):
			response = Response{Success: false, Kind: "AuthRequired", Error: ErrAuthRequired.Error()}
		default:
			statements++
			response = s.executeQuery(engine, query)
		}

		if !s.send(conn, logger, response) {
			return
		}
	}
}

func (s *Server) send(conn net.Conn, logger *slog.Logger, response Response) bool {
	data, err := EncodeResponse(response)
	if err != nil {
		logger.Error("failed to encode response", "error", err)
		return true
	}
	if _, err := conn.Write(data); err != nil {
		logger.Warn("write failed", "error", err)
		return false
	}
	return true
}

func (s *Server) executeQuery(engine *db.Engine, query string) Response {
	result, err := engine.Execute(query)
	if err != nil {
		return errorResponse(err)
	}
	return resultResponse(result)
}
