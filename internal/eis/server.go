package eis

import (
	"sync"
	"sync/atomic"

	"github.com/waycrate/xdg-desktop-portal-luminous/internal/logging"
)

var log = logging.L("eis")

// ControlKind discriminates the Control message union the RPC
// Dispatcher sends to the server (§4.F).
type ControlKind int

const (
	CtrlNewListener ControlKind = iota
	CtrlStopListener
	CtrlActivateListener
	CtrlRemoveListener
)

// Control is one control message from the RPC Dispatcher.
type Control struct {
	Kind          ControlKind
	SessionHandle string
	Listener      Listener // set only for CtrlNewListener
}

type registration struct {
	listener Listener
	active   atomic.Bool
	cancel   chan struct{}
}

// Server is the Input Event Server (4.F): one background event loop,
// started once on demand, multiplexing control messages from the RPC
// Dispatcher with client connections on each registered listener.
type Server struct {
	controlCh chan Control
	events    chan InputEvent
	stopCh    chan struct{}
	stopOnce  sync.Once
	startOnce sync.Once

	mu      sync.Mutex
	clients map[string]*registration
}

// NewServer constructs an Input Event Server. Start must be called
// before Submit has any effect.
func NewServer() *Server {
	return &Server{
		controlCh: make(chan Control, 16),
		events:    make(chan InputEvent, 256),
		stopCh:    make(chan struct{}),
		clients:   make(map[string]*registration),
	}
}

// Start runs the server's event loop on its own goroutine (the
// dedicated background thread of §4.F). Safe to call multiple times;
// only the first call has effect.
func (s *Server) Start() {
	s.startOnce.Do(func() { go s.run() })
}

// Stop shuts the server down, closing every registered listener.
func (s *Server) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Submit enqueues a control message. No-op if the server has stopped.
func (s *Server) Submit(c Control) {
	select {
	case s.controlCh <- c:
	case <-s.stopCh:
	}
}

// Events returns the shared receiver a consumer task drains, forwarding
// each record into the corresponding session's Virtual Input Thread.
func (s *Server) Events() <-chan InputEvent {
	return s.events
}

func (s *Server) run() {
	for {
		select {
		case c := <-s.controlCh:
			s.handleControl(c)
		case <-s.stopCh:
			s.closeAll()
			return
		}
	}
}

func (s *Server) handleControl(c Control) {
	switch c.Kind {
	case CtrlNewListener:
		reg := &registration{listener: c.Listener, cancel: make(chan struct{})}
		reg.active.Store(true)
		s.mu.Lock()
		s.clients[c.SessionHandle] = reg
		s.mu.Unlock()
		go s.acceptLoop(c.SessionHandle, reg)
	case CtrlStopListener:
		if reg := s.lookup(c.SessionHandle); reg != nil {
			reg.active.Store(false)
		}
	case CtrlActivateListener:
		if reg := s.lookup(c.SessionHandle); reg != nil {
			reg.active.Store(true)
		}
	case CtrlRemoveListener:
		s.mu.Lock()
		reg := s.clients[c.SessionHandle]
		delete(s.clients, c.SessionHandle)
		s.mu.Unlock()
		if reg != nil {
			close(reg.cancel)
			reg.listener.Close()
		}
	}
}

func (s *Server) lookup(session string) *registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients[session]
}

func (s *Server) closeAll() {
	s.mu.Lock()
	regs := make([]*registration, 0, len(s.clients))
	for _, reg := range s.clients {
		regs = append(regs, reg)
	}
	s.clients = make(map[string]*registration)
	s.mu.Unlock()
	for _, reg := range regs {
		reg.listener.Close()
	}
}

func (s *Server) acceptLoop(session string, reg *registration) {
	for {
		select {
		case <-reg.cancel:
			return
		default:
		}
		conn, err := reg.listener.Accept()
		if err != nil {
			log.Warn("listener accept failed", "session", session, logging.KeyError, err)
			return
		}
		if !reg.active.Load() {
			conn.Close()
			continue
		}
		go s.handleConn(session, conn)
	}
}

func (s *Server) handleConn(session string, conn ClientConn) {
	defer conn.Close()

	var bound DeviceCapability
	for {
		ev, ok, err := conn.NextEvent()
		if err != nil {
			log.Warn("client connection error", "session", session, logging.KeyError, err)
			return
		}
		if !ok {
			return
		}
		switch ev.Kind {
		case ClientEventBind:
			// New device entities are created once per capability, the
			// first time a client's bind handshake offers it (§4.F).
			newCaps := ev.Capabilities &^ bound
			bound |= ev.Capabilities
			if newCaps != 0 {
				log.Debug("client bound device capabilities", "session", session, "capabilities", newCaps)
			}
		case ClientEventRequest:
			req := ev.Request
			req.SessionHandle = session
			select {
			case s.events <- req:
			case <-s.stopCh:
				return
			}
		case ClientEventDisconnect:
			return
		}
	}
}
