package cdp

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/nugget/cdpmux/internal/cdp/transport"
	"github.com/nugget/cdpmux/internal/cdpcfg"
)

// Connection owns a Transport and demultiplexes inbound frames across
// its root Channel and any number of Sessions by sessionId (C6).
// Exactly one goroutine — the read loop started by NewConnection —
// ever calls Transport.ReadText; everything else may be called from
// any goroutine.
type Connection struct {
	tr       transport.Transport
	registry *Registry
	logger   *slog.Logger

	root *Channel

	mu               sync.Mutex
	sessions         map[string]*Session
	closed           bool
	closeReason      transport.CloseReason
	initiatedClose   bool
	hadNormalClosure bool

	readLoopDone chan struct{}
}

// NewConnection wraps tr in a Connection and starts its read loop.
// registry decodes events for the root channel and every Session
// created from this Connection. logger may be nil.
func NewConnection(tr transport.Transport, registry *Registry, logger *slog.Logger) *Connection {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Connection{
		tr:           tr,
		registry:     registry,
		logger:       logger,
		sessions:     make(map[string]*Session),
		readLoopDone: make(chan struct{}),
	}
	c.root = newChannel(tr, "", registry, logger, func(reason transport.CloseReason) error {
		return &ConnectionClosed{Reason: reason}
	})
	go c.readLoop()
	return c
}

// Root returns the Channel for commands/events with no sessionId —
// browser-level methods like Target.createTarget.
func (c *Connection) Root() *Channel { return c.root }

// AddSession returns the Session for sessionID, creating one if this
// is the first time it has been seen. Idempotent by design: a second
// AddSession for the same ID returns the existing Session rather than
// shadowing it with a fresh one (spec.md §9's resolution of the
// original's identity-vs-membership mixup — this is a real map lookup,
// not a reference-identity check). targetID records which target this
// session is attached to (spec.md §4.6, §3's Channel data model); pass
// "" if unknown.
func (c *Connection) AddSession(sessionID, targetID string) *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.sessions[sessionID]; ok {
		return s
	}
	s := newSession(c, sessionID, targetID)
	c.sessions[sessionID] = s
	return s
}

// TargetID identifies a debuggable target (a tab, a worker, an
// iframe) to attach a session to. A local type rather than
// cdpproto/target.ID: that package already imports this one for
// cdp.EventKind and cdp.Registry, so this package cannot import it
// back without a cycle.
type TargetID string

type attachToTargetParams struct {
	TargetID TargetID `json:"targetId"`
	Flatten  bool     `json:"flatten"`
}

type attachToTargetResult struct {
	SessionID string `json:"sessionId"`
}

// attachToTargetCommand implements CommandDescription[string],
// duplicating cdpproto/target's Target.attachToTarget wire shape
// locally so ConnectSession doesn't need to import that package.
type attachToTargetCommand struct {
	targetID TargetID
}

func (c attachToTargetCommand) Method() string { return "Target.attachToTarget" }

func (c attachToTargetCommand) BuildRequest() (json.RawMessage, error) {
	return json.Marshal(attachToTargetParams{TargetID: c.targetID, Flatten: true})
}

func (c attachToTargetCommand) ParseResult(result json.RawMessage) (string, error) {
	var r attachToTargetResult
	if err := json.Unmarshal(result, &r); err != nil {
		return "", err
	}
	return r.SessionID, nil
}

// ConnectSession attaches a new session to targetID via
// Target.attachToTarget (flatten mode) on the root Channel, then
// registers the resulting Session (spec.md §4.6: "connectSession(targetId)
// → SessionChannel"). Unlike AddSession, this is never idempotent by
// target: attaching the same target twice yields two distinct sessions,
// matching what the browser actually hands back.
func (c *Connection) ConnectSession(ctx context.Context, targetID TargetID) (*Session, error) {
	sessionID, err := Execute(ctx, c.root, attachToTargetCommand{targetID: targetID})
	if err != nil {
		return nil, err
	}
	return c.AddSession(sessionID, string(targetID)), nil
}

// Session looks up a previously added session without creating one.
func (c *Connection) Session(sessionID string) (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[sessionID]
	return s, ok
}

// RemoveSession detaches sessionID: its Channel is closed (failing any
// in-flight commands and every subscribed Listener) and it is dropped
// from the session map. A no-op if sessionID is not known.
func (c *Connection) RemoveSession(sessionID string) {
	c.mu.Lock()
	s, ok := c.sessions[sessionID]
	delete(c.sessions, sessionID)
	c.mu.Unlock()
	if ok {
		s.channel.Close(transport.CloseReason{Code: 1000, Text: "session detached"})
	}
}

// Close closes every Session Channel and the root Channel first, then
// closes the underlying transport (spec.md §4.5). This order matters:
// closing the channels first makes their `closed` flag visible to any
// concurrent Execute before the transport goes away, so a racing
// Execute observes a typed *ConnectionClosed/*SessionClosed instead of
// reaching WriteText and getting the transport's raw ErrClosed back
// (spec.md §7).
func (c *Connection) Close(code int, reason string) error {
	c.mu.Lock()
	c.initiatedClose = true
	sessions := make([]*Session, 0, len(c.sessions))
	for _, s := range c.sessions {
		sessions = append(sessions, s)
	}
	c.mu.Unlock()

	localReason := transport.CloseReason{Code: code, Text: reason}
	for _, s := range sessions {
		s.channel.Close(localReason)
	}
	c.root.Close(localReason)

	err := c.tr.Close(code, reason)
	if r, ok := c.tr.CloseReason(); ok {
		c.finishClose(r)
	} else {
		c.finishClose(localReason)
	}
	return err
}

// Closed reports whether the underlying transport has closed, locally
// or by the peer.
func (c *Connection) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// HadNormalClosure reports whether this Connection closed because it
// initiated a clean close (code 1000) and nothing closed out from
// under it first. Resolution of spec.md §9's open question: a close
// the peer originated, or one this side performed any other way (a
// protocol error, a dial-retry exhaustion after the fact, the
// transport dying mid-read), does not count as normal — only a close
// this side deliberately requested with code 1000 does.
func (c *Connection) HadNormalClosure() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hadNormalClosure
}

func (c *Connection) readLoop() {
	defer close(c.readLoopDone)
	ctx := context.Background()
	for {
		data, err := c.tr.ReadText(ctx)
		if err != nil {
			c.handleTransportClosed()
			return
		}
		c.logger.Log(ctx, cdpcfg.LevelTrace, "cdp: frame received", "bytes", humanize.Bytes(uint64(len(data))))
		frame, err := decodeInboundFrame(data)
		if err != nil {
			c.logger.Warn("cdp: malformed frame", "error", err)
			continue
		}
		if frame.SessionID == "" {
			c.root.HandleFrame(frame)
			continue
		}
		sess, ok := c.Session(frame.SessionID)
		if !ok {
			c.logger.Warn("cdp: frame for unknown session", "session", frame.SessionID)
			continue
		}
		sess.channel.HandleFrame(frame)
	}
}

func (c *Connection) handleTransportClosed() {
	reason, _ := c.tr.CloseReason()
	c.finishClose(reason)
}

func (c *Connection) finishClose(reason transport.CloseReason) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.closeReason = reason
	c.hadNormalClosure = c.initiatedClose && reason.Code == 1000 && !reason.Peer
	sessions := make([]*Session, 0, len(c.sessions))
	for _, s := range c.sessions {
		sessions = append(sessions, s)
	}
	c.mu.Unlock()

	c.root.Close(reason)
	for _, s := range sessions {
		s.channel.Close(reason)
	}
}
