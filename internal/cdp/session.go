package cdp

import "github.com/nugget/cdpmux/internal/cdp/transport"

// Session is one CDP target session multiplexed over its Connection's
// shared Transport (C6). It has its own command correlator and event
// router, scoped by sessionId, but does not own the Transport itself —
// only the Connection does, since multiple Sessions write through the
// same WebSocket.
type Session struct {
	id       string
	targetID string
	conn     *Connection
	channel  *Channel
}

func newSession(conn *Connection, id, targetID string) *Session {
	s := &Session{id: id, targetID: targetID, conn: conn}
	s.channel = newChannel(conn.tr, id, conn.registry, conn.logger, func(transport.CloseReason) error {
		return &SessionClosed{SessionID: id}
	})
	return s
}

// ID is the CDP sessionId this Session demultiplexes.
func (s *Session) ID() string { return s.id }

// TargetID is the target this session is attached to (spec.md §3's
// Channel data model: `targetId?`). Empty if the Session was created
// via AddSession without one.
func (s *Session) TargetID() string { return s.targetID }

// Channel exposes the command/event surface for this session; use
// cdp.Execute(ctx, session.Channel(), desc) to run a command scoped to
// this target.
func (s *Session) Channel() *Channel { return s.channel }

// Closed reports whether this Session's channel has closed, either
// because RemoveSession was called or because the owning Connection
// closed.
func (s *Session) Closed() bool { return s.channel.Closed() }
