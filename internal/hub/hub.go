package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/breach-party/backend/internal/session"
)

type HubMsg interface{ isHubMsg() }

type CreateSession struct {
	ID       string
	Name     string
	HostID   string
	HostName string
	Reply    chan *session.Session
}

type GetSession struct {
	ID    string
	Reply chan *session.Session
}

type RemoveSession struct {
	ID string
}

type ShutdownHub struct{}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

// Hub is the registry of live sessions, keyed by session id. It is itself an
// actor, so registry access is race-free while every session still runs its
// own loop: intents for different sessions never contend here.
type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	opts     session.Options
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewHub starts the registry. opts is the template every session is created
// with; OnEmpty is overridden so emptied sessions remove themselves.
func NewHub(parent context.Context, opts session.Options) *Hub {
	ctx, cancel := context.WithCancel(parent)
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		opts:     opts,
		log:      logger,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				if sess := h.sessions[msg.ID]; sess != nil {
					msg.Reply <- sess
					break
				}
				opts := h.opts
				opts.OnEmpty = func(id string) {
					// Called from the session loop; route through the inbox
					// so the registry map is only touched here.
					select {
					case h.inbox <- RemoveSession{ID: id}:
					case <-h.ctx.Done():
					}
				}
				sess, err := session.New(h.ctx, msg.ID, msg.Name, msg.HostID, msg.HostName, opts)
				if err != nil {
					h.log.Warn("session create failed", zap.String("session_id", msg.ID), zap.Error(err))
					msg.Reply <- nil
					break
				}
				h.sessions[msg.ID] = sess
				h.log.Info("session created", zap.String("session_id", msg.ID))
				msg.Reply <- sess

			case GetSession:
				msg.Reply <- h.sessions[msg.ID] // may be nil

			case RemoveSession:
				if _, ok := h.sessions[msg.ID]; ok {
					delete(h.sessions, msg.ID)
					h.log.Info("session removed", zap.String("session_id", msg.ID))
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for _, sess := range h.sessions {
		sess.Inbox() <- session.Shutdown{}
	}
	clear(h.sessions)
	h.cancel()
}
