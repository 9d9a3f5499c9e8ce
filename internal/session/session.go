package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/breach-party/backend/internal/engine"
	"github.com/breach-party/backend/internal/policy"
	"github.com/breach-party/backend/internal/roster"
)

var ErrNotParticipant = errors.New("not a session participant")
var ErrForbidden = errors.New("forbidden")
var ErrConflict = errors.New("conflict")

type Options struct {
	RevealDelay     time.Duration
	DisconnectGrace time.Duration
	Deck            []string
	Logger          *zap.Logger

	// OnEmpty fires after the last participant leaves, so the owning
	// registry can drop the session.
	OnEmpty func(sessionID string)

	// Persistence hooks for collaborators; called after the mutation commits.
	OnDisplayNameChanged func(sessionID, participantID, displayName string)
	OnTeamChanged        func(sessionID, participantID string, team engine.Team)
}

// Session is the coordinator for one lobby/game: it owns the roster and the
// optional game state and serializes every mutation through its inbox.
// Nothing outside the loop goroutine touches those fields.
type Session struct {
	id      string
	name    string
	inbox   chan Msg
	roster  *roster.Roster
	game    *engine.State
	version int

	clients  map[string]chan Envelope
	detached map[string]int // participant id -> grace generation
	graceSeq int
	turnGen  int

	opts   Options
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New starts the session actor. The creator is seeded as host on team one so
// nobody can out-race them for the host flag.
func New(parent context.Context, id, name, hostID, hostName string, opts Options) (*Session, error) {
	ctx, cancel := context.WithCancel(parent)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := roster.New()
	if err := r.Add(hostID, hostName); err != nil {
		cancel()
		return nil, err
	}
	_ = r.SetTeam(hostID, engine.TeamOne)

	s := &Session{
		id:       id,
		name:     name,
		inbox:    make(chan Msg, 64),
		roster:   r,
		clients:  make(map[string]chan Envelope),
		detached: make(map[string]int),
		opts:     opts,
		log:      logger.With(zap.String("session_id", id)),
		ctx:      ctx,
		cancel:   cancel,
	}
	go s.loop()
	return s, nil
}

func (s *Session) ID() string { return s.id }

// Inbox is how transports and tests talk to the session.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.handleJoin(msg)
			case Detach:
				s.handleDetach(msg)
			case Intent:
				s.handleIntent(msg)
			case turnTimerFired:
				s.handleTurnTimer(msg.gen)
			case graceExpired:
				s.handleGraceExpired(msg)
			case GetState:
				msg.Reply <- s.stateView()
			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) shutdown() {
	for id, ch := range s.clients {
		close(ch)
		delete(s.clients, id)
	}
	s.cancel()
}

// after delivers the message to the inbox once d elapses, unless the session
// shuts down first.
func (s *Session) after(d time.Duration, m Msg) {
	t := time.NewTimer(d)
	go func() {
		defer t.Stop()
		select {
		case <-s.ctx.Done():
		case <-t.C:
			select {
			case s.inbox <- m:
			case <-s.ctx.Done():
			}
		}
	}()
}

func (s *Session) handleJoin(msg Join) {
	if _, ok := s.roster.Get(msg.ParticipantID); ok {
		// Reconnect: same id resumes; refresh the display name like the
		// lobby always did, but never reset team/ready/lead.
		delete(s.detached, msg.ParticipantID)
		if strings.TrimSpace(msg.DisplayName) != "" {
			_ = s.roster.SetDisplayName(msg.ParticipantID, msg.DisplayName)
		}
	} else {
		if err := s.roster.Add(msg.ParticipantID, msg.DisplayName); err != nil {
			if msg.Reply != nil {
				msg.Reply <- err
			}
			return
		}
		_ = s.roster.SetTeam(msg.ParticipantID, s.roster.AutoTeam())
	}

	if old, ok := s.clients[msg.ParticipantID]; ok && old != msg.Outbox {
		close(old)
	}
	s.clients[msg.ParticipantID] = msg.Outbox
	if msg.Reply != nil {
		msg.Reply <- nil
	}
	s.log.Info("participant joined", zap.String("participant_id", msg.ParticipantID))
	s.broadcast()
}

func (s *Session) handleDetach(msg Detach) {
	if s.clients[msg.ParticipantID] != msg.Outbox {
		return // a reconnect already replaced this connection
	}
	close(msg.Outbox)
	delete(s.clients, msg.ParticipantID)
	s.startGrace(msg.ParticipantID)
}

// startGrace arms the disconnect grace timer. The roster entry stays until
// it expires, so a transient drop never vacates a team-lead slot.
func (s *Session) startGrace(participantID string) {
	if _, ok := s.roster.Get(participantID); !ok {
		return
	}
	s.graceSeq++
	s.detached[participantID] = s.graceSeq
	s.after(s.opts.DisconnectGrace, graceExpired{participantID: participantID, gen: s.graceSeq})
	s.log.Info("participant detached", zap.String("participant_id", participantID))
}

func (s *Session) handleGraceExpired(msg graceExpired) {
	if s.detached[msg.participantID] != msg.gen {
		return // reconnected, or a newer detach re-armed the timer
	}
	delete(s.detached, msg.participantID)
	s.log.Info("disconnect grace expired", zap.String("participant_id", msg.participantID))
	s.leave(msg.participantID)
}

func (s *Session) handleIntent(msg Intent) {
	p, ok := s.roster.Get(msg.From)
	if !ok {
		s.reject(msg.From, msg.Kind, ErrNotParticipant)
		return
	}

	var err error
	switch msg.Kind {
	case IntentLeave:
		s.leave(msg.From)
		return

	case IntentToggleReady:
		_, err = s.roster.ToggleReady(msg.From)

	case IntentSetDisplayName:
		err = s.roster.SetDisplayName(msg.From, msg.Name)
		if err == nil && s.opts.OnDisplayNameChanged != nil {
			s.opts.OnDisplayNameChanged(s.id, msg.From, strings.TrimSpace(msg.Name))
		}

	case IntentChangeTeam:
		team, valid := engine.ParseTeam(msg.Team)
		if !valid {
			err = fmt.Errorf("%w: unknown team %q", roster.ErrInvalidArgument, msg.Team)
			break
		}
		err = s.roster.SetTeam(msg.From, team)
		if err == nil && s.opts.OnTeamChanged != nil {
			s.opts.OnTeamChanged(s.id, msg.From, team)
		}

	case IntentClaimLead:
		err = s.claimLead(p)

	case IntentDemoteLead:
		if !p.TeamLead {
			err = engine.ErrInvalidTransition
			break
		}
		err = s.roster.SetTeamLead(msg.From, false)

	case IntentStartGame:
		err = s.startGame(p, false)

	case IntentForceStart:
		err = s.startGame(p, true)

	case IntentEndGame:
		err = s.endGame(p)

	case IntentSubmitClue:
		err = s.applyGame(engine.Command{
			Type: engine.CmdSubmitClue, ParticipantID: p.ID, Team: p.Team, TeamLead: p.TeamLead,
			Word: msg.Word, Count: msg.Count,
		})

	case IntentToggleSelection:
		err = s.applyGame(engine.Command{
			Type: engine.CmdToggleSelection, ParticipantID: p.ID, Team: p.Team, TeamLead: p.TeamLead,
			CardID: msg.CardID,
		})

	case IntentSubmitGuess:
		err = s.applyGame(engine.Command{
			Type: engine.CmdSubmitGuess, ParticipantID: p.ID, Team: p.Team, TeamLead: p.TeamLead,
			CardIDs: msg.CardIDs,
		})

	default:
		err = fmt.Errorf("%w: %s", engine.ErrUnsupportedCommand, msg.Kind)
	}

	if err != nil {
		s.reject(msg.From, msg.Kind, err)
		return
	}
	s.broadcast()
}

func (s *Session) claimLead(p roster.Participant) error {
	if p.Team == "" {
		return engine.ErrInvalidTransition
	}
	// Re-checked here, atomically with the commit: two racing claims are
	// serialized by the inbox, the second one loses.
	if lead, taken := s.roster.TeamLeadOf(p.Team); taken && lead.ID != p.ID {
		return fmt.Errorf("%w: %s already leads %s", ErrConflict, lead.ID, p.Team)
	}
	if !policy.CanClaimLead(s.roster, p.ID) {
		return engine.ErrInvalidTransition
	}
	return s.roster.SetTeamLead(p.ID, true)
}

func (s *Session) startGame(p roster.Participant, force bool) error {
	if !p.Host {
		return fmt.Errorf("%w: only the host can start the game", ErrForbidden)
	}
	if s.game != nil {
		return engine.ErrInvalidTransition
	}
	criteria := policy.EvaluateStart(s.roster)
	if !criteria.Met {
		if !force {
			return fmt.Errorf("%w: %s", engine.ErrInvalidTransition, strings.Join(criteria.Violations, "; "))
		}
		s.log.Info("force start bypassing criteria", zap.Strings("violations", criteria.Violations))
	}

	board, err := engine.NewBoard(s.opts.Deck)
	if err != nil {
		return err
	}
	game := engine.NewState(board)
	s.game = &game
	s.log.Info("game started", zap.Bool("forced", force))
	return nil
}

func (s *Session) endGame(p roster.Participant) error {
	if !p.Host {
		return fmt.Errorf("%w: only the host can end the game", ErrForbidden)
	}
	if s.game == nil {
		return engine.ErrInvalidTransition
	}
	s.game = nil
	s.turnGen++ // disarm any pending turn timer
	s.roster.ResetReady()
	s.log.Info("game ended, back to lobby")
	return nil
}

// applyGame runs one engine command and commits the new state. A guess moves
// the game into the reveal phase; the turn then ends on its own after the
// reveal delay.
func (s *Session) applyGame(cmd engine.Command) error {
	if s.game == nil {
		return engine.ErrInvalidTransition
	}
	events, next, err := engine.Apply(*s.game, cmd)
	if err != nil {
		return err
	}
	s.game = &next
	if engine.ContainsEvent(events, engine.EvtCardsRevealed) {
		s.turnGen++
		s.after(s.opts.RevealDelay, turnTimerFired{gen: s.turnGen})
	}
	return nil
}

func (s *Session) handleTurnTimer(gen int) {
	if gen != s.turnGen || s.game == nil {
		return // stale fire from a previous turn or a discarded game
	}
	_, next, err := engine.Apply(*s.game, engine.Command{Type: engine.CmdEndTurn})
	if err != nil {
		return
	}
	s.game = &next
	s.broadcast()
}

// leave removes the participant for good: explicit leave intent or an
// expired disconnect grace.
func (s *Session) leave(participantID string) {
	if err := s.roster.Remove(participantID); err != nil {
		s.reject(participantID, IntentLeave, err)
		return
	}
	if ch, ok := s.clients[participantID]; ok {
		close(ch)
		delete(s.clients, participantID)
	}
	delete(s.detached, participantID)
	if s.game != nil {
		next := s.game.DropSelections(participantID)
		s.game = &next
	}
	s.log.Info("participant left", zap.String("participant_id", participantID))

	if s.roster.Len() == 0 {
		if s.opts.OnEmpty != nil {
			s.opts.OnEmpty(s.id)
		}
		s.cancel()
		return
	}
	s.broadcast()
}

// reject answers only the originating participant; nobody else sees a thing.
func (s *Session) reject(participantID string, kind IntentKind, err error) {
	s.log.Debug("intent rejected",
		zap.String("participant_id", participantID),
		zap.String("intent", string(kind)),
		zap.Error(err))
	ch, ok := s.clients[participantID]
	if !ok {
		return
	}
	select {
	case ch <- Envelope{Err: err}:
	default:
	}
}

// broadcast commits the mutation (version bump) and pushes one role-filtered
// snapshot per connected participant. Sends never block the loop: a client
// with a full outbox is dropped and put on disconnect grace, same as a dead
// connection.
func (s *Session) broadcast() {
	s.version++
	view := s.sessionView()
	criteria := policy.EvaluateStart(s.roster)

	for id, ch := range s.clients {
		p, ok := s.roster.Get(id)
		if !ok {
			continue
		}
		snap := &Snapshot{Version: s.version, Session: view, StartCriteria: criteria}
		if s.game != nil {
			gv := s.game.ViewFor(p.TeamLead)
			snap.Game = &gv
		}
		select {
		case ch <- Envelope{Snapshot: snap}:
		default:
			close(ch)
			delete(s.clients, id)
			s.startGrace(id)
		}
	}
}

func (s *Session) sessionView() SessionView {
	host, _ := s.roster.Host()
	return SessionView{
		ID:           s.id,
		Name:         s.name,
		HostID:       host.ID,
		Participants: s.roster.Participants(),
	}
}

func (s *Session) stateView() StateView {
	v := StateView{
		Version:      s.version,
		NumClients:   len(s.clients),
		Name:         s.name,
		Participants: s.roster.Participants(),
	}
	if host, ok := s.roster.Host(); ok {
		v.HostID = host.ID
	}
	if s.game != nil {
		game := *s.game
		v.Game = &game
	}
	return v
}
