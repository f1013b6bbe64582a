// Package game is the composition root: it wires the pure reducers, the
// zero-sum validator and the hole history into one mutex-guarded session,
// records every applied transition as a betting event for the outbox, and
// keeps a durable snapshot of the whole state.
package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"wolfgoatpig/internal/engine"
	"wolfgoatpig/internal/history"
	"wolfgoatpig/internal/logger"
	"wolfgoatpig/internal/scoring"
	"wolfgoatpig/internal/storage"
)

// snapshotDelay debounces durable saves across bursts of mutations.
const snapshotDelay = 500 * time.Millisecond

var (
	ErrGameComplete = errors.New("the round is complete")
	ErrOfferPending = errors.New("a double offer is already outstanding")
	ErrNoOffer      = errors.New("no double offer is outstanding")
)

// Recorder receives the session's betting events. *outbox.Manager implements
// it; tests substitute a fake.
type Recorder interface {
	Record(ev engine.BettingEvent) error
	CompleteHole(ctx context.Context, hole int) error
}

// Session is the live state of one round. All methods are safe for concurrent
// use; reducers stay pure and the session owns the only mutable copy.
type Session struct {
	mu sync.Mutex

	id      string
	players []engine.Player
	roster  map[string]engine.Player

	betting  engine.BettingState
	phase    engine.PhaseState
	teams    engine.TeamState
	hole     engine.HoleEntryState
	aardvark engine.AardvarkState

	history   *history.Log
	validator *scoring.Validator

	pendingOffer *engine.PendingOffer
	holeEvents   []engine.BettingEvent

	recorder Recorder

	saveDelay time.Duration
	saveTimer *time.Timer
}

// snapshotPayload is the persisted form of a session.
type snapshotPayload struct {
	GameID       string                `json:"game_id"`
	Players      []engine.Player       `json:"players"`
	Betting      engine.BettingState   `json:"betting"`
	Phase        engine.PhaseState     `json:"phase"`
	Teams        engine.TeamState      `json:"teams"`
	Hole         engine.HoleEntryState `json:"hole"`
	Aardvark     engine.AardvarkState  `json:"aardvark"`
	History      []history.HoleRecord  `json:"history"`
	PendingOffer *engine.PendingOffer  `json:"pending_offer,omitempty"`
	HoleEvents   []engine.BettingEvent `json:"hole_events,omitempty"`
}

// NewSession starts a round. Wolf Goat Pig needs at least four players.
func NewSession(gameID string, players []engine.Player, baseWager int, recorder Recorder) (*Session, error) {
	if len(players) < 4 {
		return nil, fmt.Errorf("wolf goat pig requires at least 4 players, got %d", len(players))
	}
	if gameID == "" {
		gameID = uuid.NewString()
	}

	roster := make(map[string]engine.Player, len(players))
	rosterIDs := make([]string, len(players))
	for i, p := range players {
		if p.ID == "" {
			return nil, fmt.Errorf("player %d has no id", i)
		}
		if _, dup := roster[p.ID]; dup {
			return nil, fmt.Errorf("duplicate player id %s", p.ID)
		}
		roster[p.ID] = p
		rosterIDs[i] = p.ID
	}

	teams := engine.NewTeamState(players)
	return &Session{
		id:        gameID,
		players:   append([]engine.Player{}, players...),
		roster:    roster,
		betting:   engine.NewBettingState(baseWager),
		phase:     engine.NewPhaseState(),
		teams:     teams,
		hole:      engine.NewHoleEntryState(teams.RotationOrder),
		aardvark:  engine.NewAardvarkState(teams.RotationOrder),
		history:   history.NewLog(),
		validator: scoring.NewValidator(rosterIDs),
		recorder:  recorder,
		saveDelay: snapshotDelay,
	}, nil
}

// Restore rebuilds a session from the durable snapshot. Snapshots older than
// maxAge are discarded; a corrupt current generation falls back to the
// backup. Returns (nil, nil) when there is nothing to restore.
func Restore(recorder Recorder, maxAge time.Duration) (*Session, error) {
	snap, err := storage.LoadSnapshot(maxAge)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}

	var payload snapshotPayload
	if err := json.Unmarshal(snap.Payload, &payload); err != nil {
		logger.Debug(snap.GameID, "snapshot_corrupt", fmt.Sprintf("error=%s", err.Error()))
		backup, berr := storage.LoadBackupSnapshot()
		if berr != nil || backup == nil {
			return nil, fmt.Errorf("failed to decode snapshot and no backup: %w", err)
		}
		if berr := json.Unmarshal(backup.Payload, &payload); berr != nil {
			return nil, fmt.Errorf("failed to decode snapshot and backup: %w", berr)
		}
	}

	s, err := NewSession(payload.GameID, payload.Players, payload.Betting.BaseWager, recorder)
	if err != nil {
		return nil, err
	}
	s.betting = payload.Betting
	s.phase = payload.Phase
	s.teams = payload.Teams
	s.hole = payload.Hole
	s.aardvark = payload.Aardvark
	s.history.SetHistory(payload.History)
	s.pendingOffer = payload.PendingOffer
	s.holeEvents = payload.HoleEvents
	for _, rec := range payload.History {
		s.validator.SetHoleQuarters(rec.Hole, rec.PointsDelta)
	}
	logger.Debug(s.id, "session_restored", fmt.Sprintf("hole=%d holes_played=%d", s.phase.CurrentHole, s.history.Len()))
	return s, nil
}

// GameID returns the round's id.
func (s *Session) GameID() string {
	return s.id
}

// Players returns the roster.
func (s *Session) Players() []engine.Player {
	return append([]engine.Player{}, s.players...)
}

// Betting returns the current wager state.
func (s *Session) Betting() engine.BettingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.betting
}

// Phase returns the current phase state.
func (s *Session) Phase() engine.PhaseState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Teams returns the current team state.
func (s *Session) Teams() engine.TeamState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teams
}

// Hole returns the current hole entry state.
func (s *Session) Hole() engine.HoleEntryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hole
}

// Aardvark returns the aardvark negotiation state.
func (s *Session) Aardvark() engine.AardvarkState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aardvark
}

// PendingOffer returns the outstanding double offer, if any.
func (s *Session) PendingOffer() *engine.PendingOffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingOffer == nil {
		return nil
	}
	offer := *s.pendingOffer
	return &offer
}

// Holes returns the completed hole records.
func (s *Session) Holes() []history.HoleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Holes()
}

// Standings returns the derived per-player standings.
func (s *Session) Standings() map[string]history.Standing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Standings()
}

// --- Double offers ---

// OfferDouble opens a double offer from one side to the other. At most one
// offer is outstanding at a time.
func (s *Session) OfferDouble(from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playableLocked(); err != nil {
		return err
	}
	if s.pendingOffer != nil {
		return ErrOfferPending
	}
	if _, ok := s.roster[from]; !ok {
		return fmt.Errorf("unknown player %s", from)
	}

	s.pendingOffer = &engine.PendingOffer{
		Type:            engine.EventDoubleOffered,
		From:            from,
		To:              to,
		WagerMultiplier: 2,
		Timestamp:       time.Now(),
	}
	s.recordLocked(engine.EventDoubleOffered, from, map[string]any{"to": to})
	s.scheduleSaveLocked()
	return nil
}

// AcceptDouble resolves the outstanding offer: the wager doubles.
func (s *Session) AcceptDouble(actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingOffer == nil {
		return ErrNoOffer
	}
	offeredBy := s.pendingOffer.From
	s.pendingOffer = nil
	s.betting = engine.ReduceBetting(s.betting, engine.Double{})
	s.recordLocked(engine.EventDoubleAccepted, actor, map[string]any{
		"offered_by": offeredBy,
		"wager":      s.betting.CurrentWager,
	})
	s.scheduleSaveLocked()
	return nil
}

// DeclineDouble resolves the outstanding offer against the declining side.
// The hole goes to the offering side at the pre-double wager; settlement of
// the quarters stays with the players.
func (s *Session) DeclineDouble(actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingOffer == nil {
		return ErrNoOffer
	}
	offeredBy := s.pendingOffer.From
	s.pendingOffer = nil
	s.recordLocked(engine.EventDoubleDeclined, actor, map[string]any{
		"offered_by": offeredBy,
		"wager":      s.betting.CurrentWager,
	})
	s.scheduleSaveLocked()
	return nil
}

// CancelOffer withdraws the outstanding offer without recording an outcome.
func (s *Session) CancelOffer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingOffer = nil
	s.scheduleSaveLocked()
}

// --- Wager invocations ---

// InvokeFloat doubles the wager on the captain's float. Once per hole.
func (s *Session) InvokeFloat(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playableLocked(); err != nil {
		return err
	}
	next := engine.ReduceBetting(s.betting, engine.Float{Player: playerID})
	if next == s.betting {
		return fmt.Errorf("the float was already used this hole by %s", s.betting.FloatInvokedBy)
	}
	s.betting = next
	s.recordLocked(engine.EventFloatInvoked, playerID, map[string]any{"wager": s.betting.CurrentWager})
	s.scheduleSaveLocked()
	return nil
}

// InvokeOption activates the option for the trailing captain.
func (s *Session) InvokeOption(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playableLocked(); err != nil {
		return err
	}
	next := engine.ReduceBetting(s.betting, engine.Option{Player: playerID})
	if next == s.betting {
		return errors.New("the option is not available on this hole")
	}
	s.betting = next
	s.recordLocked(engine.EventOptionInvoked, playerID, nil)
	s.scheduleSaveLocked()
	return nil
}

// TurnOffOption disables the option for the remainder of the hole.
func (s *Session) TurnOffOption(actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playableLocked(); err != nil {
		return err
	}
	next := engine.ReduceBetting(s.betting, engine.OptionOff{})
	if next == s.betting {
		return errors.New("the option is already off")
	}
	s.betting = next
	s.recordLocked(engine.EventOptionTurnedOff, actor, nil)
	s.scheduleSaveLocked()
	return nil
}

// InvokeDuncan doubles the wager for a solo captain's Duncan. Once per hole.
func (s *Session) InvokeDuncan(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playableLocked(); err != nil {
		return err
	}
	next := engine.ReduceBetting(s.betting, engine.Duncan{})
	if next == s.betting {
		return errors.New("the duncan was already invoked this hole")
	}
	s.betting = next
	s.recordLocked(engine.EventDuncanInvoked, playerID, map[string]any{"wager": s.betting.CurrentWager})
	s.scheduleSaveLocked()
	return nil
}

// SetJoesSpecial lets the goat pick the hoepfinger opening wager. Only the
// goat may invoke it, only during hoepfinger, and only for 2, 4 or 8 quarters
// or the natural wager when higher.
func (s *Session) SetJoesSpecial(playerID string, quarters int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playableLocked(); err != nil {
		return err
	}
	if !s.phase.IsHoepfinger {
		return errors.New("joe's special is only available in hoepfinger")
	}
	if playerID != s.phase.GoatID {
		return fmt.Errorf("only the goat may set joe's special, goat is %s", s.phase.GoatID)
	}
	next := engine.ReduceBetting(s.betting, engine.JoesSpecial{Quarters: quarters})
	if next == s.betting {
		return fmt.Errorf("illegal joe's special value %d", quarters)
	}
	s.betting = next
	s.recordLocked(engine.EventJoesSpecial, playerID, map[string]any{"quarters": quarters})
	s.scheduleSaveLocked()
	return nil
}

// --- Teams ---

// SetTeamMode switches between partners and solo.
func (s *Session) SetTeamMode(mode engine.TeamMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playableLocked(); err != nil {
		return err
	}
	s.teams = s.teams.SetMode(mode)
	s.scheduleSaveLocked()
	return nil
}

// ToggleTeam1 flips a player's membership in team 1.
func (s *Session) ToggleTeam1(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playableLocked(); err != nil {
		return err
	}
	if _, ok := s.roster[playerID]; !ok {
		return fmt.Errorf("unknown player %s", playerID)
	}
	s.teams = s.teams.ToggleTeam1(playerID)
	s.scheduleSaveLocked()
	return nil
}

// SetCaptain selects the solo captain; selecting again deselects.
func (s *Session) SetCaptain(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playableLocked(); err != nil {
		return err
	}
	if _, ok := s.roster[playerID]; !ok {
		return fmt.Errorf("unknown player %s", playerID)
	}
	s.teams = s.teams.SetCaptain(playerID)
	s.scheduleSaveLocked()
	return nil
}

// --- Aardvark ---

// AardvarkRequest is the aardvark asking to join a side.
func (s *Session) AardvarkRequest(team string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playableLocked(); err != nil {
		return err
	}
	next := engine.ReduceAardvark(s.aardvark, engine.RequestTeam{Team: team})
	if next.RequestedTeam == s.aardvark.RequestedTeam {
		return fmt.Errorf("aardvark cannot request %s now", team)
	}
	s.aardvark = next
	s.recordLocked(engine.EventAardvarkRequest, s.aardvark.AardvarkID, map[string]any{"team": team})
	s.scheduleSaveLocked()
	return nil
}

// AardvarkAccept is the requested side taking the aardvark on.
func (s *Session) AardvarkAccept(team string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playableLocked(); err != nil {
		return err
	}
	next := engine.ReduceAardvark(s.aardvark, engine.AcceptAardvark{Team: team})
	if next.AcceptedBy == "" {
		return fmt.Errorf("%s has no aardvark request to accept", team)
	}
	s.aardvark = next
	s.recordLocked(engine.EventAardvarkAccepted, s.aardvark.AardvarkID, map[string]any{"team": team})
	s.scheduleSaveLocked()
	return nil
}

// AardvarkToss is the requested side rejecting the aardvark, doubling its
// multiplier. A second toss sends the aardvark out alone.
func (s *Session) AardvarkToss(team string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playableLocked(); err != nil {
		return err
	}
	next := engine.ReduceAardvark(s.aardvark, engine.TossAardvark{Team: team})
	if next.Multiplier == s.aardvark.Multiplier {
		return fmt.Errorf("%s has no aardvark request to toss", team)
	}
	s.aardvark = next
	s.recordLocked(engine.EventAardvarkTossed, s.aardvark.AardvarkID, map[string]any{
		"team":       team,
		"multiplier": s.aardvark.Multiplier,
		"on_own":     s.aardvark.OnOwn,
	})
	s.scheduleSaveLocked()
	return nil
}

// --- Hole entry ---

// SetScore records a gross score. Strokes must be at least 1.
func (s *Session) SetScore(playerID string, strokes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playableLocked(); err != nil {
		return err
	}
	if _, ok := s.roster[playerID]; !ok {
		return fmt.Errorf("unknown player %s", playerID)
	}
	if strokes < 1 {
		return fmt.Errorf("invalid score %d, must be at least 1", strokes)
	}
	s.hole = s.hole.SetScore(playerID, strokes)
	s.scheduleSaveLocked()
	return nil
}

// SetQuarters records a player's quarters for the hole. Zero is a valid entry.
func (s *Session) SetQuarters(playerID string, quarters int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playableLocked(); err != nil {
		return err
	}
	if _, ok := s.roster[playerID]; !ok {
		return fmt.Errorf("unknown player %s", playerID)
	}
	s.hole = s.hole.SetQuarters(playerID, quarters)
	s.scheduleSaveLocked()
	return nil
}

// SetWinner tags the hole outcome. Legal values depend on the team mode;
// "push" is always legal.
func (s *Session) SetWinner(winner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playableLocked(); err != nil {
		return err
	}
	if !s.winnerLegalLocked(winner) {
		return fmt.Errorf("invalid winner %q for %s mode", winner, s.teams.Mode)
	}
	s.hole = s.hole.SetWinner(winner)
	s.scheduleSaveLocked()
	return nil
}

// SetNotes attaches free-form notes to the hole.
func (s *Session) SetNotes(notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playableLocked(); err != nil {
		return err
	}
	s.hole = s.hole.SetNotes(notes)
	s.scheduleSaveLocked()
	return nil
}

// --- Past-hole correction ---

// EditHoleEntry corrects one player's score and quarters on a completed hole.
// The correction may leave the hole unbalanced; InvalidHoles reports the
// damage, and the round cannot finish until every recorded hole balances
// again.
func (s *Session) EditHoleEntry(hole int, playerID string, strokes, quarters int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, rec, err := s.recordedHoleLocked(hole)
	if err != nil {
		return err
	}
	if _, ok := s.roster[playerID]; !ok {
		return fmt.Errorf("unknown player %q", playerID)
	}
	if strokes < 1 {
		return fmt.Errorf("invalid score %d, a golf score is at least 1", strokes)
	}

	scratch := engine.NewHoleEntryState(s.teams.Roster).
		RestoreFromHole(rec.GrossScores, rec.PointsDelta, rec.Winner, rec.Notes)
	scratch = scratch.SetScore(playerID, strokes).SetQuarters(playerID, quarters)

	rec.GrossScores = scratch.Scores
	rec.PointsDelta = scratch.Quarters
	if err := s.history.UpdateHole(idx, rec); err != nil {
		return err
	}
	s.validator.SetHoleQuarters(hole, rec.PointsDelta)

	logger.Debug(s.id, "hole_edited", fmt.Sprintf("hole=%d player=%s score=%d quarters=%d", hole, playerID, strokes, quarters))
	s.scheduleSaveLocked()
	return nil
}

// EditHoleWinner corrects the recorded outcome of a completed hole. The new
// winner must be legal for the teams that played it.
func (s *Session) EditHoleWinner(hole int, winner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, rec, err := s.recordedHoleLocked(hole)
	if err != nil {
		return err
	}
	played := s.teams.RestoreFromHole(rec.Teams)
	if !winnerLegal(played, winner) {
		return fmt.Errorf("invalid winner %q for %s mode", winner, played.Mode)
	}

	rec.Winner = winner
	if err := s.history.UpdateHole(idx, rec); err != nil {
		return err
	}

	logger.Debug(s.id, "hole_winner_edited", fmt.Sprintf("hole=%d winner=%s", hole, winner))
	s.scheduleSaveLocked()
	return nil
}

// InvalidHoles lists completed holes whose quarters no longer balance.
func (s *Session) InvalidHoles() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validator.InvalidHoles()
}

// ReadyToComplete reports whether every recorded hole balances.
func (s *Session) ReadyToComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validator.ReadyToComplete()
}

func (s *Session) recordedHoleLocked(hole int) (int, history.HoleRecord, error) {
	for i, rec := range s.history.Holes() {
		if rec.Hole == hole {
			return i, rec, nil
		}
	}
	return 0, history.HoleRecord{}, fmt.Errorf("hole %d has not been completed", hole)
}

// --- Hoepfinger ---

// EnterHoepfinger designates the trailing player as the goat and enters the
// hoepfinger phase early.
func (s *Session) EnterHoepfinger() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playableLocked(); err != nil {
		return err
	}
	if s.phase.IsHoepfinger {
		return errors.New("already in hoepfinger")
	}
	goat := s.validator.Trailing()
	s.phase = s.phase.EnterHoepfinger(goat)
	s.recordLocked(engine.EventGoatDesignated, engine.SystemActor, map[string]any{"goat": goat})
	s.scheduleSaveLocked()
	return nil
}

// --- Hole completion ---

// CompleteHole finalizes the current hole: all scores entered, all quarters
// entered and balanced, teams formed. The record is appended to history, the
// hole's events flush through the outbox with a synthetic HOLE_COMPLETE, the
// captain rotates, and the next hole is set up with the carry-over applied
// after the wager reset.
func (s *Session) CompleteHole(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playableLocked(); err != nil {
		return err
	}

	snap, ok := s.teams.Snapshot()
	if !ok {
		return errors.New("teams are not formed")
	}
	if !s.hole.AllScoresEntered(s.teams.Roster) {
		return errors.New("not every player has a score")
	}
	if !s.hole.AllQuartersEntered(s.teams.Roster) {
		return errors.New("not every player has quarters entered")
	}
	if !s.hole.QuartersBalanced() {
		return fmt.Errorf("quarters do not balance, sum is %d", s.hole.QuartersSum())
	}
	if s.hole.Winner == "" {
		return errors.New("no winner recorded")
	}
	// The last hole also closes the round: every earlier record must still
	// balance, or a past-hole edit left the books broken
	if s.phase.AdvanceHole().IsGameComplete() {
		if bad := s.validator.InvalidHoles(); len(bad) > 0 {
			return fmt.Errorf("cannot finish the round, holes %v do not balance", bad)
		}
	}

	hole := s.phase.CurrentHole

	// A push carries the double over to the next hole
	if s.hole.Winner == "push" {
		s.betting = engine.ReduceBetting(s.betting, engine.MarkCarryOver{})
		s.recordLocked(engine.EventCarryOver, engine.SystemActor, nil)
	}

	rec := history.HoleRecord{
		Hole:          hole,
		GrossScores:   s.hole.Scores,
		PointsDelta:   s.hole.Quarters,
		Teams:         snap,
		Winner:        s.hole.Winner,
		Notes:         s.hole.Notes,
		BettingEvents: s.holeEvents,
	}
	s.history.AddHole(rec)
	s.validator.SetHoleQuarters(hole, rec.PointsDelta)

	// Sync is best-effort here: the completion event is durably queued even
	// when the flush fails, and the retry worker finishes the job
	if err := s.recorder.CompleteHole(ctx, hole); err != nil {
		logger.Debug(s.id, "complete_hole_sync_failed", fmt.Sprintf("hole=%d error=%s", hole, err.Error()))
	}

	// Next hole setup
	s.holeEvents = nil
	s.pendingOffer = nil
	s.hole = s.hole.Reset()
	s.aardvark = engine.ReduceAardvark(s.aardvark, engine.ResetAardvarkForHole{})
	s.teams = s.teams.RotateCaptain()
	s.teams.Team1 = nil
	s.teams.Captain = ""
	s.teams.Opponents = nil

	s.betting = engine.ReduceBetting(s.betting, engine.ResetForHole{})
	s.phase = s.phase.AdvanceHole()
	s.betting.VinniesVariation = s.phase.VinniesVariation
	if s.betting.CarryOver {
		s.betting = engine.ReduceBetting(s.betting, engine.ApplyCarryOver{})
		s.recordLocked(engine.EventCarryOverApplied, engine.SystemActor, map[string]any{"wager": s.betting.CurrentWager})
	}

	// Entering hoepfinger by hole number designates the trailing player
	if s.phase.IsHoepfinger && s.phase.GoatID == "" {
		goat := s.validator.Trailing()
		s.phase = s.phase.EnterHoepfinger(goat)
		s.recordLocked(engine.EventGoatDesignated, engine.SystemActor, map[string]any{"goat": goat})
	}

	logger.Debug(s.id, "hole_completed", fmt.Sprintf("hole=%d winner=%s wager=%d", hole, rec.Winner, s.betting.CurrentWager))
	s.saveLocked()
	return nil
}

// Close flushes any pending snapshot save.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	s.saveLocked()
}

// --- internals ---

func (s *Session) playableLocked() error {
	if s.phase.IsGameComplete() {
		return ErrGameComplete
	}
	return nil
}

func (s *Session) winnerLegalLocked(winner string) bool {
	return winnerLegal(s.teams, winner)
}

func winnerLegal(teams engine.TeamState, winner string) bool {
	if winner == "push" {
		return true
	}
	switch teams.Mode {
	case engine.ModePartners:
		return winner == "team1" || winner == "team2"
	case engine.ModeSolo:
		return winner == "captain" || winner == "opponents"
	}
	return false
}

func (s *Session) recordLocked(t engine.EventType, actor string, data map[string]any) {
	ev := engine.BettingEvent{
		EventID:    uuid.NewString(),
		GameID:     s.id,
		HoleNumber: s.phase.CurrentHole,
		Type:       t,
		Actor:      actor,
		Timestamp:  time.Now(),
		Data:       data,
	}
	s.holeEvents = append(s.holeEvents, ev)
	if err := s.recorder.Record(ev); err != nil {
		// The in-memory copy survives in holeEvents; losing the durable
		// enqueue only costs sync, not gameplay
		logger.Debug(s.id, "event_record_failed", fmt.Sprintf("type=%s error=%s", t, err.Error()))
	}
}

// scheduleSaveLocked debounces the durable snapshot.
func (s *Session) scheduleSaveLocked() {
	if s.saveDelay <= 0 {
		s.saveLocked()
		return
	}
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = time.AfterFunc(s.saveDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.saveTimer = nil
		s.saveLocked()
	})
}

func (s *Session) saveLocked() {
	payload, err := json.Marshal(snapshotPayload{
		GameID:       s.id,
		Players:      s.players,
		Betting:      s.betting,
		Phase:        s.phase,
		Teams:        s.teams,
		Hole:         s.hole,
		Aardvark:     s.aardvark,
		History:      s.history.Holes(),
		PendingOffer: s.pendingOffer,
		HoleEvents:   s.holeEvents,
	})
	if err != nil {
		logger.Debug(s.id, "snapshot_marshal_failed", fmt.Sprintf("error=%s", err.Error()))
		return
	}
	if err := storage.SaveSnapshot(s.id, payload); err != nil {
		logger.Debug(s.id, "snapshot_save_failed", fmt.Sprintf("error=%s", err.Error()))
	}
}
