// internal/lobby/lobby.go
package lobby

import (
	"math/rand"
	"sync"

	"github.com/brnbmbr/button-game/internal/board"
)

// Phase is the lobby lifecycle state.
type Phase int

const (
	PhaseForming Phase = iota
	PhaseInProgress
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseForming:
		return "forming"
	case PhaseInProgress:
		return "in_progress"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// GameConfig is set exactly once per lobby, by the host at start.
// Field names match the client wire protocol.
type GameConfig struct {
	Picks             int      `json:"picks"`
	GrandPrizes       []string `json:"grandPrizes"`
	ConsolationPrizes []string `json:"consolationPrizes"`
	HostIsPlayer      bool     `json:"hostIsPlayer"`
	AllowDuplicates   bool     `json:"allowDuplicates"`
}

// PickResult is the outcome of one accepted pick.
type PickResult struct {
	Slot      int
	Won       bool
	Tier      board.Tier
	Label     string
	ClaimCode string
	PicksLeft int

	// Post-mutation snapshots for the room broadcasts.
	RemainingPicks map[string]int
	Leaderboard    map[string]string
}

// LeaveResult describes the lobby after a member left.
type LeaveResult struct {
	Player *Player
	Closed bool

	// Orphans are the connections still seated at the moment the lobby
	// closed; the directory drops their back-references so they can join
	// another lobby.
	Orphans []string

	Players        []PlayerSummary
	RemainingPicks map[string]int
}

// Lobby is one isolated room of players sharing one game, keyed by a phrase.
// Every mutable field is guarded by mu; each exported operation is one
// indivisible unit, so two racing picks for the same button are strictly
// serialized and exactly one can ever win it.
type Lobby struct {
	Keyphrase  string
	HostConnID string

	mu          sync.Mutex
	players     *Registry
	conns       map[string]*Conn
	config      *GameConfig
	prizes      map[int]board.Prize
	claimed     map[int]string // slot -> conn id of first claimant; set even for empty slots
	leaderboard map[string]string
	phase       Phase
	boardSize   int
	rng         *rand.Rand
}

func newLobby(keyphrase string, boardSize int, rng *rand.Rand) *Lobby {
	return &Lobby{
		Keyphrase:   keyphrase,
		players:     NewRegistry(),
		conns:       make(map[string]*Conn),
		claimed:     make(map[int]string),
		leaderboard: make(map[string]string),
		phase:       PhaseForming,
		boardSize:   boardSize,
		rng:         rng,
	}
}

// seatHost seats the creating connection as the first player. Only called
// from Store.Create before the lobby is shared, so no lock is needed.
func (l *Lobby) seatHost(conn *Conn, nickname string) []PlayerSummary {
	l.HostConnID = conn.ID
	conn.Nickname = nickname
	l.players.Add(conn.ID, nickname, true)
	l.conns[conn.ID] = conn
	return l.players.Summaries()
}

// Join seats a new player while the lobby is forming. Late joins after the
// game has started are rejected outright.
func (l *Lobby) Join(conn *Conn, nickname string) ([]PlayerSummary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase != PhaseForming {
		return nil, ErrAlreadyStarted
	}
	if _, err := l.players.Add(conn.ID, nickname, false); err != nil {
		return nil, err
	}
	conn.Nickname = nickname
	l.conns[conn.ID] = conn
	return l.players.Summaries(), nil
}

// Start stores the config, allocates the prize board, and hands every
// player their pick budget, all atomically. The host's budget is zero
// unless the config says the host plays too.
func (l *Lobby) Start(connID string, cfg GameConfig) (map[string]int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if connID != l.HostConnID {
		return nil, ErrNotHost
	}
	if l.phase != PhaseForming {
		return nil, ErrAlreadyStarted
	}
	if cfg.Picks <= 0 {
		return nil, ErrInvalidConfig
	}

	prizes, err := board.Allocate(l.boardSize, cfg.GrandPrizes, cfg.ConsolationPrizes, l.rng)
	if err != nil {
		return nil, err
	}

	l.config = &cfg
	l.prizes = prizes
	l.players.ForEach(func(p *Player) {
		if p.IsHost && !cfg.HostIsPlayer {
			l.players.SetPicks(p.ConnID, 0)
			return
		}
		l.players.SetPicks(p.ConnID, cfg.Picks)
	})
	l.phase = PhaseInProgress
	return l.players.PicksByNickname(), nil
}

// Pick arbitrates one claim attempt. A successful attempt always costs
// exactly one pick and marks the button claimed, even when the button is
// empty, so replays of a spent button never re-award. A prize button pays
// out only to its first claimant.
func (l *Lobby) Pick(connID string, slot int) (PickResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase != PhaseInProgress {
		return PickResult{}, ErrNotInProgress
	}
	p, ok := l.players.Get(connID)
	if !ok {
		return PickResult{}, ErrUnknownPlayer
	}
	if p.Picks <= 0 {
		return PickResult{}, ErrNoPicksLeft
	}
	if slot < 1 || slot > l.boardSize {
		return PickResult{}, ErrInvalidSlot
	}
	_, alreadyClaimed := l.claimed[slot]
	if alreadyClaimed && !l.config.AllowDuplicates {
		return PickResult{}, ErrSlotTaken
	}

	left, err := l.players.DecrementPicks(connID)
	if err != nil {
		return PickResult{}, err
	}
	res := PickResult{Slot: slot, PicksLeft: left}

	if prize, holds := l.prizes[slot]; holds && !alreadyClaimed {
		res.Won = true
		res.Tier = prize.Tier
		res.Label = prize.Label
		res.ClaimCode = prize.ClaimCode
		l.leaderboard[p.Nickname] = prize.Label
	}
	if !alreadyClaimed {
		l.claimed[slot] = connID
	}

	res.RemainingPicks = l.players.PicksByNickname()
	res.Leaderboard = make(map[string]string, len(l.leaderboard))
	for nick, label := range l.leaderboard {
		res.Leaderboard[nick] = label
	}
	return res, nil
}

// Leave removes a member. The lobby closes when the host leaves or the last
// seat empties; otherwise it keeps going with the departed player's unspent
// picks simply discarded.
func (l *Lobby) Leave(connID string) (LeaveResult, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.players.Remove(connID)
	if !ok {
		return LeaveResult{}, false
	}
	delete(l.conns, connID)

	res := LeaveResult{Player: p}
	if p.IsHost || l.players.Len() == 0 {
		l.phase = PhaseClosed
		res.Closed = true
		l.players.ForEach(func(rest *Player) {
			res.Orphans = append(res.Orphans, rest.ConnID)
		})
		return res, true
	}
	res.Players = l.players.Summaries()
	res.RemainingPicks = l.players.PicksByNickname()
	return res, true
}

// Broadcast fans msg out to every member. The connection snapshot is taken
// under the lock but the sends happen outside it, so a slow socket cannot
// hold up lobby mutations.
func (l *Lobby) Broadcast(msg map[string]interface{}) {
	l.mu.Lock()
	conns := make([]*Conn, 0, len(l.conns))
	for _, c := range l.conns {
		conns = append(conns, c)
	}
	l.mu.Unlock()

	for _, c := range conns {
		c.Write(msg)
	}
}

// Phase reports the current lifecycle state.
func (l *Lobby) Phase() Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.phase
}

// PlayerCount reports the number of seated players.
func (l *Lobby) PlayerCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.players.Len()
}
