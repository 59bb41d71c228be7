// internal/lobby/registry.go
package lobby

import "time"

// Player is one seated member of a lobby. Owned exclusively by the lobby's
// registry and only touched under the lobby mutex.
type Player struct {
	ConnID   string
	Nickname string
	JoinedAt time.Time
	Picks    int
	IsHost   bool
}

// PlayerSummary is the wire shape of a player in `joined` broadcasts.
type PlayerSummary struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
}

// Registry tracks the membership of one lobby in join order. It is not
// self-locking: the owning Lobby serializes all access.
type Registry struct {
	players map[string]*Player
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{players: make(map[string]*Player)}
}

// Add seats a new player. Duplicate connection ids and duplicate nicknames
// within one lobby are both rejected.
func (r *Registry) Add(connID, nickname string, isHost bool) (*Player, error) {
	if _, exists := r.players[connID]; exists {
		return nil, ErrAlreadyJoined
	}
	for _, p := range r.players {
		if p.Nickname == nickname {
			return nil, ErrNicknameTaken
		}
	}
	p := &Player{
		ConnID:   connID,
		Nickname: nickname,
		JoinedAt: time.Now(),
		IsHost:   isHost,
	}
	r.players[connID] = p
	r.order = append(r.order, connID)
	return p, nil
}

// Remove unseats a player, reporting whether they were present.
func (r *Registry) Remove(connID string) (*Player, bool) {
	p, ok := r.players[connID]
	if !ok {
		return nil, false
	}
	delete(r.players, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return p, true
}

func (r *Registry) Get(connID string) (*Player, bool) {
	p, ok := r.players[connID]
	return p, ok
}

func (r *Registry) Len() int { return len(r.players) }

// ForEach visits players in join order so broadcast payloads are
// deterministic.
func (r *Registry) ForEach(fn func(*Player)) {
	for _, id := range r.order {
		fn(r.players[id])
	}
}

// SetPicks assigns a player's pick budget at game start.
func (r *Registry) SetPicks(connID string, n int) {
	if p, ok := r.players[connID]; ok {
		p.Picks = n
	}
}

// DecrementPicks spends one pick and returns the new budget. The budget
// never goes below zero.
func (r *Registry) DecrementPicks(connID string) (int, error) {
	p, ok := r.players[connID]
	if !ok {
		return 0, ErrUnknownPlayer
	}
	if p.Picks <= 0 {
		return 0, ErrNoPicksLeft
	}
	p.Picks--
	return p.Picks, nil
}

// Summaries returns the join-ordered player list for `joined` broadcasts.
func (r *Registry) Summaries() []PlayerSummary {
	out := make([]PlayerSummary, 0, len(r.order))
	r.ForEach(func(p *Player) {
		out = append(out, PlayerSummary{ID: p.ConnID, Nickname: p.Nickname})
	})
	return out
}

// PicksByNickname returns every seated player's remaining picks, keyed by
// nickname, for `updateRemainingPicks` broadcasts.
func (r *Registry) PicksByNickname() map[string]int {
	out := make(map[string]int, len(r.order))
	r.ForEach(func(p *Player) {
		out[p.Nickname] = p.Picks
	})
	return out
}
