// internal/lobby/store.go
package lobby

import (
	"math/rand"
	"sync"
	"time"

	"github.com/brnbmbr/button-game/internal/board"
)

// Store is the process-wide directory of live lobbies, keyed by keyphrase.
// It owns every Lobby instance. byConn is a back-reference from connection
// id to keyphrase, used only for lookup on disconnect: a connection belongs
// to at most one lobby at a time.
type Store struct {
	mu        sync.Mutex
	lobbies   map[string]*Lobby
	byConn    map[string]string
	boardSize int
}

// Summary is the wire shape of one lobby in the debug listing.
type Summary struct {
	Keyphrase string `json:"keyphrase"`
	Players   int    `json:"players"`
	Phase     string `json:"phase"`
}

func NewStore() *Store {
	return &Store{
		lobbies:   make(map[string]*Lobby),
		byConn:    make(map[string]string),
		boardSize: board.DefaultSize,
	}
}

// Create builds a new lobby under keyphrase and seats the creating
// connection as host.
func (s *Store) Create(keyphrase, nickname string, conn *Conn) (*Lobby, []PlayerSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.lobbies[keyphrase]; exists {
		return nil, nil, ErrKeyphraseInUse
	}
	if _, seated := s.byConn[conn.ID]; seated {
		return nil, nil, ErrAlreadyJoined
	}

	l := newLobby(keyphrase, s.boardSize, rand.New(rand.NewSource(time.Now().UnixNano())))
	players := l.seatHost(conn, nickname)
	s.lobbies[keyphrase] = l
	s.byConn[conn.ID] = keyphrase
	return l, players, nil
}

// Join seats conn in the lobby under keyphrase. The membership mutation
// itself runs under the lobby's own lock; the store only resolves the
// keyphrase and maintains the disconnect back-reference.
func (s *Store) Join(keyphrase, nickname string, conn *Conn) (*Lobby, []PlayerSummary, error) {
	s.mu.Lock()
	if _, seated := s.byConn[conn.ID]; seated {
		s.mu.Unlock()
		return nil, nil, ErrAlreadyJoined
	}
	l, ok := s.lobbies[keyphrase]
	s.mu.Unlock()
	if !ok {
		return nil, nil, ErrLobbyNotFound
	}

	players, err := l.Join(conn, nickname)
	if err != nil {
		return nil, nil, err
	}
	if err := s.commitSeat(l, keyphrase, conn); err != nil {
		return nil, nil, err
	}
	return l, players, nil
}

// commitSeat records the disconnect back-reference for a freshly seated
// connection. The lobby may have closed and been evicted between the seat
// being taken and this commit (the host can disconnect at any point), in
// which case the seat is rolled back so the connection is not stranded in a
// dead lobby.
func (s *Store) commitSeat(l *Lobby, keyphrase string, conn *Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lobbies[keyphrase] != l {
		l.Leave(conn.ID)
		return ErrLobbyNotFound
	}
	s.byConn[conn.ID] = keyphrase
	return nil
}

// Get resolves a keyphrase to its live lobby.
func (s *Store) Get(keyphrase string) (*Lobby, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lobbies[keyphrase]
	return l, ok
}

// RemoveConnection applies the leave triggered by a closed connection. If
// the leave closed the lobby (host left, or last seat emptied) the lobby is
// evicted from the directory and all further operations on its keyphrase
// act as not-found.
func (s *Store) RemoveConnection(connID string) (*Lobby, LeaveResult, bool) {
	s.mu.Lock()
	keyphrase, seated := s.byConn[connID]
	delete(s.byConn, connID)
	l, alive := s.lobbies[keyphrase]
	s.mu.Unlock()
	if !seated || !alive {
		return nil, LeaveResult{}, false
	}

	res, ok := l.Leave(connID)
	if !ok {
		return nil, LeaveResult{}, false
	}
	if res.Closed {
		s.mu.Lock()
		delete(s.lobbies, keyphrase)
		for _, orphan := range res.Orphans {
			delete(s.byConn, orphan)
		}
		s.mu.Unlock()
	}
	return l, res, true
}

// Summaries lists the live lobbies for the debug endpoint.
func (s *Store) Summaries() []Summary {
	s.mu.Lock()
	lobbies := make([]*Lobby, 0, len(s.lobbies))
	for _, l := range s.lobbies {
		lobbies = append(lobbies, l)
	}
	s.mu.Unlock()

	out := make([]Summary, 0, len(lobbies))
	for _, l := range lobbies {
		out = append(out, Summary{
			Keyphrase: l.Keyphrase,
			Players:   l.PlayerCount(),
			Phase:     l.Phase().String(),
		})
	}
	return out
}
