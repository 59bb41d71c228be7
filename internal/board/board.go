// internal/board/board.go
package board

import (
	"errors"
	"math/rand"

	"github.com/brnbmbr/button-game/internal/claimcode"
)

// DefaultSize is the number of buttons on a standard board.
const DefaultSize = 99

// ErrBoardOverflow is returned when a game is configured with more prizes
// than the board has buttons.
var ErrBoardOverflow = errors.New("prize count exceeds board size")

// Tier distinguishes the top prizes from the consolation ("booby") prizes.
type Tier string

const (
	TierGrand       Tier = "grand"
	TierConsolation Tier = "consolation"
)

// Prize describes one prize hidden behind a button. Immutable once allocated.
type Prize struct {
	Tier      Tier   `json:"tier"`
	Label     string `json:"label"`
	ClaimCode string `json:"claimCode"`
}

// Allocate maps each prize label onto a distinct random button in [1, size].
// Grand prizes are placed first, in label order, then consolation prizes.
// Buttons left unmapped are permanent misses.
//
// The placement is pure given rng, which keeps it testable with a seeded
// source. Claim codes are generated here, at allocation time, so a code is
// stable for the lifetime of the prize even if it is only shown once.
func Allocate(size int, grand, consolation []string, rng *rand.Rand) (map[int]Prize, error) {
	total := len(grand) + len(consolation)
	if total > size {
		return nil, ErrBoardOverflow
	}

	perm := rng.Perm(size)
	prizes := make(map[int]Prize, total)
	for i, label := range grand {
		prizes[perm[i]+1] = Prize{Tier: TierGrand, Label: label, ClaimCode: claimcode.New()}
	}
	for i, label := range consolation {
		prizes[perm[len(grand)+i]+1] = Prize{Tier: TierConsolation, Label: label, ClaimCode: claimcode.New()}
	}
	return prizes, nil
}
