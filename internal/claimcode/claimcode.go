// internal/claimcode/claimcode.go
package claimcode

import "github.com/google/uuid"

// New returns a fresh claim code. Codes are UUIDv4 strings drawn from
// crypto/rand, so a winner's code cannot be guessed by another player.
// The general-purpose math/rand source used for board shuffling must
// never be used here.
func New() string {
	return uuid.NewString()
}
