package wallet

import (
	"time"

	"github.com/google/uuid"
)

// Wallet is a registered ledger account. The family seed is stored
// sealed and only decrypted into a live session.
type Wallet struct {
	ID         uuid.UUID `json:"id"`
	Address    string    `json:"address"`
	SealedSeed []byte    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
