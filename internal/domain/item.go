package domain

import "time"

// ItemStatus tracks where a custodial item lives. Transitions are
// one-directional: held -> withdrawn and held -> burned; both are terminal.
type ItemStatus string

const (
	ItemHeld      ItemStatus = "held"
	ItemWithdrawn ItemStatus = "withdrawn"
	ItemBurned    ItemStatus = "burned"
)

// Slot bounds for equippable items. A slot is optional; when present it is
// unique per player.
const (
	ItemSlotMin = 1
	ItemSlotMax = 5
)

// CustodialItem is a non-fungible collectible held in the shared
// operator-controlled wallet until withdrawn to a player destination.
type CustodialItem struct {
	ID          string     `json:"item_id" db:"item_id"`
	PlayerID    string     `json:"player_id" db:"player_id"`
	Collection  string     `json:"collection" db:"collection"`
	MetadataURI string     `json:"metadata_uri" db:"metadata_uri"`
	Status      ItemStatus `json:"status" db:"status"`
	Slot        *int       `json:"slot,omitempty" db:"slot"`
	WithdrawnTo string     `json:"withdrawn_to,omitempty" db:"withdrawn_to"`
	WithdrawnAt *time.Time `json:"withdrawn_at,omitempty" db:"withdrawn_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// CanWithdraw reports whether the item is still in custody.
func (i *CustodialItem) CanWithdraw() bool {
	return i.Status == ItemHeld
}
