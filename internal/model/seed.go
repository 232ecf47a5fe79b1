package model

import "botpool/pkg/constants"

// BotSeed plain-data record produced off-loop by the factory worker. It
// carries everything needed to create a slot, but is not itself a slot: the
// main loop turns seeds into Creating slots when it drains the inbox, so all
// pool mutation stays on the owner thread.
type BotSeed struct {
	AccountID string
	Name      string

	Role    constants.Role
	Faction constants.Faction
	ClassID uint8
	SpecID  uint8
	Bracket constants.Bracket
	Level   int

	GearScore int
	MaxHealth int
	MaxMana   int
}
