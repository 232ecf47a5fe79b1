// Package hostiface is the seam between the lifecycle core and the host
// game-server process. The core never touches game-world objects; everything
// it needs from the host goes through Backend.
package hostiface

import "botpool/internal/model"

// LoginState host-side session progress for a bot account
type LoginState int

const (
	// LoginPending session not yet live; the character row may still be
	// settling (host persistence is eventually consistent)
	LoginPending LoginState = iota
	// LoginLive session logged in, stats readable
	LoginLive
	// LoginFailed this attempt failed; the caller may retry
	LoginFailed
)

// CharacterStats stats the host reports once a session is live
type CharacterStats struct {
	Level     int
	GearScore int
	MaxHealth int
	MaxMana   int
}

// Backend host-process operations the core depends on. All calls are made
// from the main loop and must not block; login progress is polled.
type Backend interface {
	// CreateCharacter persists a character row for the seed. The row may not
	// be immediately loginnable.
	CreateCharacter(seed model.BotSeed) error

	// StartLogin initiates an asynchronous session login for the account
	StartLogin(accountID string) error

	// PollLogin reports login progress for the account
	PollLogin(accountID string) LoginState

	// Stats reads the live session's stats; valid only after LoginLive
	Stats(accountID string) (CharacterStats, bool)

	// Logout tears the session down; used on retirement
	Logout(accountID string)
}
