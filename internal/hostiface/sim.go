package hostiface

import (
	"fmt"

	"botpool/internal/model"
)

// Sim in-memory fake backend used by tests and the simulation harness.
// Characters become loginnable after a configurable number of polls, which
// models the host's eventually-consistent persistence. Not safe for
// concurrent use; the core only calls it from the main loop.
type Sim struct {
	// PollsUntilLive polls a login must survive before going live (0 = first
	// poll succeeds)
	PollsUntilLive int

	// FailEvery every Nth login attempt fails outright (0 = never fail)
	FailEvery int

	characters map[string]model.BotSeed
	logins     map[string]*simLogin
	attempts   int
}

type simLogin struct {
	polls int
	live  bool
	dead  bool
}

// NewSim creates a fake backend with instant logins
func NewSim() *Sim {
	return &Sim{
		characters: make(map[string]model.BotSeed),
		logins:     make(map[string]*simLogin),
	}
}

func (s *Sim) CreateCharacter(seed model.BotSeed) error {
	if _, exists := s.characters[seed.AccountID]; exists {
		return fmt.Errorf("character for account %s already exists", seed.AccountID)
	}
	s.characters[seed.AccountID] = seed
	return nil
}

func (s *Sim) StartLogin(accountID string) error {
	if _, exists := s.characters[accountID]; !exists {
		return fmt.Errorf("no character for account %s", accountID)
	}
	s.attempts++
	login := &simLogin{}
	if s.FailEvery > 0 && s.attempts%s.FailEvery == 0 {
		login.dead = true
	}
	s.logins[accountID] = login
	return nil
}

func (s *Sim) PollLogin(accountID string) LoginState {
	login, ok := s.logins[accountID]
	if !ok {
		return LoginFailed
	}
	if login.dead {
		return LoginFailed
	}
	if login.live {
		return LoginLive
	}
	login.polls++
	if login.polls > s.PollsUntilLive {
		login.live = true
		return LoginLive
	}
	return LoginPending
}

func (s *Sim) Stats(accountID string) (CharacterStats, bool) {
	login, ok := s.logins[accountID]
	if !ok || !login.live {
		return CharacterStats{}, false
	}
	seed := s.characters[accountID]
	return CharacterStats{
		Level:     seed.Level,
		GearScore: seed.GearScore,
		MaxHealth: seed.MaxHealth,
		MaxMana:   seed.MaxMana,
	}, true
}

func (s *Sim) Logout(accountID string) {
	delete(s.logins, accountID)
}

// LiveSessions number of currently live sessions
func (s *Sim) LiveSessions() int {
	n := 0
	for _, l := range s.logins {
		if l.live {
			n++
		}
	}
	return n
}
