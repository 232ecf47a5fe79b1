package orchestrator

import (
	"botpool/internal/model"
	"botpool/pkg/constants"
)

// Roster what a resolved request delivers
type Roster struct {
	ReservationID model.ReservationID
	InstanceID    model.InstanceID
	Kind          constants.ContentKind
	ContentID     uint32

	// ByFaction slot ids per side; single-faction content fills one side
	ByFaction [constants.NumFactions][]model.SlotID
}

// All every slot id in the roster, faction A first
func (r Roster) All() []model.SlotID {
	out := make([]model.SlotID, 0, len(r.ByFaction[0])+len(r.ByFaction[1]))
	out = append(out, r.ByFaction[constants.FactionA]...)
	out = append(out, r.ByFaction[constants.FactionB]...)
	return out
}

// Pending deferred request result. A request is either satisfied in-tick
// (pool hit) or resolved by a later tick; callers must treat every return as
// potentially deferred. Resolution always happens on the main loop, so no
// synchronization is needed to observe it from host code.
type Pending struct {
	resID    model.ReservationID
	resolved bool
	roster   Roster
	err      error
	waiters  []func(Roster, error)
}

// ReservationID the reservation backing this request; zero when the request
// failed before a reservation was created.
func (p *Pending) ReservationID() model.ReservationID {
	return p.resID
}

// Done reports whether the request has resolved
func (p *Pending) Done() bool {
	return p.resolved
}

// Result the roster or failure; valid only once Done
func (p *Pending) Result() (Roster, error) {
	return p.roster, p.err
}

// Then registers a resolution callback. Fires immediately when already
// resolved; otherwise fires on the resolving tick.
func (p *Pending) Then(fn func(Roster, error)) *Pending {
	if p.resolved {
		fn(p.roster, p.err)
		return p
	}
	p.waiters = append(p.waiters, fn)
	return p
}

func (p *Pending) resolve(roster Roster, err error) {
	if p.resolved {
		return
	}
	p.resolved = true
	p.roster = roster
	p.err = err
	for _, fn := range p.waiters {
		fn(roster, err)
	}
	p.waiters = nil
}

func failed(err error) *Pending {
	return &Pending{resolved: true, err: err}
}
