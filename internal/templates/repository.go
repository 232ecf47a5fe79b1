// Package templates holds the read-only class/spec/faction archetypes bots
// are rolled from. The repository is built once at process start from the
// static tables in archetypes.go and never mutated, which keeps reads on the
// fabrication hot path lock-free. Changing an archetype means a full-process
// reinitialization.
package templates

import (
	"fmt"
	"sync/atomic"

	"botpool/internal/model"
	"botpool/pkg/constants"
)

type key struct {
	classID uint8
	specID  uint8
	faction constants.Faction
}

// Repository read-only template store
type Repository struct {
	templates map[key]*model.Template

	// byRole round-robin rings per (role, faction) used when the caller does
	// not care which class fills the role. Cursors are atomic because the
	// factory worker rolls seeds off the main loop.
	byRole [constants.NumRoles][constants.NumFactions][]*model.Template
	cursor [constants.NumRoles][constants.NumFactions]atomic.Uint64
}

// NewRepository builds the repository from the static archetype tables
func NewRepository() *Repository {
	r := &Repository{templates: make(map[key]*model.Template)}
	for _, arch := range archetypes {
		for _, faction := range constants.Factions() {
			t := buildTemplate(arch, faction)
			r.templates[key{arch.classID, arch.specID, faction}] = t
			r.byRole[arch.role][faction] = append(r.byRole[arch.role][faction], t)
		}
	}
	return r
}

// Get returns the template for a (class, spec, faction) triple
func (r *Repository) Get(classID, specID uint8, faction constants.Faction) (*model.Template, bool) {
	t, ok := r.templates[key{classID, specID, faction}]
	return t, ok
}

// PickForRole returns the next template filling the role for the faction,
// rotating through the eligible archetypes so pooled rosters stay varied.
func (r *Repository) PickForRole(role constants.Role, faction constants.Faction) *model.Template {
	ring := r.byRole[role][faction]
	if len(ring) == 0 {
		return nil
	}
	n := r.cursor[role][faction].Add(1) - 1
	return ring[n%uint64(len(ring))]
}

// Count number of templates in the repository
func (r *Repository) Count() int {
	return len(r.templates)
}

func buildTemplate(arch archetype, faction constants.Faction) *model.Template {
	races := racesA
	if faction == constants.FactionB {
		races = racesB
	}
	return &model.Template{
		ClassID:            arch.classID,
		SpecID:             arch.specID,
		Faction:            faction,
		Role:               arch.role,
		GearTiers:          arch.gearTiers,
		TalentBuild:        fmt.Sprintf("%s/%d", arch.name, arch.specID),
		ActionBars:         arch.actionBars,
		AllowedRaces:       races,
		BaseHealthPerLevel: arch.healthPerLevel,
		BaseManaPerLevel:   arch.manaPerLevel,
	}
}
