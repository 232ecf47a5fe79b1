package pool

import (
	"botpool/internal/model"
	"botpool/pkg/constants"
)

// indexCoord (role, faction, bracket) coordinate in the ready index
type indexCoord struct {
	Role    constants.Role
	Faction constants.Faction
	Bracket constants.Bracket
}

// readyIndex denormalized projection of the pool store: a dense slice of
// Ready slot ids per (role, faction, bracket), plus a reverse position map
// for O(1) removal. Holds slot ids only, never slot pointers.
type readyIndex struct {
	slices [constants.NumRoles][constants.NumFactions][constants.NumBrackets][]model.SlotID
	pos    map[model.SlotID]indexPos
}

type indexPos struct {
	coord indexCoord
	idx   int
}

func newReadyIndex() *readyIndex {
	return &readyIndex{pos: make(map[model.SlotID]indexPos)}
}

// add inserts the slot id at its coordinate; duplicate adds are no-ops
func (ri *readyIndex) add(id model.SlotID, coord indexCoord) {
	if _, exists := ri.pos[id]; exists {
		return
	}
	slice := ri.slices[coord.Role][coord.Faction][coord.Bracket]
	ri.pos[id] = indexPos{coord: coord, idx: len(slice)}
	ri.slices[coord.Role][coord.Faction][coord.Bracket] = append(slice, id)
}

// remove deletes the slot id via swap-remove, fixing up the moved element's
// position. Reports whether the id was present.
func (ri *readyIndex) remove(id model.SlotID) bool {
	p, exists := ri.pos[id]
	if !exists {
		return false
	}
	slice := ri.slices[p.coord.Role][p.coord.Faction][p.coord.Bracket]
	last := len(slice) - 1
	if p.idx != last {
		moved := slice[last]
		slice[p.idx] = moved
		ri.pos[moved] = indexPos{coord: p.coord, idx: p.idx}
	}
	ri.slices[p.coord.Role][p.coord.Faction][p.coord.Bracket] = slice[:last]
	delete(ri.pos, id)
	return true
}

// slice returns the live id slice for a coordinate; callers must not mutate
func (ri *readyIndex) slice(role constants.Role, faction constants.Faction, bracket constants.Bracket) []model.SlotID {
	return ri.slices[role][faction][bracket]
}

// contains reports whether the id is indexed, and where
func (ri *readyIndex) contains(id model.SlotID) (indexCoord, bool) {
	p, exists := ri.pos[id]
	return p.coord, exists
}

// size total number of indexed ids
func (ri *readyIndex) size() int {
	return len(ri.pos)
}

// clear drops every entry
func (ri *readyIndex) clear() {
	for r := range ri.slices {
		for f := range ri.slices[r] {
			for b := range ri.slices[r][f] {
				ri.slices[r][f][b] = nil
			}
		}
	}
	ri.pos = make(map[model.SlotID]indexPos)
}
