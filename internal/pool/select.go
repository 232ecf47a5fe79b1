package pool

import (
	"sort"
	"time"

	"botpool/internal/model"
	"botpool/pkg/constants"
)

// ScoreFunc candidate scoring strategy. The default weights are fixed, but
// balance work can swap the function without touching the index.
type ScoreFunc func(s *model.Slot, targetLevel, minGearScore int, now time.Time) float64

// DefaultScore scores a Ready candidate for selection:
//
//	score = 100
//	      - 2 x |level - target|
//	      + min(20, max(0, gear - floor) / 10)
//	      + recency bonus (+10 if idle > 30m, +5 if > 10m)
//	      + 10 x success rate
func DefaultScore(s *model.Slot, targetLevel, minGearScore int, now time.Time) float64 {
	score := 100.0

	levelDiff := s.Level - targetLevel
	if levelDiff < 0 {
		levelDiff = -levelDiff
	}
	score -= 2 * float64(levelDiff)

	gearExcess := s.GearScore - minGearScore
	if gearExcess < 0 {
		gearExcess = 0
	}
	gearBonus := float64(gearExcess) / 10
	if gearBonus > 20 {
		gearBonus = 20
	}
	score += gearBonus

	idle := s.TimeSinceLastAssignment(now)
	if idle > 30*time.Minute {
		score += 10
	} else if idle > 10*time.Minute {
		score += 5
	}

	score += 10 * s.Stats.SuccessRate()

	return score
}

// Score the active scoring strategy
var Score ScoreFunc = DefaultScore

// SelectBest picks the highest-scoring Ready slot at the coordinate, or
// ok=false when none qualifies. Candidates below the gear-score floor are
// excluded. Ties go to the slot with the oldest last assignment end, which
// spreads usage across the slice.
func (p *Pool) SelectBest(role constants.Role, faction constants.Faction, bracket constants.Bracket, targetLevel, minGearScore int) (model.SlotID, bool) {
	ids := p.SelectMany(role, faction, bracket, targetLevel, 1, minGearScore)
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}

// SelectMany picks up to count distinct Ready slots at the coordinate,
// best-scored first. Returns fewer when the slice cannot cover the request.
func (p *Pool) SelectMany(role constants.Role, faction constants.Faction, bracket constants.Bracket, targetLevel, count, minGearScore int) []model.SlotID {
	if count <= 0 {
		return nil
	}
	now := p.clock.Now()

	type candidate struct {
		id      model.SlotID
		score   float64
		lastEnd time.Time
	}

	slice := p.index.slice(role, faction, bracket)
	candidates := make([]candidate, 0, len(slice))
	for _, id := range slice {
		s, ok := p.slots[id]
		if !ok {
			continue
		}
		if minGearScore > 0 && s.GearScore < minGearScore {
			continue
		}
		candidates = append(candidates, candidate{
			id:      id,
			score:   Score(s, targetLevel, minGearScore, now),
			lastEnd: s.LastAssignmentEnd,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].lastEnd.Before(candidates[j].lastEnd)
	})

	if count > len(candidates) {
		count = len(candidates)
	}
	out := make([]model.SlotID, 0, count)
	for _, c := range candidates[:count] {
		out = append(out, c.id)
	}
	return out
}
