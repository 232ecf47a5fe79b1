package model

import "botpool/pkg/constants"

// Requirement read-only roster composition rule for one piece of content
type Requirement struct {
	Kind      constants.ContentKind `json:"kind"`
	ContentID uint32                `json:"content_id"`
	Name      string                `json:"name"`

	MinSize     int          `json:"min_size"`
	MaxSize     int          `json:"max_size"`
	Composition Composition  `json:"composition"`
	Split       FactionSplit `json:"split"` // Zero for PvE content

	PreferredBrackets []constants.Bracket `json:"preferred_brackets"`
	GearScoreFloor    int                 `json:"gear_score_floor"`
}

// SupportsBracket reports whether the content is tuned for the bracket
func (r *Requirement) SupportsBracket(b constants.Bracket) bool {
	if len(r.PreferredBrackets) == 0 {
		return true
	}
	for _, pb := range r.PreferredBrackets {
		if pb == b {
			return true
		}
	}
	return false
}
