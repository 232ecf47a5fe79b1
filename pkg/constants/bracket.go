package constants

import "fmt"

// Bracket level range used as a matchmaking shard key.
// The set is closed: eight brackets covering levels 10 through the cap.
type Bracket uint8

const (
	Bracket10 Bracket = iota // 10-19
	Bracket20                // 20-29
	Bracket30                // 30-39
	Bracket40                // 40-49
	Bracket50                // 50-59
	Bracket60                // 60-69
	Bracket70                // 70-79
	Bracket80                // 80+

	// NumBrackets number of level brackets, used to size index arrays
	NumBrackets = 8
)

// minBracketLevel lowest level the pool manages
const minBracketLevel = 10

func (b Bracket) String() string {
	if b == Bracket80 {
		return "80+"
	}
	lo := minBracketLevel + int(b)*10
	return fmt.Sprintf("%d-%d", lo, lo+9)
}

// Valid reports whether b is one of the eight known brackets
func (b Bracket) Valid() bool {
	return b < NumBrackets
}

// MinLevel lowest level belonging to the bracket
func (b Bracket) MinLevel() int {
	return minBracketLevel + int(b)*10
}

// MaxLevel highest level belonging to the bracket (cap bracket is open-ended
// upward, but bots are rolled at the cap)
func (b Bracket) MaxLevel() int {
	return b.MinLevel() + 9
}

// Contains reports whether level falls inside the bracket
func (b Bracket) Contains(level int) bool {
	if b == Bracket80 {
		return level >= b.MinLevel()
	}
	return level >= b.MinLevel() && level <= b.MaxLevel()
}

// BracketForLevel maps a character level to its bracket.
// Levels below 10 are not pooled and report ok=false.
func BracketForLevel(level int) (Bracket, bool) {
	if level < minBracketLevel {
		return 0, false
	}
	b := Bracket((level - minBracketLevel) / 10)
	if b >= NumBrackets {
		b = Bracket80
	}
	return b, true
}

// Brackets all brackets in index order
func Brackets() [NumBrackets]Bracket {
	return [NumBrackets]Bracket{
		Bracket10, Bracket20, Bracket30, Bracket40,
		Bracket50, Bracket60, Bracket70, Bracket80,
	}
}
