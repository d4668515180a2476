package levels

// MaxLevel is the progression cap. Points keep accumulating past the cap but
// the derived level does not increase further.
const MaxLevel = 10

// avatars maps level to a monkey emoji, clamped to the last entry for levels
// beyond the table.
var avatars = []string{
	"🐒", "🙈", "🙉", "🙊", "🦍", "🦧", "🐵",
}

// titles maps level to its evolution name, one entry per level up to MaxLevel.
var titles = []string{
	"Baby Monkey",
	"Curious Capuchin",
	"Nimble Macaque",
	"Clever Chimp",
	"Wise Baboon",
	"Noble Gibbon",
	"Mighty Mandrill",
	"Jungle Guardian",
	"Silverback",
	"Banana King",
}

// PointsForLevel returns the cumulative points required to be at the given
// level. Level 1 requires 0 points; thereafter the thresholds follow the
// triangular sequence (n-1)*n/2: level 2 -> 1, level 3 -> 3, level 4 -> 6.
func PointsForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return (level - 1) * level / 2
}

// LevelForPoints returns the largest level whose threshold is at or below the
// given points, capped at MaxLevel. Points below zero are treated as zero.
func LevelForPoints(points int) int {
	if points < 0 {
		points = 0
	}
	level := 1
	for level < MaxLevel && PointsForLevel(level+1) <= points {
		level++
	}
	return level
}

// PointsToNextLevel returns how many points are still needed to reach the
// next level, or 0 once the cap is reached.
func PointsToNextLevel(points int) int {
	current := LevelForPoints(points)
	if current >= MaxLevel {
		return 0
	}
	return PointsForLevel(current+1) - points
}

// Change describes a level transition between two balances.
type Change struct {
	OldLevel int
	NewLevel int
}

// LeveledUp reports whether the transition crossed a boundary upward.
func (c Change) LeveledUp() bool { return c.NewLevel > c.OldLevel }

// LeveledDown reports whether the transition crossed a boundary downward.
func (c Change) LeveledDown() bool { return c.NewLevel < c.OldLevel }

// DetectChange derives the levels for the old and new balances. It works the
// same for gains and deductions, so decay crossing a boundary downward is
// reported just like an award crossing one upward.
func DetectChange(oldPoints, newPoints int) Change {
	return Change{
		OldLevel: LevelForPoints(oldPoints),
		NewLevel: LevelForPoints(newPoints),
	}
}

// AvatarForLevel returns the monkey emoji for a level, clamped to the last
// table entry.
func AvatarForLevel(level int) string {
	return clamp(avatars, level)
}

// TitleForLevel returns the evolution name for a level, clamped to the last
// table entry.
func TitleForLevel(level int) string {
	return clamp(titles, level)
}

func clamp(table []string, level int) string {
	idx := level - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(table) {
		idx = len(table) - 1
	}
	return table[idx]
}
