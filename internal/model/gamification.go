package model

// XPPerLevel is the experience cost of each level.
const XPPerLevel = 1000

// GamificationStats tracks progression state for a user.
// Invariant maintained by the store: Level == XP/XPPerLevel + 1 and
// XPToNextLevel == Level*XPPerLevel - XP after every XP-affecting action.
type GamificationStats struct {
	Level         int      `json:"level"`
	XP            int      `json:"xp"`
	XPToNextLevel int      `json:"xpToNextLevel"`
	MindGems      int      `json:"mindGems"`
	StreakFreezes int      `json:"streakFreezes"`
	WeeklyXP      int      `json:"weeklyXP"`
	League        string   `json:"league,omitempty"`
	Achievements  []string `json:"achievements,omitempty"`
}

// HasAchievement reports whether the achievement id is already unlocked.
func (g *GamificationStats) HasAchievement(id string) bool {
	for _, a := range g.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the stats.
func (g GamificationStats) Clone() GamificationStats {
	c := g
	if g.Achievements != nil {
		c.Achievements = make([]string, len(g.Achievements))
		copy(c.Achievements, g.Achievements)
	}
	return c
}
