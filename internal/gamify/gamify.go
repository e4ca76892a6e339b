// Package gamify holds the pure progression math: level thresholds, title
// tiers, and progress display values. No I/O, no state.
package gamify

import (
	"github.com/dori/mindlist/internal/model"
)

// LevelForXP maps cumulative XP to a level. Level 1 starts at 0 XP and each
// level costs model.XPPerLevel.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/model.XPPerLevel + 1
}

// XPToNextLevel returns the XP still needed to reach the next level.
func XPToNextLevel(xp int) int {
	return LevelForXP(xp)*model.XPPerLevel - xp
}

// TitleForLevel returns the display tier name for a level.
func TitleForLevel(level int) string {
	switch {
	case level < 5:
		return "Novice"
	case level < 15:
		return "Apprentice"
	case level < 30:
		return "Adept"
	case level < 50:
		return "Expert"
	case level < 75:
		return "Master"
	default:
		return "Mythic"
	}
}

// ProgressPercent returns how far through the current level the user is,
// as a percentage clamped to [0, 100].
func ProgressPercent(xp int) float64 {
	if xp < 0 {
		xp = 0
	}
	into := xp % model.XPPerLevel
	pct := float64(into) / float64(model.XPPerLevel) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Recompute returns stats with Level and XPToNextLevel rederived from XP,
// restoring the store invariant after any XP change.
func Recompute(g model.GamificationStats) model.GamificationStats {
	g.Level = LevelForXP(g.XP)
	g.XPToNextLevel = XPToNextLevel(g.XP)
	return g
}
