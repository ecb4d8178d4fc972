// Package progress implements the gamification state transition applied on
// every card review: point accrual, level-up detection, streak tracking and
// badge awards. It performs no I/O; callers persist the returned state.
package progress

import "strconv"

// Points awarded per correct review, and points needed per level.
const (
	PointsPerReview = 10
	PointsPerLevel  = 100
)

// Streak badges are awarded when the streak lands exactly on a threshold.
const (
	BadgeWeekWarrior = "Week Warrior"
	BadgeMonthMaster = "Month Master"

	weekStreak  = 7
	monthStreak = 30
)

// State is a user's gamification state. Points and Level never decrease;
// an incorrect review only resets Streak.
type State struct {
	Points int
	Level  int
	Streak int
	Badges []string
}

// LevelForPoints returns the level implied by a point total.
func LevelForPoints(points int) int {
	return points/PointsPerLevel + 1
}

// LevelBadge returns the badge name awarded on reaching the given level.
func LevelBadge(level int) string {
	return "Level " + strconv.Itoa(level)
}

// Apply computes the state following a single review outcome. It does not
// mutate its input; the badge slice of the returned state is a copy.
func Apply(s State, correct bool) State {
	next := State{
		Points: s.Points,
		Level:  s.Level,
		Streak: s.Streak,
		Badges: append([]string(nil), s.Badges...),
	}

	if !correct {
		next.Streak = 0
		return next
	}

	next.Points += PointsPerReview
	next.Streak++

	if lvl := LevelForPoints(next.Points); lvl > next.Level {
		next.Level = lvl
		next.Badges = addBadge(next.Badges, LevelBadge(lvl))
	}

	// Exact-equality checks: streaks grow by one per review, so a
	// threshold is crossed at most once, and never both in one call.
	if next.Streak == weekStreak {
		next.Badges = addBadge(next.Badges, BadgeWeekWarrior)
	} else if next.Streak == monthStreak {
		next.Badges = addBadge(next.Badges, BadgeMonthMaster)
	}

	return next
}

func addBadge(badges []string, badge string) []string {
	for _, b := range badges {
		if b == badge {
			return badges
		}
	}
	return append(badges, badge)
}
