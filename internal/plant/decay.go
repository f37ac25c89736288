package plant

import "time"

// CalculateWater returns the water level implied by the time elapsed since
// the last watering. stored is the level that was cached at lastWateredAt;
// interval and ratePct describe how fast water drains (ratePct points per
// full interval). The function is pure: it never mutates the plant, so it
// is safe to call any number of times with the same inputs.
func CalculateWater(lastWateredAt, now time.Time, stored int, interval time.Duration, ratePct int) int {
	if stored <= 0 {
		return 0
	}
	elapsed := now.Sub(lastWateredAt)
	if elapsed < 0 {
		elapsed = 0
	}
	if interval <= 0 {
		return stored
	}
	intervals := int(elapsed / interval)
	lost := intervals * ratePct
	if lost >= stored {
		return 0
	}
	return stored - lost
}

// StageFor computes the growth stage implied by the plant's age. The
// assignment is absolute, never incremental, so repeated calls with the
// same now are idempotent and a long gap never skips a stage silently.
func StageFor(plantedAt, now time.Time, stageDuration time.Duration) Stage {
	if stageDuration <= 0 {
		return StageSeed
	}
	age := now.Sub(plantedAt)
	switch {
	case age >= 3*stageDuration:
		return StageBlooming
	case age >= 2*stageDuration:
		return StageGrowing
	case age >= stageDuration:
		return StageSprout
	default:
		return StageSeed
	}
}
