package plant

import "time"

type Stage string

const (
	StageSeed     Stage = "seed"
	StageSprout   Stage = "sprout"
	StageGrowing  Stage = "growing"
	StageBlooming Stage = "blooming"
)

// FullWater is the level a plant holds right after planting or watering.
const FullWater = 100

type Plant struct {
	ID            uint64    `json:"id"`
	Owner         string    `json:"owner"`
	Stage         Stage     `json:"stage"`
	PlantedAt     time.Time `json:"planted_at"`
	LastWateredAt time.Time `json:"last_watered_at"`
	WaterLevel    int       `json:"water_level"`
	Alive         bool      `json:"alive"`
	Active        bool      `json:"active"`
}

// New returns a freshly planted seed. The id is assigned by the repository.
func New(owner string, now time.Time) Plant {
	return Plant{
		Owner:         owner,
		Stage:         StageSeed,
		PlantedAt:     now,
		LastWateredAt: now,
		WaterLevel:    FullWater,
		Alive:         true,
		Active:        true,
	}
}

// Kill moves the plant into its absorbing dead state. Water stays at zero
// and neither watering nor stage advancement may touch it afterwards.
func (p *Plant) Kill() {
	p.Alive = false
	p.WaterLevel = 0
}

// Terminal reports whether the plant can still change: a harvested or dead
// plant is frozen but remains queryable.
func (p *Plant) Terminal() bool {
	return !p.Alive || !p.Active
}

func stageRank(s Stage) int {
	switch s {
	case StageSprout:
		return 1
	case StageGrowing:
		return 2
	case StageBlooming:
		return 3
	default:
		return 0
	}
}

// Before reports whether s is an earlier growth phase than other.
func (s Stage) Before(other Stage) bool {
	return stageRank(s) < stageRank(other)
}
