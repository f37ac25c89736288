package garden

import (
	"context"
	"time"

	"verdant/internal/config"
	"verdant/internal/ledger"
	"verdant/internal/plant"
	"verdant/internal/telemetry"
)

// Engine is the plant lifecycle manager. All mutating operations read the
// clock once, recompute water/death before applying their own transition,
// and leave every store untouched when they fail.
type Engine struct {
	Plants  plant.Repository
	Ledger  *ledger.Memory
	Events  telemetry.Repository
	Notify  telemetry.Notifier
	Clock   Clock
	Balance config.Balance

	// AdminAccount is the wallet the escrow sweep pays into. Empty means
	// the administrative surface is disabled.
	AdminAccount string
}

func (e Engine) now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock.Now()
}

func (e Engine) emit(t telemetry.EventType, at time.Time, md telemetry.EventMetadata) {
	if e.Events == nil {
		return
	}
	ev, err := e.Events.RecordEvent(t, at, md)
	if err != nil {
		return
	}
	if e.Notify != nil {
		e.Notify.Publish(ev)
	}
}

// currentWater recomputes the plant's water from its watering baseline.
// The cached WaterLevel is presentation only; decay always derives from
// lastWateredAt so repeated recomputations never compound.
func (e Engine) currentWater(p plant.Plant, now time.Time) int {
	if !p.Alive {
		return 0
	}
	return plant.CalculateWater(p.LastWateredAt, now, plant.FullWater,
		e.Balance.WaterInterval(), e.Balance.WaterRatePct)
}

// refresh applies decay to p in place and reports whether it just died.
func (e Engine) refresh(p *plant.Plant, now time.Time) (died bool) {
	if !p.Alive {
		p.WaterLevel = 0
		return false
	}
	level := e.currentWater(*p, now)
	if level == 0 {
		p.Kill()
		return true
	}
	p.WaterLevel = level
	return false
}

// Create plants a new seed for owner. The fee must cover the plant price;
// any overpayment is kept by the escrow, price is a floor not an exact
// amount. The whole fee moves from the owner's wallet into escrow.
func (e Engine) Create(ctx context.Context, owner string, fee ledger.Funds) (plant.Plant, error) {
	now := e.now()

	if fee < e.Balance.PlantPrice() {
		return plant.Plant{}, ErrInsufficientPayment
	}
	if err := e.Ledger.ChargeToEscrow(owner, fee); err != nil {
		return plant.Plant{}, err
	}

	p, err := e.Plants.Create(ctx, owner, now)
	if err != nil {
		// Undo the charge so a storage fault doesn't strand the fee.
		_ = e.Ledger.PayoutFromEscrow(owner, fee)
		return plant.Plant{}, err
	}

	e.emit(telemetry.EventSeeded, now, telemetry.EventMetadata{
		"plant_id": p.ID,
		"owner":    p.Owner,
	})

	return p, nil
}

type WaterResult struct {
	Plant plant.Plant `json:"plant"`
	// Died is set when the decay recompute found the plant already drained:
	// the watering came too late and only the death is recorded.
	Died         bool `json:"died"`
	StageChanged bool `json:"stage_changed"`
}

// Water resets the decay clock on a living, unharvested plant the caller
// owns, then runs stage advancement as part of the same operation.
func (e Engine) Water(ctx context.Context, caller string, id uint64) (WaterResult, error) {
	now := e.now()

	p, ok, err := e.Plants.Get(ctx, id)
	if err != nil {
		return WaterResult{}, err
	}
	if !ok {
		return WaterResult{}, ErrUnknownPlant
	}
	if p.Owner != caller {
		return WaterResult{}, ErrNotOwner
	}
	if !p.Alive {
		return WaterResult{}, ErrAlreadyDead
	}
	if !p.Active {
		return WaterResult{}, ErrNotActive
	}

	if e.refresh(&p, now) {
		p, err = e.Plants.Update(ctx, p)
		if err != nil {
			return WaterResult{}, err
		}
		e.emit(telemetry.EventDied, now, telemetry.EventMetadata{"plant_id": p.ID})
		return WaterResult{Plant: p, Died: true}, nil
	}

	p.WaterLevel = plant.FullWater
	p.LastWateredAt = now

	stageChanged := e.advance(&p, now)

	p, err = e.Plants.Update(ctx, p)
	if err != nil {
		return WaterResult{}, err
	}

	e.emit(telemetry.EventWatered, now, telemetry.EventMetadata{
		"plant_id":    p.ID,
		"water_level": plant.FullWater,
	})
	if stageChanged {
		e.emit(telemetry.EventStageAdvanced, now, telemetry.EventMetadata{
			"plant_id": p.ID,
			"stage":    p.Stage,
		})
	}

	return WaterResult{Plant: p, StageChanged: stageChanged}, nil
}

// advance recomputes the stage from the plant's age. Assignment is
// absolute, so calling it again with the same now is a no-op.
func (e Engine) advance(p *plant.Plant, now time.Time) (changed bool) {
	stage := plant.StageFor(p.PlantedAt, now, e.Balance.StageDuration())
	if stage == p.Stage {
		return false
	}
	p.Stage = stage
	return true
}

type AdvanceResult struct {
	Plant        plant.Plant `json:"plant"`
	Died         bool        `json:"died"`
	StageChanged bool        `json:"stage_changed"`
}

// AdvanceStage recomputes water and stage for any active plant. Callable
// by anyone; repeated calls with no elapsed time change nothing and emit
// nothing.
func (e Engine) AdvanceStage(ctx context.Context, id uint64) (AdvanceResult, error) {
	now := e.now()

	p, ok, err := e.Plants.Get(ctx, id)
	if err != nil {
		return AdvanceResult{}, err
	}
	if !ok {
		return AdvanceResult{}, ErrUnknownPlant
	}
	if !p.Active {
		return AdvanceResult{}, ErrNotActive
	}
	if !p.Alive {
		// Death is absorbing; the record stays queryable but frozen.
		return AdvanceResult{Plant: p}, nil
	}

	if e.refresh(&p, now) {
		p, err = e.Plants.Update(ctx, p)
		if err != nil {
			return AdvanceResult{}, err
		}
		e.emit(telemetry.EventDied, now, telemetry.EventMetadata{"plant_id": p.ID})
		return AdvanceResult{Plant: p, Died: true}, nil
	}

	stageChanged := e.advance(&p, now)

	p, err = e.Plants.Update(ctx, p)
	if err != nil {
		return AdvanceResult{}, err
	}

	if stageChanged {
		e.emit(telemetry.EventStageAdvanced, now, telemetry.EventMetadata{
			"plant_id": p.ID,
			"stage":    p.Stage,
		})
	}

	return AdvanceResult{Plant: p, StageChanged: stageChanged}, nil
}

type HarvestResult struct {
	Plant  plant.Plant  `json:"plant"`
	Reward ledger.Funds `json:"reward"`
}

// Harvest pays the fixed reward for a blooming plant and retires it. The
// payout runs before the plant is marked harvested: if the transfer fails
// the plant stays active and no funds leave escrow.
func (e Engine) Harvest(ctx context.Context, caller string, id uint64) (HarvestResult, error) {
	now := e.now()

	p, ok, err := e.Plants.Get(ctx, id)
	if err != nil {
		return HarvestResult{}, err
	}
	if !ok {
		return HarvestResult{}, ErrUnknownPlant
	}
	if p.Owner != caller {
		return HarvestResult{}, ErrNotOwner
	}
	if !p.Alive {
		return HarvestResult{}, ErrAlreadyDead
	}
	if !p.Active {
		return HarvestResult{}, ErrNotActive
	}

	if e.refresh(&p, now) {
		if _, err := e.Plants.Update(ctx, p); err != nil {
			return HarvestResult{}, err
		}
		e.emit(telemetry.EventDied, now, telemetry.EventMetadata{"plant_id": p.ID})
		return HarvestResult{}, ErrAlreadyDead
	}

	// The stage recompute is part of harvest and commits even when the
	// harvest itself is rejected below.
	if e.advance(&p, now) {
		e.emit(telemetry.EventStageAdvanced, now, telemetry.EventMetadata{
			"plant_id": p.ID,
			"stage":    p.Stage,
		})
	}
	if p, err = e.Plants.Update(ctx, p); err != nil {
		return HarvestResult{}, err
	}

	if p.Stage != plant.StageBlooming {
		return HarvestResult{}, ErrNotReady
	}

	reward := e.Balance.HarvestReward()
	if err := e.Ledger.PayoutFromEscrow(p.Owner, reward); err != nil {
		return HarvestResult{}, err
	}

	p.Active = false
	if p, err = e.Plants.Update(ctx, p); err != nil {
		return HarvestResult{}, err
	}

	e.emit(telemetry.EventHarvested, now, telemetry.EventMetadata{
		"plant_id": p.ID,
		"owner":    p.Owner,
		"reward":   int64(reward),
	})

	return HarvestResult{Plant: p, Reward: reward}, nil
}

type Snapshot struct {
	Plant  plant.Plant `json:"plant"`
	Exists bool        `json:"exists"`
}

// GetPlant returns a snapshot with the water level recomputed live, so a
// reader never sees the stale cache. An unknown id yields a zero record
// marked exists=false rather than an error, which lets callers tell
// "never created" apart from "created and dead".
func (e Engine) GetPlant(ctx context.Context, id uint64) (Snapshot, error) {
	now := e.now()

	p, ok, err := e.Plants.Get(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	if !ok {
		return Snapshot{}, nil
	}

	p.WaterLevel = e.currentWater(p, now)
	return Snapshot{Plant: p, Exists: true}, nil
}

// OwnerPlants returns the append-order id history for an owner, dead and
// harvested plants included.
func (e Engine) OwnerPlants(ctx context.Context, owner string) ([]uint64, error) {
	return e.Plants.OwnerPlantIDs(ctx, owner)
}

// ListPlants returns live snapshots of every plant, for the admin views.
func (e Engine) ListPlants(ctx context.Context) ([]plant.Plant, error) {
	now := e.now()

	out, err := e.Plants.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].WaterLevel = e.currentWater(out[i], now)
	}
	return out, nil
}

// Withdraw sweeps the whole escrow into the administrator's wallet.
func (e Engine) Withdraw(ctx context.Context, caller string) (ledger.Funds, error) {
	_ = ctx

	if e.AdminAccount == "" || caller != e.AdminAccount {
		return 0, ErrNotAdministrator
	}
	return e.Ledger.SweepEscrow(e.AdminAccount)
}
