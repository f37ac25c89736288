package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"verdant/internal/ledger"
)

// Balance holds the economy's deploy-time constants.
type Balance struct {
	PlantPriceMicro    int64 `yaml:"plant_price_micro" json:"plant_price_micro"`
	HarvestRewardMicro int64 `yaml:"harvest_reward_micro" json:"harvest_reward_micro"`

	StageDurationSeconds int `yaml:"stage_duration_seconds" json:"stage_duration_seconds"`
	WaterIntervalSeconds int `yaml:"water_interval_seconds" json:"water_interval_seconds"`
	WaterRatePct         int `yaml:"water_rate_pct" json:"water_rate_pct"`
}

// Default mirrors the deployed constants: 0.001 unit to plant, 0.003 unit
// per harvest, 60s stages, 2% water lost per 30s interval.
func Default() Balance {
	return Balance{
		PlantPriceMicro:      1000,
		HarvestRewardMicro:   3000,
		StageDurationSeconds: 60,
		WaterIntervalSeconds: 30,
		WaterRatePct:         2,
	}
}

// Load reads a Balance from a YAML file. A missing file falls back to the
// defaults; a malformed or nonsensical one is an error.
func Load(path string) (Balance, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Balance{}, err
	}

	b := Default()
	if err := yaml.Unmarshal(data, &b); err != nil {
		return Balance{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := b.Validate(); err != nil {
		return Balance{}, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

func (b Balance) Validate() error {
	if b.PlantPriceMicro <= 0 {
		return errors.New("plant_price_micro must be positive")
	}
	if b.HarvestRewardMicro <= 0 {
		return errors.New("harvest_reward_micro must be positive")
	}
	if b.StageDurationSeconds <= 0 {
		return errors.New("stage_duration_seconds must be positive")
	}
	if b.WaterIntervalSeconds <= 0 {
		return errors.New("water_interval_seconds must be positive")
	}
	if b.WaterRatePct <= 0 || b.WaterRatePct > 100 {
		return errors.New("water_rate_pct must be in (0,100]")
	}
	return nil
}

func (b Balance) PlantPrice() ledger.Funds    { return ledger.Funds(b.PlantPriceMicro) }
func (b Balance) HarvestReward() ledger.Funds { return ledger.Funds(b.HarvestRewardMicro) }

func (b Balance) StageDuration() time.Duration {
	return time.Duration(b.StageDurationSeconds) * time.Second
}

func (b Balance) WaterInterval() time.Duration {
	return time.Duration(b.WaterIntervalSeconds) * time.Second
}
