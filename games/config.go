// Package games implements the catalog of game families the simulation
// engine ships with: congestion/routing networks, minority and bar-attendance
// games, two-player matrix games, and population/public-goods games. Every
// game is a pluggable core.Game; the driver never depends on a specific
// family.
package games

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/zeu5/game-dynamics/core"
)

// RouteConfig parameterizes the routing family: the number of traveling
// agents and the fixed edge-cost constant used by the family's variable
// links.
type RouteConfig struct {
	Agents int     `json:"agents"`
	Cost   float64 `json:"cost"`
}

func (c *RouteConfig) Validate() error {
	if c.Agents <= 0 {
		return fmt.Errorf("%w: routing game needs agents > 0, got %d", core.ErrConfigMismatch, c.Agents)
	}
	return nil
}

// MinorityConfig parameterizes minority and El Farol games: the number of
// agents and the crowding threshold as a fraction of the population.
type MinorityConfig struct {
	Agents    int     `json:"agents"`
	Threshold float64 `json:"threshold"`
}

func (c *MinorityConfig) Validate() error {
	if c.Agents <= 0 {
		return fmt.Errorf("%w: minority game needs agents > 0, got %d", core.ErrConfigMismatch, c.Agents)
	}
	if c.Threshold <= 0 || c.Threshold >= 1 {
		return fmt.Errorf("%w: threshold %v not in (0,1)", core.ErrConfigMismatch, c.Threshold)
	}
	return nil
}

// DuopolyConfig parameterizes the two-firm pricing game: the number of
// discrete price levels and the price bounds they span.
type DuopolyConfig struct {
	Levels   int     `json:"levels"`
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
}

func (c *DuopolyConfig) Validate() error {
	if c.Levels < 2 {
		return fmt.Errorf("%w: duopoly needs at least 2 price levels, got %d", core.ErrConfigMismatch, c.Levels)
	}
	if c.MinPrice < 0 || c.MaxPrice > 1 || c.MinPrice >= c.MaxPrice {
		return fmt.Errorf("%w: price bounds [%v, %v] must satisfy 0 <= min < max <= 1", core.ErrConfigMismatch, c.MinPrice, c.MaxPrice)
	}
	return nil
}

// PrisonersDilemmaConfig holds the full two-player payoff matrix by its
// conventional names: both cooperate -> Reward each, both defect ->
// Punishment each, one defects -> Temptation vs Sucker.
type PrisonersDilemmaConfig struct {
	Reward     float64 `json:"reward"`
	Temptation float64 `json:"temptation"`
	Sucker     float64 `json:"sucker"`
	Punishment float64 `json:"punishment"`
}

func (c *PrisonersDilemmaConfig) Validate() error {
	if !(c.Temptation > c.Reward && c.Reward > c.Punishment && c.Punishment >= c.Sucker) {
		return fmt.Errorf("%w: payoffs must order T > R > P >= S, got T=%v R=%v P=%v S=%v",
			core.ErrConfigMismatch, c.Temptation, c.Reward, c.Punishment, c.Sucker)
	}
	return nil
}

// PopulationConfig parameterizes the technology-adoption population game.
type PopulationConfig struct {
	Agents   int     `json:"agents"`
	V        float64 `json:"v"`
	K        float64 `json:"k"`
	Exponent float64 `json:"exponent"`
	Cost     float64 `json:"cost"`
}

func (c *PopulationConfig) Validate() error {
	if c.Agents <= 0 {
		return fmt.Errorf("%w: population game needs agents > 0, got %d", core.ErrConfigMismatch, c.Agents)
	}
	if c.V <= 0 || c.K <= 0 {
		return fmt.Errorf("%w: population game needs V > 0 and K > 0", core.ErrConfigMismatch)
	}
	return nil
}

// PublicGoodsConfig parameterizes the public goods game: contribution levels
// per agent, the pot multiplier, and the exponent shaping marginal
// contributions.
type PublicGoodsConfig struct {
	Agents     int     `json:"agents"`
	Levels     int     `json:"levels"`
	Multiplier float64 `json:"multiplier"`
	Beta       float64 `json:"beta"`
}

func (c *PublicGoodsConfig) Validate() error {
	if c.Agents <= 0 {
		return fmt.Errorf("%w: public goods game needs agents > 0, got %d", core.ErrConfigMismatch, c.Agents)
	}
	if c.Levels < 2 {
		return fmt.Errorf("%w: public goods game needs at least 2 contribution levels, got %d", core.ErrConfigMismatch, c.Levels)
	}
	if c.Multiplier <= 0 {
		return fmt.Errorf("%w: public goods game needs multiplier > 0, got %v", core.ErrConfigMismatch, c.Multiplier)
	}
	if c.Beta <= 0 {
		return fmt.Errorf("%w: public goods game needs beta > 0, got %v", core.ErrConfigMismatch, c.Beta)
	}
	return nil
}

// decodeStrict unmarshals a configuration object, rejecting unknown fields
// and requiring every field the family enumerates. Both violations are
// configuration mismatches surfaced before a simulation starts.
func decodeStrict(data []byte, fields []string, out interface{}) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", core.ErrConfigMismatch, err)
	}
	allowed := make(map[string]bool, len(fields))
	for _, f := range fields {
		allowed[f] = true
	}
	for k := range raw {
		if !allowed[k] {
			return fmt.Errorf("%w: unknown field %q", core.ErrConfigMismatch, k)
		}
	}
	for _, f := range fields {
		if _, ok := raw[f]; !ok {
			return fmt.Errorf("%w: missing field %q", core.ErrConfigMismatch, f)
		}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", core.ErrConfigMismatch, err)
	}
	return nil
}

// Decode builds a game from its family name and a JSON configuration object.
// Unknown families, unknown or missing fields, and out-of-domain parameter
// values all fail with a configuration mismatch.
func Decode(family string, data []byte) (core.Game, error) {
	switch family {
	case "braess_augmented":
		cfg := RouteConfig{}
		if err := decodeStrict(data, []string{"agents", "cost"}, &cfg); err != nil {
			return nil, err
		}
		return NewBraessAugmented(cfg)
	case "braess_initial":
		cfg := RouteConfig{}
		if err := decodeStrict(data, []string{"agents", "cost"}, &cfg); err != nil {
			return nil, err
		}
		return NewBraessInitial(cfg)
	case "two_route":
		cfg := RouteConfig{}
		if err := decodeStrict(data, []string{"agents", "cost"}, &cfg); err != nil {
			return nil, err
		}
		return NewTwoRoute(cfg)
	case "pigou":
		cfg := RouteConfig{}
		if err := decodeStrict(data, []string{"agents", "cost"}, &cfg); err != nil {
			return nil, err
		}
		return NewPigou(cfg)
	case "pigou3":
		cfg := RouteConfig{}
		if err := decodeStrict(data, []string{"agents", "cost"}, &cfg); err != nil {
			return nil, err
		}
		return NewPigou3(cfg)
	case "minority":
		cfg := MinorityConfig{}
		if err := decodeStrict(data, []string{"agents", "threshold"}, &cfg); err != nil {
			return nil, err
		}
		return NewMinority(cfg)
	case "minority_mean_field":
		cfg := MinorityConfig{}
		if err := decodeStrict(data, []string{"agents", "threshold"}, &cfg); err != nil {
			return nil, err
		}
		return NewMinorityMeanField(cfg)
	case "el_farol":
		cfg := MinorityConfig{}
		if err := decodeStrict(data, []string{"agents", "threshold"}, &cfg); err != nil {
			return nil, err
		}
		return NewElFarol(cfg)
	case "duopoly":
		cfg := DuopolyConfig{}
		if err := decodeStrict(data, []string{"levels", "min_price", "max_price"}, &cfg); err != nil {
			return nil, err
		}
		return NewDuopoly(cfg)
	case "prisoners_dilemma":
		cfg := PrisonersDilemmaConfig{}
		if err := decodeStrict(data, []string{"reward", "temptation", "sucker", "punishment"}, &cfg); err != nil {
			return nil, err
		}
		return NewPrisonersDilemma(cfg)
	case "population":
		cfg := PopulationConfig{}
		if err := decodeStrict(data, []string{"agents", "v", "k", "exponent", "cost"}, &cfg); err != nil {
			return nil, err
		}
		return NewPopulationGame(cfg)
	case "public_goods":
		cfg := PublicGoodsConfig{}
		if err := decodeStrict(data, []string{"agents", "levels", "multiplier", "beta"}, &cfg); err != nil {
			return nil, err
		}
		return NewPublicGoods(cfg)
	}
	return nil, fmt.Errorf("%w: unknown game family %q", core.ErrConfigMismatch, family)
}
