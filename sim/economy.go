package sim

import (
	"context"

	"ctrlspike/towerdefense/logging"
	"ctrlspike/towerdefense/logging/economy"
)

// Resources is the triple of non-negative currencies every debit/credit
// operates on (spec §3), grounded on the teacher's inventory debit-credit
// shape from items.go/inventory.go, generalized from item stacks to a fixed
// three-currency ledger.
type Resources struct {
	Dharma    int `json:"dharma"`
	Bandwidth int `json:"bandwidth"`
	Anonymity int `json:"anonymity"`
}

func (r Resources) add(other Resources) Resources {
	return Resources{
		Dharma:    r.Dharma + other.Dharma,
		Bandwidth: r.Bandwidth + other.Bandwidth,
		Anonymity: r.Anonymity + other.Anonymity,
	}
}

func (r Resources) scale(factor float64) Resources {
	return Resources{
		Dharma:    floorInt(float64(r.Dharma) * factor),
		Bandwidth: floorInt(float64(r.Bandwidth) * factor),
		Anonymity: floorInt(float64(r.Anonymity) * factor),
	}
}

func (r Resources) clampNonNegative() Resources {
	if r.Dharma < 0 {
		r.Dharma = 0
	}
	if r.Bandwidth < 0 {
		r.Bandwidth = 0
	}
	if r.Anonymity < 0 {
		r.Anonymity = 0
	}
	return r
}

// Ledger owns the resources triple, the lives counter, and score. It is the
// sole mutator of Resources (spec §5: "the Resources ledger is mutated only
// by the Economy component, invoked synchronously").
type Ledger struct {
	Resources Resources
	Lives     int
	Score     int

	pub logging.Publisher
}

// NewLedger seeds a ledger at the canonical starting resources and lives.
func NewLedger(pub logging.Publisher) *Ledger {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	return &Ledger{
		Resources: InitialResources,
		Lives:     InitialLives,
		pub:       pub,
	}
}

// CanAfford reports whether cost can be fully debited without going negative.
func (l *Ledger) CanAfford(cost DefenseCost) bool {
	return l.Resources.Dharma >= cost.Dharma &&
		l.Resources.Bandwidth >= cost.Bandwidth &&
		l.Resources.Anonymity >= cost.Anonymity
}

// Debit subtracts cost from the ledger and clamps every currency at zero.
// Callers MUST check CanAfford first: Debit never rejects, so an unaffordable
// cost leaves the short currencies at zero instead of failing.
func (l *Ledger) Debit(ctx context.Context, tick uint64, cost DefenseCost, reason string) {
	l.Resources.Dharma -= cost.Dharma
	l.Resources.Bandwidth -= cost.Bandwidth
	l.Resources.Anonymity -= cost.Anonymity
	l.Resources = l.Resources.clampNonNegative()
	economy.Debited(ctx, l.pub, tick, economy.ResourcesPayload{
		Dharma: l.Resources.Dharma, Bandwidth: l.Resources.Bandwidth, Anonymity: l.Resources.Anonymity, Reason: reason,
	})
}

// Credit adds reward to the ledger, clamped to non-negative (credits never
// push a currency negative; there is no practical upper bound within 20
// waves, so Saturation per spec §7 never triggers in normal play).
func (l *Ledger) Credit(ctx context.Context, tick uint64, reward Resources, reason string) {
	l.Resources = l.Resources.add(reward).clampNonNegative()
	economy.Credited(ctx, l.pub, tick, economy.ResourcesPayload{
		Dharma: l.Resources.Dharma, Bandwidth: l.Resources.Bandwidth, Anonymity: l.Resources.Anonymity, Reason: reason,
	})
}

// LoseLife debits `amount` lives (1 per enemy reaching the end, 5 per boss)
// and reports whether this crossed into game-over.
func (l *Ledger) LoseLife(amount int) (gameOver bool) {
	l.Lives -= amount
	if l.Lives < 0 {
		l.Lives = 0
	}
	return l.Lives == 0
}

// UpgradeCost computes the cost of upgrading a defense currently at `level`
// (1-indexed), per spec §4.4: base cost scaled by 1.5^level per currency,
// with bandwidth and anonymity additionally scaled by 0.5 and 0.3.
func UpgradeCost(kind DefenseKind, level int) DefenseCost {
	base := defenseBaseCost[kind]
	multiplier := 1.0
	for i := 0; i < level; i++ {
		multiplier *= 1.5
	}
	return DefenseCost{
		Dharma:    floorInt(float64(base.Dharma) * multiplier),
		Bandwidth: floorInt(float64(base.Bandwidth) * multiplier * 0.5),
		Anonymity: floorInt(float64(base.Anonymity) * multiplier * 0.3),
	}
}
