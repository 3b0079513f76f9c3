package engine

import (
	"math"
	"math/rand"

	"github.com/veilmon/veilmon-server/internal/game"
)

// varianceLow/varianceHigh bound the uniform damage variance factor.
const (
	varianceLow  = 0.85
	varianceHigh = 1.15
)

// Damage computes the damage an attack or status move deals.
// base = max(1, attack + power - defense), scaled by a uniform factor in
// [0.85, 1.15), floored. A live shield on the defender halves the result
// (rounded up). The final value is never below 1.
func Damage(attack, power, defense int, shielded bool, rng *rand.Rand) int {
	base := attack + power - defense
	if base < 1 {
		base = 1
	}
	factor := varianceLow + rng.Float64()*(varianceHigh-varianceLow)
	dmg := int(math.Floor(float64(base) * factor))
	if shielded {
		dmg = (dmg + 1) / 2
	}
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// attackWithEffects returns the attacker's effective attack stat with a
// live boost applied (+50%).
func attackWithEffects(m *game.Monster, turn int) int {
	a := m.Attack
	if m.HasEffect(game.EffectBoost, turn) {
		a = int(float64(a) * 1.5)
	}
	if a < 0 {
		a = 0
	}
	return a
}

// Heal restores power hit points, clamped to the monster's base maximum,
// and returns the amount actually restored.
func Heal(m *game.Monster, power int) int {
	before := m.CurrentHP
	m.CurrentHP += power
	if m.CurrentHP > m.BaseMaxHP {
		m.CurrentHP = m.BaseMaxHP
	}
	return m.CurrentHP - before
}
