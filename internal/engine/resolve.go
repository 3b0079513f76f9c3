package engine

import (
	"math/rand"
	"strconv"

	"github.com/veilmon/veilmon-server/internal/game"
)

// Result describes the outcome of one resolved turn.
type Result struct {
	// Lines is the human-readable turn narration, in application order.
	Lines []string
	// Finished is true when a winner was determined this turn.
	Finished bool
}

// turnContext carries per-turn scratch state while a resolution runs.
type turnContext struct {
	b     *game.Battle
	rng   *rand.Rand
	lines []string
}

func newTurnContext(b *game.Battle, rng *rand.Rand) *turnContext {
	return &turnContext{b: b, rng: rng, lines: make([]string, 0, 8)}
}

func (tc *turnContext) add(msg string) { tc.lines = append(tc.lines, msg) }

// plannedMove is one side's action for the turn.
type plannedMove struct {
	side   game.Side
	actor  *game.Monster
	target *game.Monster
	move   game.Move
	// bound is snapshotted at turn start so a bind applied this turn
	// only affects the following one.
	bound bool
}

// ResolveTurn applies the two committed moves to the battle in speed
// order (ties favor the player), performs faint checks and winner
// determination, and expires status effects. The caller owns turn
// accounting (commitment clearing, turn increment, log append).
//
// The function is deterministic given rng and mutates only team HP,
// active effects, active indices, Winner and Phase.
func ResolveTurn(b *game.Battle, playerMove, enemyMove game.Move, rng *rand.Rand) Result {
	tc := newTurnContext(b, rng)

	player := b.ActivePlayer()
	enemy := b.ActiveEnemy()
	if player == nil || enemy == nil {
		return Result{}
	}

	plans := []plannedMove{
		{side: game.SidePlayer, actor: player, target: enemy, move: playerMove, bound: player.HasEffect(game.EffectBind, b.Turn)},
		{side: game.SideEnemy, actor: enemy, target: player, move: enemyMove, bound: enemy.HasEffect(game.EffectBind, b.Turn)},
	}
	// Speed order; the player wins ties.
	if enemy.Speed > player.Speed {
		plans[0], plans[1] = plans[1], plans[0]
	}

	tc.apply(&plans[0])
	if plans[1].actor.CurrentHP > 0 {
		tc.apply(&plans[1])
	}

	finished := tc.faintChecks()

	player.ExpireEffects(b.Turn + 1)
	enemy.ExpireEffects(b.Turn + 1)

	return Result{Lines: tc.lines, Finished: finished}
}

func (tc *turnContext) apply(p *plannedMove) {
	if p.bound {
		tc.add(p.actor.Name + " is bound and cannot act")
		return
	}
	switch p.move.Kind {
	case game.MoveHeal:
		restored := Heal(p.actor, p.move.EffectivePower())
		tc.add(p.actor.Name + " used " + p.move.Name + " and restored " + strconv.Itoa(restored) + " HP")
	case game.MoveAttack, game.MoveStatus:
		atk := attackWithEffects(p.actor, tc.b.Turn)
		shielded := p.target.HasEffect(game.EffectShield, tc.b.Turn)
		dmg := Damage(atk, p.move.EffectivePower(), p.target.Defense, shielded, tc.rng)
		p.target.CurrentHP -= dmg
		if p.target.CurrentHP < 0 {
			p.target.CurrentHP = 0
		}
		suffix := ""
		if shielded {
			suffix = " (shielded)"
		}
		tc.add(p.actor.Name + " used " + p.move.Name + " for " + strconv.Itoa(dmg) + " damage" + suffix)
		if p.move.Kind == game.MoveStatus && p.move.Effect != game.EffectNone {
			tc.applyEffect(p)
		}
	}
}

// applyEffect attaches the move's status effect. shield and boost target
// the actor; bind and nullify target the opponent. A live nullify on the
// receiver blocks new effects.
func (tc *turnContext) applyEffect(p *plannedMove) {
	until := tc.b.Turn + 1
	receiver := p.target
	if p.move.Effect == game.EffectShield || p.move.Effect == game.EffectBoost {
		receiver = p.actor
	}
	if p.move.Effect == game.EffectNullify {
		receiver.ActiveEffects = nil
		receiver.ActiveEffects = append(receiver.ActiveEffects, game.ActiveEffect{Kind: game.EffectNullify, UntilTurn: until})
		tc.add(receiver.Name + "'s effects are nullified")
		return
	}
	if receiver.HasEffect(game.EffectNullify, tc.b.Turn) {
		tc.add(receiver.Name + " is nullified; " + string(p.move.Effect) + " fails to take hold")
		return
	}
	receiver.ActiveEffects = append(receiver.ActiveEffects, game.ActiveEffect{Kind: p.move.Effect, UntilTurn: until})
	switch p.move.Effect {
	case game.EffectShield:
		tc.add(receiver.Name + " raises a shield")
	case game.EffectBoost:
		tc.add(receiver.Name + "'s attack surges")
	case game.EffectBind:
		tc.add(receiver.Name + " is bound")
	}
}

// faintChecks handles fainting on both sides and determines the winner.
// Enemy faints advance the enemy index; a player faint auto-selects the
// first healthy teammate. Returns true when the battle finished.
func (tc *turnContext) faintChecks() bool {
	b := tc.b

	if enemy := b.ActiveEnemy(); enemy != nil && enemy.Fainted() {
		tc.add(enemy.Name + " fainted!")
		b.ActiveEnemyIndex++
		if b.ActiveEnemyIndex >= len(b.EnemyTeam()) {
			b.Winner = game.WinnerPlayer
			b.Phase = game.PhaseFinished
			tc.add("All enemy monsters are down. You win!")
			return true
		}
		tc.add(b.ActiveEnemy().Name + " takes the field")
	}

	if player := b.ActivePlayer(); player != nil && player.Fainted() {
		tc.add(player.Name + " fainted!")
		next := -1
		for i, m := range b.PlayerTeam() {
			if i != b.ActivePlayerIndex && m.CurrentHP > 0 {
				next = i
				break
			}
		}
		if next == -1 {
			b.Winner = game.WinnerEnemy
			b.Phase = game.PhaseFinished
			tc.add("All your monsters are down. You lose.")
			return true
		}
		b.ActivePlayerIndex = next
		tc.add(b.ActivePlayer().Name + " takes the field")
	}

	return false
}
