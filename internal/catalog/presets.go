package catalog

import "github.com/veilmon/veilmon-server/internal/game"

// Built-in rosters. Move ids are scoped to their monster (m1..m4) since
// a committed move is always resolved against the active monster.

func defaultPlayerPresets() []Preset {
	return []Preset{
		{
			ID: "night", Name: "NIGHT", BaseMaxHP: 120, Attack: 60, Defense: 45, Speed: 70,
			Moves: []game.Move{
				{ID: "m1", Name: "Umbral Slash", Kind: game.MoveAttack, Power: 30, Effect: game.EffectNone},
				{ID: "m2", Name: "Shadow Veil", Kind: game.MoveStatus, Power: 15, Effect: game.EffectShield},
				{ID: "m3", Name: "Moonlit Mending", Kind: game.MoveHeal, Power: 25, Effect: game.EffectNone},
				{ID: "m4", Name: "Gloom Fang", Kind: game.MoveAttack, Power: 45, Effect: game.EffectNone},
			},
		},
		{
			ID: "umbra", Name: "UMBRA", BaseMaxHP: 140, Attack: 50, Defense: 55, Speed: 55,
			Moves: []game.Move{
				{ID: "m1", Name: "Dusk Hammer", Kind: game.MoveAttack, Power: 35, Effect: game.EffectNone},
				{ID: "m2", Name: "Creeping Chains", Kind: game.MoveStatus, Power: 10, Effect: game.EffectBind},
				{ID: "m3", Name: "Twilight Salve", Kind: game.MoveHeal, Effect: game.EffectNone},
				{ID: "m4", Name: "Abyssal Crush", Kind: game.MoveAttack, Power: 50, Effect: game.EffectNone},
			},
		},
		{
			ID: "eclipse", Name: "ECLIPSE", BaseMaxHP: 110, Attack: 70, Defense: 35, Speed: 80,
			Moves: []game.Move{
				{ID: "m1", Name: "Corona Lash", Kind: game.MoveAttack, Power: 25, Effect: game.EffectNone},
				{ID: "m2", Name: "Dark Ascendance", Kind: game.MoveStatus, Power: 10, Effect: game.EffectBoost},
				{ID: "m3", Name: "Void Static", Kind: game.MoveStatus, Power: 15, Effect: game.EffectNullify},
				{ID: "m4", Name: "Totality", Kind: game.MoveAttack, Power: 55, Effect: game.EffectNone},
			},
		},
	}
}

func defaultEnemyPresets() []Preset {
	return []Preset{
		{
			ID: "gloom", Name: "GLOOM", BaseMaxHP: 100, Attack: 45, Defense: 40, Speed: 50,
			Moves: []game.Move{
				{ID: "m1", Name: "Murk Bolt", Kind: game.MoveAttack, Power: 30, Effect: game.EffectNone},
				{ID: "m2", Name: "Dimming Haze", Kind: game.MoveStatus, Power: 10, Effect: game.EffectBind},
				{ID: "m3", Name: "Sorrow Siphon", Kind: game.MoveHeal, Effect: game.EffectNone},
				{ID: "m4", Name: "Heavy Dusk", Kind: game.MoveAttack, Power: 40, Effect: game.EffectNone},
			},
		},
		{
			ID: "wraith", Name: "WRAITH", BaseMaxHP: 110, Attack: 50, Defense: 35, Speed: 65,
			Moves: []game.Move{
				{ID: "m1", Name: "Chill Touch", Kind: game.MoveAttack, Power: 25, Effect: game.EffectNone},
				{ID: "m2", Name: "Haunting Wail", Kind: game.MoveStatus, Power: 15, Effect: game.EffectNullify},
				{ID: "m3", Name: "Grave Mist", Kind: game.MoveStatus, Power: 10, Effect: game.EffectShield},
				{ID: "m4", Name: "Soul Rend", Kind: game.MoveAttack, Power: 45, Effect: game.EffectNone},
			},
		},
		{
			ID: "phantom", Name: "PHANTOM", BaseMaxHP: 95, Attack: 55, Defense: 30, Speed: 75,
			Moves: []game.Move{
				{ID: "m1", Name: "Flicker Strike", Kind: game.MoveAttack, Power: 30, Effect: game.EffectNone},
				{ID: "m2", Name: "Vanishing Act", Kind: game.MoveStatus, Power: 10, Effect: game.EffectShield},
				{ID: "m3", Name: "Ether Drain", Kind: game.MoveHeal, Power: 25, Effect: game.EffectNone},
				{ID: "m4", Name: "Night Terror", Kind: game.MoveAttack, Power: 50, Effect: game.EffectNone},
			},
		},
		{
			ID: "specter", Name: "SPECTER", BaseMaxHP: 120, Attack: 40, Defense: 50, Speed: 45,
			Moves: []game.Move{
				{ID: "m1", Name: "Pallid Grasp", Kind: game.MoveAttack, Power: 35, Effect: game.EffectNone},
				{ID: "m2", Name: "Cold Rally", Kind: game.MoveStatus, Power: 10, Effect: game.EffectBoost},
				{ID: "m3", Name: "Sepulchral Rest", Kind: game.MoveHeal, Power: 30, Effect: game.EffectNone},
				{ID: "m4", Name: "Tomb Slam", Kind: game.MoveAttack, Power: 45, Effect: game.EffectNone},
			},
		},
		{
			ID: "shade", Name: "SHADE", BaseMaxHP: 105, Attack: 60, Defense: 25, Speed: 85,
			Moves: []game.Move{
				{ID: "m1", Name: "Razor Shadow", Kind: game.MoveAttack, Power: 30, Effect: game.EffectNone},
				{ID: "m2", Name: "Smothering Dark", Kind: game.MoveStatus, Power: 15, Effect: game.EffectBind},
				{ID: "m3", Name: "Umbral Feint", Kind: game.MoveStatus, Power: 10, Effect: game.EffectBoost},
				{ID: "m4", Name: "Midnight Reaper", Kind: game.MoveAttack, Power: 55, Effect: game.EffectNone},
			},
		},
		{
			ID: "revenant", Name: "REVENANT", BaseMaxHP: 150, Attack: 55, Defense: 45, Speed: 40,
			Moves: []game.Move{
				{ID: "m1", Name: "Grudge Fist", Kind: game.MoveAttack, Power: 30, Effect: game.EffectNone},
				{ID: "m2", Name: "Deathless Vow", Kind: game.MoveStatus, Power: 10, Effect: game.EffectShield},
				{ID: "m3", Name: "Stolen Breath", Kind: game.MoveHeal, Power: 35, Effect: game.EffectNone},
				{ID: "m4", Name: "Final Verdict", Kind: game.MoveAttack, Power: 60, Effect: game.EffectNone},
			},
		},
	}
}
