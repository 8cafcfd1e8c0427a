package matter

// Well-known ids in the default table.
const (
	IDEmpty uint8 = iota
	IDSand
	IDWater
	IDLava
	IDRock
	IDIce
	IDGlass
	IDWood
	IDSteam
	IDSmoke
	IDGas
	IDFire
	IDAcid
	IDErase
)

// DefaultTable builds the stock matter set: a small palette of powders,
// liquids, gases and solids with enough cross reactions to be interesting
// (water cools lava, fire climbs wood, acid eats rock).
func DefaultTable() *Table {
	t := &Table{Empty: IDEmpty}
	t.Definitions = []Definition{
		{
			ID:    IDEmpty,
			Name:  "Empty",
			State: StateEmpty,
		},
		{
			ID:              IDSand,
			Name:            "Sand",
			Color:           0xc2b280ff,
			Weight:          1.5,
			State:           StatePowder,
			Characteristics: Melts | Corrodes,
			Reactions: [MaxReactions]Reaction{
				OnTouch(0.6, Melting, IDGlass),
				OnTouch(0.05, Corrosive, IDEmpty),
				OnTouch(1.0, Eraser, IDEmpty),
			},
		},
		{
			ID:              IDWater,
			Name:            "Water",
			Color:           0x1ca3ecff,
			Weight:          1.0,
			State:           StateLiquid,
			Dispersion:      10,
			Characteristics: Rusting | Cooling | Freezes | Vaporizes,
			Reactions: [MaxReactions]Reaction{
				OnTouch(0.6, Melting|Burning|Corrosive, IDSteam),
				OnTouch(0.005, Freezing, IDIce),
				OnTouch(1.0, Eraser, IDEmpty),
			},
		},
		{
			ID:              IDLava,
			Name:            "Lava",
			Color:           0xf7342bff,
			Weight:          2.5,
			State:           StateLiquid,
			Dispersion:      2,
			Characteristics: Melting | Burning | Freezes | Cools,
			Reactions: [MaxReactions]Reaction{
				OnTouch(0.5, Freezing|Cooling, IDRock),
				// Some lava is consumed by what it melts or burns.
				OnTouch(0.6, Melts|Burns, IDEmpty),
				OnTouch(1.0, Eraser, IDEmpty),
			},
		},
		{
			ID:              IDRock,
			Name:            "Rock",
			Color:           0x87898eff,
			Weight:          2.5,
			State:           StateSolidGravity,
			Characteristics: Corrodes,
			Reactions: [MaxReactions]Reaction{
				OnTouch(0.05, Corrosive, IDEmpty),
				OnTouch(1.0, Eraser, IDEmpty),
			},
		},
		{
			ID:              IDIce,
			Name:            "Ice",
			Color:           0xb9e8eaff,
			Weight:          1.0,
			State:           StateSolid,
			Characteristics: Freezing | Melts,
			Reactions: [MaxReactions]Reaction{
				OnTouch(0.4, Melting|Burning|Corrosive, IDWater),
				OnTouch(1.0, Eraser, IDEmpty),
			},
		},
		{
			ID:              IDGlass,
			Name:            "Glass",
			Color:           0xf6feffff,
			Weight:          1.5,
			State:           StateSolidGravity,
			Characteristics: Corrodes,
			Reactions: [MaxReactions]Reaction{
				OnTouch(0.05, Corrosive, IDEmpty),
				OnTouch(1.0, Eraser, IDEmpty),
			},
		},
		{
			ID:              IDWood,
			Name:            "Wood",
			Color:           0xba8c63ff,
			Weight:          0.4,
			State:           StateSolid,
			Characteristics: Burns | Corrodes,
			Reactions: [MaxReactions]Reaction{
				OnTouchBelow(0.4, Melting|Burning, IDFire),
				OnTouchBelow(0.2, Melting|Burning, IDSmoke),
				OnTouch(1.0, Corrosive, IDEmpty),
				OnTouch(1.0, Eraser, IDEmpty),
				OnTouch(0.05, Melting|Burning, IDFire),
			},
		},
		{
			ID:         IDSteam,
			Name:       "Steam",
			Color:      0x889a9eff,
			Weight:     0.1,
			State:      StateGas,
			Dispersion: 5,
			Reactions: [MaxReactions]Reaction{
				Decay(0.005, IDEmpty),
				OnTouch(1.0, Eraser, IDEmpty),
			},
		},
		{
			ID:         IDSmoke,
			Name:       "Smoke",
			Color:      0x7a7a7aff,
			Weight:     0.1,
			State:      StateGas,
			Dispersion: 5,
			Reactions: [MaxReactions]Reaction{
				Decay(0.005, IDEmpty),
				OnTouch(1.0, Eraser, IDEmpty),
			},
		},
		{
			ID:         IDGas,
			Name:       "Gas",
			Color:      0x92cd00ff,
			Weight:     0.1,
			State:      StateGas,
			Dispersion: 5,
			Reactions: [MaxReactions]Reaction{
				Decay(0.005, IDEmpty),
				OnTouch(1.0, Eraser, IDEmpty),
			},
		},
		{
			ID:              IDFire,
			Name:            "Fire",
			Color:           0xe25822ff,
			State:           StateEnergy,
			Characteristics: Burning,
			Reactions: [MaxReactions]Reaction{
				// Short lived so flames flicker instead of pooling.
				Decay(0.2, IDEmpty),
				OnTouchBelow(0.2, Burns, IDFire),
				OnTouch(1.0, Eraser, IDEmpty),
			},
		},
		{
			ID:              IDAcid,
			Name:            "Acid",
			Color:           0xb0bf1aff,
			Weight:          1.0,
			State:           StateLiquid,
			Dispersion:      5,
			Characteristics: Corrosive | Burns,
			Reactions: [MaxReactions]Reaction{
				// Acid spends itself on whatever it corrodes.
				OnTouch(0.2, Corrodes, IDEmpty),
				OnTouch(0.4, Burning, IDFire),
				Decay(0.005, IDEmpty),
				OnTouch(1.0, Eraser, IDEmpty),
			},
		},
		{
			ID:              IDErase,
			Name:            "Erase",
			State:           StateEnergy,
			Characteristics: Eraser,
			Reactions: [MaxReactions]Reaction{
				Decay(1.0, IDEmpty),
			},
		},
	}
	return t
}
