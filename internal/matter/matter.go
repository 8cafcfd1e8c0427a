// Package matter holds the rule table describing how each substance in the
// world behaves: its movement state, weight, dispersion and the neighbor
// reactions that transmute it.
package matter

import (
	"fmt"
	"image/color"
)

const (
	// MaxMatters bounds the table size so matter ids fit in a byte grid.
	MaxMatters = 256
	// MaxReactions is the fixed reaction-slot count per matter.
	MaxReactions = 5
)

// State defines how matter moves. The values are the original powers of two
// so serialized tables stay portable.
type State uint32

const (
	StateEmpty        State = 0
	StatePowder       State = 1
	StateLiquid       State = 2
	StateSolid        State = 4
	StateSolidGravity State = 8
	StateGas          State = 16
	StateEnergy       State = 32
)

var stateNames = map[State]string{
	StateEmpty:        "Empty",
	StatePowder:       "Powder",
	StateLiquid:       "Liquid",
	StateSolid:        "Solid",
	StateSolidGravity: "SolidGravity",
	StateGas:          "Gas",
	StateEnergy:       "Energy",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("State(%d)", uint32(s))
}

// Falls reports whether gravity pulls this state downward.
func (s State) Falls() bool {
	return s == StatePowder || s == StateLiquid || s == StateSolidGravity
}

// Rises reports whether this state floats upward.
func (s State) Rises() bool { return s == StateGas }

// Slides reports whether this state slips diagonally when blocked below.
func (s State) Slides() bool { return s == StatePowder || s == StateLiquid }

// Disperses reports whether this state spreads horizontally.
func (s State) Disperses() bool { return s == StateLiquid || s == StateGas }

// Characteristic is a capability bitset: what a matter does to its neighbors
// (left column) and what it is susceptible to (right column).
type Characteristic uint32

const (
	Corrosive Characteristic = 1 << iota
	Corrodes
	Melting
	Melts
	Burning
	Burns
	Freezing
	Freezes
	Exploding
	Explodes
	Electrifies
	Conducts
	Cooling
	Cools
	Rusting
	Rusts
	Vaporizes
	Eraser
)

// Direction is an 8-way neighbor bitset. "Up" is toward smaller y (the grid
// is y-down, matching image row order).
type Direction uint32

const (
	DirUpLeft Direction = 1 << iota
	DirUp
	DirUpRight
	DirRight
	DirDownRight
	DirDown
	DirDownLeft
	DirLeft
)

const (
	DirAll  Direction = 0xff
	DirNone Direction = 0
	// DirBelow is the set good for upward-licking reactions such as fire.
	DirBelow = DirDown | DirDownLeft | DirDownRight | DirRight | DirLeft
)

// DirOffsets maps each direction bit index to its (dx, dy) cell offset.
var DirOffsets = [8][2]int{
	{-1, -1}, // up-left
	{0, -1},  // up
	{1, -1},  // up-right
	{1, 0},   // right
	{1, 1},   // down-right
	{0, 1},   // down
	{-1, 1},  // down-left
	{-1, 0},  // left
}

// Reaction describes one transmutation rule: when a neighbor in an allowed
// direction carries any of the required characteristics, the matter becomes
// Becomes with the given probability. A reaction with an empty required set
// but a non-empty direction set fires on probability alone (decay).
type Reaction struct {
	Reacts      Characteristic `json:"reacts"`
	Direction   Direction      `json:"direction"`
	Probability float32        `json:"probability"`
	Becomes     uint8          `json:"becomes"`
}

// Decays reports whether the reaction needs no neighbor to trigger.
func (r Reaction) Decays() bool {
	return r.Reacts == 0 && r.Direction != DirNone
}

// Definition describes one matter's full behavior.
type Definition struct {
	ID              uint8                  `json:"id"`
	Name            string                 `json:"name"`
	Color           uint32                 `json:"color"` // packed 0xRRGGBBAA
	Weight          float32                `json:"weight"`
	State           State                  `json:"state"`
	Dispersion      uint32                 `json:"dispersion"`
	Characteristics Characteristic         `json:"characteristics"`
	Reactions       [MaxReactions]Reaction `json:"reactions"`
}

// RGBA unpacks the definition's display color.
func (d Definition) RGBA() color.RGBA {
	return UnpackColor(d.Color)
}

// UnpackColor converts a packed 0xRRGGBBAA value to color.RGBA.
func UnpackColor(c uint32) color.RGBA {
	return color.RGBA{
		R: uint8(c >> 24),
		G: uint8(c >> 16),
		B: uint8(c >> 8),
		A: uint8(c),
	}
}

// PackColor converts color.RGBA to the packed 0xRRGGBBAA representation.
func PackColor(c color.RGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// Decay returns a reaction that turns matter into `becomes` with no neighbor
// requirement (fire burning out, gases thinning away).
func Decay(p float32, becomes uint8) Reaction {
	return Reaction{Reacts: 0, Direction: DirAll, Probability: p, Becomes: becomes}
}

// OnTouch returns a reaction triggered by any neighbor with the given
// characteristics.
func OnTouch(p float32, reacts Characteristic, becomes uint8) Reaction {
	return Reaction{Reacts: reacts, Direction: DirAll, Probability: p, Becomes: becomes}
}

// OnTouchBelow is OnTouch restricted to the lower half-neighborhood.
func OnTouchBelow(p float32, reacts Characteristic, becomes uint8) Reaction {
	return Reaction{Reacts: reacts, Direction: DirBelow, Probability: p, Becomes: becomes}
}
