package sim

import (
	"sandworld/internal/matter"
)

// claim registers source as wanting to move into the vacant canvas cell
// target. When two sources contest a target the denser one wins; equal
// weights keep the first claim, so row-major scan order decides.
func (e *Engine) claim(target, source int, w float32) {
	if e.claims[target] < 0 {
		e.claims[target] = int32(source)
		e.claimW[target] = w
		e.claimed = append(e.claimed, int32(target))
		return
	}
	if w > e.claimW[target] {
		e.claims[target] = int32(source)
		e.claimW[target] = w
	}
}

// commitClaims applies the claimed moves onto the next buffer and flips the
// ping-pong pair. Targets are vacant and sources non-empty, so the two sets
// never overlap and moves commit in any order.
func (e *Engine) commitClaims() {
	e.copyNext()
	for _, t := range e.claimed {
		s := int(e.claims[t])
		e.setNext(int(t), e.curAt(s))
		e.setNext(s, e.empty)
		e.claims[t] = -1
	}
	e.claimed = e.claimed[:0]
	e.swap()
}

// moveOnce runs one movement round: fall, rise, then slide.
func (e *Engine) moveOnce(round int) {
	e.fall()
	e.rise()
	e.slide((e.tick + uint32(round)) % 2)
}

// fall moves powders, liquids and loose solids into the vacant cell below.
func (e *Engine) fall() {
	s := e.size
	for y := 1; y < s; y++ {
		for x := 0; x < s; x++ {
			t := y*s + x
			if !e.vacant(t) {
				continue
			}
			src := t - s
			if e.ovlAt(src) != e.empty {
				continue
			}
			if id := e.curAt(src); e.state[id].Falls() {
				e.claim(t, src, e.weight[id])
			}
		}
	}
	e.commitClaims()
}

// rise moves gases into the vacant cell above.
func (e *Engine) rise() {
	s := e.size
	for y := 0; y < s-1; y++ {
		for x := 0; x < s; x++ {
			t := y*s + x
			if !e.vacant(t) {
				continue
			}
			src := t + s
			if e.ovlAt(src) != e.empty {
				continue
			}
			if id := e.curAt(src); e.state[id].Rises() {
				e.claim(t, src, e.weight[id])
			}
		}
	}
	e.commitClaims()
}

// slide moves powders and liquids diagonally down when blocked below. The
// preferred side alternates with bias so piles build symmetrically.
func (e *Engine) slide(bias uint32) {
	s := e.size
	dir := 1
	if bias != 0 {
		dir = -1
	}
	for y := 0; y < s; y++ {
		for x := 0; x < s; x++ {
			i := y*s + x
			if e.ovlAt(i) != e.empty {
				continue
			}
			id := e.curAt(i)
			if !e.state[id].Slides() {
				continue
			}
			// Only blocked cells slide; a cell with room below falls
			// in the next round instead.
			if y+1 < s && e.vacant(i+s) {
				continue
			}
			for _, d := range [2]int{dir, -dir} {
				tx, ty := x+d, y+1
				if tx < 0 || tx >= s || ty >= s {
					continue
				}
				t := ty*s + tx
				if e.vacant(t) {
					e.claim(t, i, e.weight[id])
					break
				}
			}
		}
	}
	e.commitClaims()
}

// disperse spreads liquids and gases sideways. Each sweep step moves
// matters whose dispersion rate still exceeds the step index one cell in
// the sweep direction.
func (e *Engine) disperse(bias uint32) {
	s := e.size
	d := 1
	if bias != 0 {
		d = -1
	}
	for k := 0; k < e.cfg.DispersionSteps; k++ {
		for y := 0; y < s; y++ {
			for x := 0; x < s; x++ {
				i := y*s + x
				if e.ovlAt(i) != e.empty {
					continue
				}
				id := e.curAt(i)
				if !e.state[id].Disperses() || e.dispersion[id] <= uint32(k) {
					continue
				}
				tx := x + d
				if tx < 0 || tx >= s {
					continue
				}
				if t := y*s + tx; e.vacant(t) {
					e.claim(t, i, e.weight[id])
				}
			}
		}
		e.commitClaims()
	}
}

// react transmutes cells whose reaction rules trigger this tick. Object
// overlay pixels react in place of the cell matter they cover; when one
// transmutes, the product lands on the background grid and the overlay
// pixel is cleared, which the deformation pass later reads as pixel death.
// Overlay clears commit after the scan so every cell samples its neighbors
// against the same overlay state regardless of scan order.
func (e *Engine) react() {
	e.copyNext()
	s := e.size
	var cleared []int
	for y := 0; y < s; y++ {
		for x := 0; x < s; x++ {
			i := y*s + x
			id := e.curAt(i)
			fromOverlay := false
			if o := e.ovlAt(i); o != e.empty {
				id = o
				fromOverlay = true
			}
			if id == e.empty {
				continue
			}
			for slot := range e.reactions[id] {
				r := e.reactions[id][slot]
				if r.Probability <= 0 || r.Direction == matter.DirNone {
					continue
				}
				if r.Reacts != 0 && !e.neighborMatches(x, y, r) {
					continue
				}
				if e.sample(x, y, slot) >= r.Probability {
					continue
				}
				e.setNext(i, r.Becomes)
				if fromOverlay {
					cleared = append(cleared, i)
				}
				break
			}
		}
	}
	for _, i := range cleared {
		ref := e.refs[i]
		e.ovl[ref.c][ref.i] = e.empty
		e.win.Chunks[ref.c].OverlayColor.Cells()[ref.i] = 0
	}
	e.swap()
}

// neighborMatches reports whether any neighbor allowed by the reaction's
// direction mask carries one of its required characteristics.
func (e *Engine) neighborMatches(x, y int, r matter.Reaction) bool {
	for b := 0; b < 8; b++ {
		if r.Direction&(1<<uint(b)) == 0 {
			continue
		}
		off := matter.DirOffsets[b]
		if e.chars[e.effectiveNear(x+off[0], y+off[1])]&r.Reacts != 0 {
			return true
		}
	}
	return false
}

// finish copies the settled state into the next buffer so both halves of
// the ping-pong pair agree between ticks.
func (e *Engine) finish() {
	e.copyNext()
}

// updateBitmaps downsamples cell occupancy into the per-class bitmaps and
// records which classes changed since the previous tick.
func (e *Engine) updateBitmaps() {
	ratio := e.cfg.BitmapRatio
	bw := e.bitmapW
	for c := range e.changed {
		e.changed[c] = false
	}
	for by := 0; by < bw; by++ {
		for bx := 0; bx < bw; bx++ {
			var occ [numClasses]uint8
			for dy := 0; dy < ratio; dy++ {
				for dx := 0; dx < ratio; dx++ {
					id := e.curAt((by*ratio+dy)*e.size + bx*ratio + dx)
					switch e.state[id] {
					case matter.StateSolid, matter.StateSolidGravity:
						occ[ClassSolid] = 1
					case matter.StatePowder:
						occ[ClassPowder] = 1
					case matter.StateLiquid:
						occ[ClassLiquid] = 1
					}
				}
			}
			bi := by*bw + bx
			for c := Class(0); c < numClasses; c++ {
				if e.bitmaps[c][bi] != occ[c] {
					e.bitmaps[c][bi] = occ[c]
					e.changed[c] = true
				}
			}
		}
	}
}

// colorize renders the canvas into the chunk display buffers. Overlay
// pixels keep their own colors; everything else takes its matter color.
func (e *Engine) colorize() {
	for i, ref := range e.refs {
		var c uint32
		if e.ovl[ref.c][ref.i] != e.empty {
			c = e.win.Chunks[ref.c].OverlayColor.Cells()[ref.i]
		} else {
			c = e.color[e.curAt(i)]
		}
		disp := e.win.Chunks[ref.c].Display
		o := ref.i * 4
		disp[o] = byte(c >> 24)
		disp[o+1] = byte(c >> 16)
		disp[o+2] = byte(c >> 8)
		disp[o+3] = byte(c)
	}
}
