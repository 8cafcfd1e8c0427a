package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp/v2"

	"sandworld/internal/contour"
)

const (
	defaultFriction = 0.7
	// Collision type shared by every shape so one handler sees all pairs.
	shapeType cp.CollisionType = 1
)

type slot struct {
	body *cp.Body
	gen  uint32
	kind Kind
}

// Space is the chipmunk-backed Engine. Bodies live in a generation-checked
// slot arena so handles stay cheap value types.
type Space struct {
	space    *cp.Space
	slots    []slot
	free     []int
	contacts []Contact
}

var _ Engine = (*Space)(nil)

// NewSpace creates a space with the given gravity, in world units per
// second squared. The grid is y-down, so gravity normally points at +y.
func NewSpace(gravity mgl32.Vec2) *Space {
	s := &Space{space: cp.NewSpace()}
	s.space.SetGravity(cp.Vector{X: float64(gravity.X()), Y: float64(gravity.Y())})
	handler := s.space.NewCollisionHandler(shapeType, shapeType)
	handler.BeginFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
		a, b := arb.Bodies()
		ha, okA := a.UserData.(Handle)
		hb, okB := b.UserData.(Handle)
		if okA && okB {
			s.contacts = append(s.contacts, Contact{A: ha, B: hb})
		}
		return true
	}
	return s
}

// CreateBody implements Engine.
func (s *Space) CreateBody(def BodyDef) Handle {
	var body *cp.Body
	switch def.Kind {
	case Static:
		body = cp.NewStaticBody()
	case Sensor:
		body = cp.NewKinematicBody()
	default:
		mass, moment := massProperties(def)
		body = cp.NewBody(mass, moment)
	}
	body.SetPosition(cp.Vector{X: float64(def.Pose.Pos.X()), Y: float64(def.Pose.Pos.Y())})
	body.SetAngle(float64(def.Pose.Angle))
	if def.Kind == Dynamic {
		body.SetVelocity(float64(def.Velocity.Linear.X()), float64(def.Velocity.Linear.Y()))
		body.SetAngularVelocity(float64(def.Velocity.Angular))
	}
	s.space.AddBody(body)

	for _, col := range def.Colliders {
		for _, shape := range buildShapes(body, col) {
			shape.SetFriction(defaultFriction)
			shape.SetCollisionType(shapeType)
			if def.Kind == Sensor {
				shape.SetSensor(true)
			}
			s.space.AddShape(shape)
		}
	}

	h := s.alloc(body, def.Kind)
	body.UserData = h
	return h
}

func (s *Space) alloc(body *cp.Body, kind Kind) Handle {
	if n := len(s.free); n > 0 {
		idx := s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[idx].body = body
		s.slots[idx].kind = kind
		return Handle{Index: idx, Gen: s.slots[idx].gen}
	}
	s.slots = append(s.slots, slot{body: body, kind: kind})
	return Handle{Index: len(s.slots) - 1}
}

func (s *Space) lookup(h Handle) *cp.Body {
	if h.Index < 0 || h.Index >= len(s.slots) {
		return nil
	}
	sl := &s.slots[h.Index]
	if sl.gen != h.Gen || sl.body == nil {
		return nil
	}
	return sl.body
}

// RemoveBody implements Engine.
func (s *Space) RemoveBody(h Handle) {
	body := s.lookup(h)
	if body == nil {
		return
	}
	var shapes []*cp.Shape
	body.EachShape(func(sh *cp.Shape) { shapes = append(shapes, sh) })
	for _, sh := range shapes {
		s.space.RemoveShape(sh)
	}
	s.space.RemoveBody(body)
	s.slots[h.Index].body = nil
	s.slots[h.Index].gen++
	s.free = append(s.free, h.Index)
}

// BodyState implements Engine.
func (s *Space) BodyState(h Handle) (Pose, Velocity, bool) {
	body := s.lookup(h)
	if body == nil {
		return Pose{}, Velocity{}, false
	}
	p := body.Position()
	v := body.Velocity()
	pose := Pose{Pos: mgl32.Vec2{float32(p.X), float32(p.Y)}, Angle: float32(body.Angle())}
	vel := Velocity{Linear: mgl32.Vec2{float32(v.X), float32(v.Y)}, Angular: float32(body.AngularVelocity())}
	return pose, vel, true
}

// Step implements Engine.
func (s *Space) Step(dt float64) []Contact {
	s.contacts = s.contacts[:0]
	s.space.Step(dt)
	return s.contacts
}

// buildShapes turns one collider ring into chipmunk shapes attached to body.
func buildShapes(body *cp.Body, col Collider) []*cp.Shape {
	if !col.Decompose {
		var shapes []*cp.Shape
		for i := 0; i+1 < len(col.Ring); i++ {
			a := cp.Vector{X: col.Ring[i].X(), Y: col.Ring[i].Y()}
			b := cp.Vector{X: col.Ring[i+1].X(), Y: col.Ring[i+1].Y()}
			shapes = append(shapes, cp.NewSegment(body, a, b, 0))
		}
		return shapes
	}
	var shapes []*cp.Shape
	for _, tri := range contour.Triangulate(col.Ring) {
		verts := []cp.Vector{
			{X: tri[0].X(), Y: tri[0].Y()},
			{X: tri[1].X(), Y: tri[1].Y()},
			{X: tri[2].X(), Y: tri[2].Y()},
		}
		shapes = append(shapes, cp.NewPolyShapeRaw(body, 3, verts, 0))
	}
	return shapes
}

// massProperties derives mass and moment from the decomposed collider area,
// the way a uniform-density plate would behave.
func massProperties(def BodyDef) (mass, moment float64) {
	density := def.Density
	if density <= 0 {
		density = 1
	}
	for _, col := range def.Colliders {
		for _, tri := range contour.Triangulate(col.Ring) {
			verts := []cp.Vector{
				{X: tri[0].X(), Y: tri[0].Y()},
				{X: tri[1].X(), Y: tri[1].Y()},
				{X: tri[2].X(), Y: tri[2].Y()},
			}
			area := cp.AreaForPoly(3, verts, 0)
			if area < 0 {
				area = -area
			}
			m := density * area
			mass += m
			moment += cp.MomentForPoly(m, 3, verts, cp.Vector{}, 0)
		}
	}
	if mass <= 0 {
		mass = 1
		moment = 1
	}
	return mass, moment
}
