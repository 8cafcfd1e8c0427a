package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

func squareRing(half float64) []mgl64.Vec2 {
	return []mgl64.Vec2{
		{-half, -half}, {half, -half}, {half, half}, {-half, half}, {-half, -half},
	}
}

func TestDynamicBodyFallsAndRests(t *testing.T) {
	s := NewSpace(mgl32.Vec2{0, 100})

	floor := s.CreateBody(BodyDef{
		Kind: Static,
		Colliders: []Collider{{
			Ring: []mgl64.Vec2{{-100, 50}, {100, 50}},
		}},
	})
	box := s.CreateBody(BodyDef{
		Kind:      Dynamic,
		Pose:      Pose{Pos: mgl32.Vec2{0, 0}},
		Density:   1,
		Colliders: []Collider{{Ring: squareRing(2), Decompose: true}},
	})

	for i := 0; i < 600; i++ {
		s.Step(1.0 / 60.0)
	}

	pose, vel, ok := s.BodyState(box)
	if !ok {
		t.Fatal("box handle went stale")
	}
	if pose.Pos.Y() < 10 {
		t.Fatalf("box did not fall, y = %v", pose.Pos.Y())
	}
	if pose.Pos.Y() > 50 {
		t.Fatalf("box fell through the floor, y = %v", pose.Pos.Y())
	}
	if v := vel.Linear.Len(); v > 5 {
		t.Fatalf("box should be near rest, |v| = %v", v)
	}
	if _, _, ok := s.BodyState(floor); !ok {
		t.Fatal("floor handle went stale")
	}
}

func TestContactsReported(t *testing.T) {
	s := NewSpace(mgl32.Vec2{0, 100})
	s.CreateBody(BodyDef{
		Kind:      Static,
		Colliders: []Collider{{Ring: []mgl64.Vec2{{-100, 10}, {100, 10}}}},
	})
	box := s.CreateBody(BodyDef{
		Kind:      Dynamic,
		Pose:      Pose{Pos: mgl32.Vec2{0, 0}},
		Density:   1,
		Colliders: []Collider{{Ring: squareRing(2), Decompose: true}},
	})

	seen := false
	for i := 0; i < 300 && !seen; i++ {
		for _, c := range s.Step(1.0 / 60.0) {
			if c.A == box || c.B == box {
				seen = true
			}
		}
	}
	if !seen {
		t.Fatal("no contact reported for a box landing on the floor")
	}
}

func TestRemoveBodyStalesHandle(t *testing.T) {
	s := NewSpace(mgl32.Vec2{0, 100})
	h := s.CreateBody(BodyDef{
		Kind:      Dynamic,
		Density:   1,
		Colliders: []Collider{{Ring: squareRing(1), Decompose: true}},
	})
	s.RemoveBody(h)
	if _, _, ok := s.BodyState(h); ok {
		t.Fatal("removed body should not resolve")
	}

	// The slot is recycled but the old handle must stay stale.
	h2 := s.CreateBody(BodyDef{
		Kind:      Dynamic,
		Density:   1,
		Colliders: []Collider{{Ring: squareRing(1), Decompose: true}},
	})
	if h2.Index != h.Index {
		t.Fatalf("expected slot reuse, got %v then %v", h, h2)
	}
	if h2.Gen == h.Gen {
		t.Fatal("recycled slot should advance its generation")
	}
	if _, _, ok := s.BodyState(h); ok {
		t.Fatal("stale handle resolved after slot reuse")
	}
}

func TestSensorDoesNotBlock(t *testing.T) {
	s := NewSpace(mgl32.Vec2{0, 100})
	s.CreateBody(BodyDef{
		Kind:      Sensor,
		Colliders: []Collider{{Ring: []mgl64.Vec2{{-100, 20}, {100, 20}}}},
	})
	box := s.CreateBody(BodyDef{
		Kind:      Dynamic,
		Pose:      Pose{Pos: mgl32.Vec2{0, 0}},
		Density:   1,
		Colliders: []Collider{{Ring: squareRing(1), Decompose: true}},
	})
	for i := 0; i < 300; i++ {
		s.Step(1.0 / 60.0)
	}
	pose, _, _ := s.BodyState(box)
	if pose.Pos.Y() < 30 {
		t.Fatalf("sensor should not stop the box, y = %v", pose.Pos.Y())
	}
}
