// Package physics is the rigid-body collaborator of the cell world. The
// simulation hands it boundary colliders and pixel-object bodies and reads
// poses back after each step; the engine behind the interface is swappable.
package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Kind selects how a body participates in the simulation.
type Kind int

const (
	// Dynamic bodies move under gravity and collisions.
	Dynamic Kind = iota
	// Static bodies never move; terrain boundaries use them.
	Static
	// Sensor bodies report overlaps without colliding; powder and liquid
	// boundaries use them.
	Sensor
)

// Handle identifies a body. Handles are generation checked: a handle kept
// across RemoveBody goes stale instead of aliasing a recycled slot.
type Handle struct {
	Index int
	Gen   uint32
}

// NoBody is the zero-value handle of no body.
var NoBody = Handle{Index: -1}

// Valid reports whether the handle ever pointed at a body.
func (h Handle) Valid() bool { return h.Index >= 0 }

// Pose is a body's position and rotation in world units.
type Pose struct {
	Pos   mgl32.Vec2
	Angle float32
}

// Velocity is a body's linear and angular velocity.
type Velocity struct {
	Linear  mgl32.Vec2
	Angular float32
}

// Collider is one boundary ring of a body, in body-local world units. When
// Decompose is set the ring is triangulated into convex solid shapes;
// otherwise it becomes a chain of segments (a hollow outline, the shape
// terrain boundaries want).
type Collider struct {
	Ring      []mgl64.Vec2
	Decompose bool
}

// BodyDef describes a body to create.
type BodyDef struct {
	Kind      Kind
	Pose      Pose
	Velocity  Velocity
	Density   float64
	Colliders []Collider
}

// Contact is one pair of bodies that touched or overlapped during a step.
type Contact struct {
	A Handle
	B Handle
}

// Engine steps rigid bodies. Implementations are not safe for concurrent
// use; the world calls them from its step goroutine only.
type Engine interface {
	// CreateBody adds a body and returns its handle.
	CreateBody(def BodyDef) Handle
	// RemoveBody destroys a body. Stale handles are ignored.
	RemoveBody(h Handle)
	// BodyState returns the current pose and velocity. ok is false for
	// stale handles.
	BodyState(h Handle) (Pose, Velocity, bool)
	// Step advances the simulation by dt seconds and returns the contacts
	// seen during the step.
	Step(dt float64) []Contact
}
