package model

import (
	"sort"

	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/config"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/gait"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/geom"
)

// Model owns every leg plus the body's current estimated pose, and is the
// single piece of mutable state the tick loop threads through
// StateController -> WalkController -> PoseController -> ImpedanceController
// -> IK (spec.md §2/§5).
type Model struct {
	Legs        map[int]*Leg
	legOrder    []int // stable iteration order, fixed at construction
	CurrentPose geom.Pose
}

// New builds a Model from a parameter set's leg geometries and the named
// starting gait, in leg-index order (0..N-1), so iteration order is
// deterministic regardless of map implementation (spec.md §5: the tick
// loop's per-leg work must be order-independent of Go's map iteration, so
// Model is the only place map order is decided, once, at construction).
func New(ps *config.ParameterSet, startGait gait.Gait) *Model {
	m := &Model{Legs: make(map[int]*Leg)}
	for i := range ps.Legs {
		lg := ps.Legs[i]
		leg := NewLeg(i, legName(i), lg.ToKinematics(), startGait, lg.StanceOffset)
		m.Legs[i] = leg
		m.legOrder = append(m.legOrder, i)
	}
	sort.Ints(m.legOrder)
	m.CurrentPose = geom.IdentityPose
	return m
}

// LegOrder returns the fixed, deterministic leg iteration order.
func (m *Model) LegOrder() []int {
	return m.legOrder
}

// ForEachLeg calls fn for every leg in LegOrder, the form every pipeline
// stage (walk/pose/impedance/IK) uses to avoid relying on map order.
func (m *Model) ForEachLeg(fn func(*Leg)) {
	for _, id := range m.legOrder {
		fn(m.Legs[id])
	}
}

// AllLegsAtStanceStart reports whether every leg's stepper sits at phase 0
// of stance, the condition the walk controller uses to confirm a full stop
// (spec.md §4.2 Stopping / §8 scenario 2).
func (m *Model) AllLegsAtStanceStart() bool {
	for _, id := range m.legOrder {
		if !m.Legs[id].Stepper.Phase.AtStanceStart() {
			return false
		}
	}
	return true
}

// ApplyIK runs inverse kinematics for every leg, collecting (rather than
// stopping on) the first error so one degenerate leg does not prevent the
// rest of the model from updating (spec.md §7).
func (m *Model) ApplyIK() []error {
	var errs []error
	m.ForEachLeg(func(l *Leg) {
		if err := l.ApplyIK(); err != nil {
			errs = append(errs, err)
		}
	})
	return errs
}

func legName(i int) string {
	names := []string{"AR", "BR", "CR", "CL", "BL", "AL"}
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return "leg"
}
