// Package impedance applies per-leg vertical virtual spring/damper
// compliance on top of the gait/pose target (spec.md §4.4
// ImpedanceController).
package impedance

import (
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/gait"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/model"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/pid"
)

// Controller owns one SecondOrderFilter per leg and drives each leg's
// DeltaZ/VirtualStiffness from measured tip force.
type Controller struct {
	ForceOffset float32
	MaxTipForce float32

	filters map[int]*pid.SecondOrderFilter

	baseMass         float32
	baseStiffness    float32
	baseDampingRatio float32
	baseForceGain    float32
}

// NewController builds a Controller with one filter per leg in m, all
// seeded with the same base gains (spec.md §4.4; per-leg stiffness can
// subsequently be scaled via UpdateStiffness).
func NewController(m *model.Model, mass, stiffness, dampingRatio, forceGain, stepTime, forceOffset, maxTipForce float32) *Controller {
	c := &Controller{
		ForceOffset:      forceOffset,
		MaxTipForce:      maxTipForce,
		filters:          make(map[int]*pid.SecondOrderFilter, len(m.Legs)),
		baseMass:         mass,
		baseStiffness:    stiffness,
		baseDampingRatio: dampingRatio,
		baseForceGain:    forceGain,
	}
	m.ForEachLeg(func(l *model.Leg) {
		c.filters[l.ID] = &pid.SecondOrderFilter{
			Mass: mass, Stiffness: stiffness, DampingRatio: dampingRatio,
			ForceGain: forceGain, StepTime: stepTime,
		}
		l.VirtualStiffness = stiffness
	})
	return c
}

// Reinitialize resets every leg's filter state, used after a parameter
// change affecting virtual_mass/virtual_stiffness/virtual_damping_ratio/
// force_gain (spec.md §4.1.1 step 2).
func (c *Controller) Reinitialize(mass, stiffness, dampingRatio, forceGain float32) {
	c.baseMass, c.baseStiffness, c.baseDampingRatio, c.baseForceGain = mass, stiffness, dampingRatio, forceGain
	for _, f := range c.filters {
		f.Mass, f.Stiffness, f.DampingRatio, f.ForceGain = mass, stiffness, dampingRatio, forceGain
		f.Reset()
	}
}

// stiffnessScaleFor derates a swinging leg's effective stiffness so a foot
// lifted off the ground does not integrate spurious deflection from sensor
// noise (spec.md §4.4).
func stiffnessScaleFor(l *model.Leg) float32 {
	switch l.Stepper.Phase.State() {
	case gait.Swing:
		return 0.1
	default:
		return 1.0
	}
}

// Update steps every WALKING leg's impedance filter by dt using its current
// TipForce, writes the resulting DeltaZ and VirtualStiffness back onto the
// Leg, and composes it into CurrentTipPose (spec.md §4.4: impedance applies
// after pose compensation, before IK). Legs not in LegWalking state (manual
// or mid-transition) get DeltaZ=0 and are excluded from the IK offset, so
// the IK input tip for those legs equals the posed tip unmodified.
func (c *Controller) Update(m *model.Model, dt float32) {
	m.ForEachLeg(func(l *model.Leg) {
		f, ok := c.filters[l.ID]
		if !ok {
			return
		}
		if l.State != model.LegWalking {
			l.DeltaZ = 0
			return
		}

		scale := stiffnessScaleFor(l)
		f.Stiffness = c.baseStiffness * scale
		l.VirtualStiffness = f.Stiffness

		force := l.TipForce - c.ForceOffset
		if c.MaxTipForce > 0 {
			if force > c.MaxTipForce {
				force = c.MaxTipForce
			}
			if force < -c.MaxTipForce {
				force = -c.MaxTipForce
			}
		}

		deltaZ := f.Step(force, dt)
		l.DeltaZ = deltaZ
		l.CurrentTipPose[2] += deltaZ
	})
}
