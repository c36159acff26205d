package adapters

import "sync/atomic"

// slot is a single-writer/single-reader mailbox: the latest value plus a
// dirty flag, swapped atomically so the tick goroutine never blocks on (or
// shares a lock with) whatever goroutine is feeding operator input
// (spec.md §5 concurrency model).
type slot[T any] struct {
	value atomic.Pointer[T]
	dirty atomic.Bool
}

func (s *slot[T]) set(v T) {
	s.value.Store(&v)
	s.dirty.Store(true)
}

func (s *slot[T]) get() (T, bool) {
	if !s.dirty.CompareAndSwap(true, false) {
		var zero T
		if p := s.value.Load(); p != nil {
			return *p, false
		}
		return zero, false
	}
	return *s.value.Load(), true
}

// InProcessInput is a minimal InputSource for single-process use (tests,
// cmd/hexapod's built-in CLI, simulation harnesses): every Set* method is
// safe to call from any goroutine, and the tick loop drains each slot at
// most once per tick.
type InProcessInput struct {
	velocity       slot[VelocityCommand]
	pose           slot[PoseCommand]
	systemState    slot[SystemStateCommand]
	gait           slot[GaitSelection]
	posingMode     slot[PosingModeCommand]
	cruiseControl  slot[CruiseControlCommand]
	parameter      slot[ParameterCommand]
	legStateToggle slot[LegStateToggleCommand]
	legManual      slot[LegManualCommand]
	poseReset      slot[PoseResetCommand]
}

func NewInProcessInput() *InProcessInput { return &InProcessInput{} }

func (s *InProcessInput) SetVelocity(c VelocityCommand)             { s.velocity.set(c) }
func (s *InProcessInput) SetPose(c PoseCommand)                     { s.pose.set(c) }
func (s *InProcessInput) SetSystemState(c SystemStateCommand)       { s.systemState.set(c) }
func (s *InProcessInput) SetGait(c GaitSelection)                   { s.gait.set(c) }
func (s *InProcessInput) SetPosingMode(c PosingModeCommand)         { s.posingMode.set(c) }
func (s *InProcessInput) SetCruiseControl(c CruiseControlCommand)   { s.cruiseControl.set(c) }
func (s *InProcessInput) SetParameter(c ParameterCommand)           { s.parameter.set(c) }
func (s *InProcessInput) SetLegStateToggle(c LegStateToggleCommand) { s.legStateToggle.set(c) }
func (s *InProcessInput) SetLegManual(c LegManualCommand)           { s.legManual.set(c) }
func (s *InProcessInput) SetPoseReset(c PoseResetCommand)           { s.poseReset.set(c) }

func (s *InProcessInput) Velocity() (VelocityCommand, bool)             { return s.velocity.get() }
func (s *InProcessInput) Pose() (PoseCommand, bool)                     { return s.pose.get() }
func (s *InProcessInput) SystemState() (SystemStateCommand, bool)       { return s.systemState.get() }
func (s *InProcessInput) Gait() (GaitSelection, bool)                   { return s.gait.get() }
func (s *InProcessInput) PosingMode() (PosingModeCommand, bool)         { return s.posingMode.get() }
func (s *InProcessInput) CruiseControl() (CruiseControlCommand, bool)   { return s.cruiseControl.get() }
func (s *InProcessInput) Parameter() (ParameterCommand, bool)           { return s.parameter.get() }
func (s *InProcessInput) LegStateToggle() (LegStateToggleCommand, bool) { return s.legStateToggle.get() }
func (s *InProcessInput) LegManual() (LegManualCommand, bool)           { return s.legManual.get() }
func (s *InProcessInput) PoseReset() (PoseResetCommand, bool)           { return s.poseReset.get() }

// InProcessSensors is a minimal SensorSource backed by atomics, fed by a
// simulator or hardware-polling goroutine.
type InProcessSensors struct {
	imu       slot[IMUSample]
	jointsPtr atomic.Pointer[[]JointReport]
	forcesPtr atomic.Pointer[[]TipForceReport]
}

func NewInProcessSensors() *InProcessSensors { return &InProcessSensors{} }

func (s *InProcessSensors) SetIMU(v IMUSample)              { s.imu.set(v) }
func (s *InProcessSensors) SetJoints(v []JointReport)       { s.jointsPtr.Store(&v) }
func (s *InProcessSensors) SetTipForces(v []TipForceReport) { s.forcesPtr.Store(&v) }

func (s *InProcessSensors) IMU() (IMUSample, bool) { return s.imu.get() }

func (s *InProcessSensors) Joints() []JointReport {
	if p := s.jointsPtr.Load(); p != nil {
		return *p
	}
	return nil
}

func (s *InProcessSensors) TipForces() []TipForceReport {
	if p := s.forcesPtr.Load(); p != nil {
		return *p
	}
	return nil
}

// NullActuatorSink discards joint targets; useful for dry-run/testing.
type NullActuatorSink struct{}

func (NullActuatorSink) SetJointTarget(legID int, jointName string, position float32) {}
func (NullActuatorSink) Flush() error                                                 { return nil }

// NullTelemetrySink discards telemetry.
type NullTelemetrySink struct{}

func (NullTelemetrySink) ReportState(SystemState)        {}
func (NullTelemetrySink) ReportLegState(int, bool)        {}
func (NullTelemetrySink) ReportFault(string)              {}
