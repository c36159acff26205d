// Command hexapod runs the locomotion control tick loop: it loads a
// parameter set, wires the walk/pose/impedance pipeline around a Model, and
// drives StateController.Tick off a fixed-period ticker until signaled to
// stop.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/adapters"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/config"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/gait"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/impedance"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/logging"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/model"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/pid"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/pose"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/state"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/walk"
)

func main() {
	configPath := flag.String("config", "", "path to a parameter set YAML file (uses built-in defaults if empty)")
	flag.Parse()

	ps := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logging.Fatal("failed to load config", map[string]interface{}{"path": *configPath, "error": err.Error()})
			os.Exit(1)
		}
		ps = loaded
	}

	startGait, ok := gaitByName(ps.GaitType)
	if !ok {
		logging.Warn("unrecognized gait_type, defaulting to tripod_gait", map[string]interface{}{"gait_type": ps.GaitType})
		startGait = gait.Library[gait.Tripod]
	}

	m := model.New(ps, startGait)
	w := walk.NewController(startGait, ps.StepFrequency.CurrentValue, ps.StepClearance.CurrentValue, ps.MaxLinearSpeed, ps.MaxAngularSpeed, ps.MaxAcceleration)
	p := pose.NewController(
		pid.Gains{Absement: ps.PitchPID.X(), Position: ps.PitchPID.Y(), Velocity: ps.PitchPID.Z()},
		pid.Gains{Absement: ps.ZPID.X(), Position: ps.ZPID.Y(), Velocity: ps.ZPID.Z()},
		1.0,
	)
	imp := impedance.NewController(m, ps.VirtualMass.CurrentValue, ps.VirtualStiffness.CurrentValue, ps.VirtualDampingRatio.CurrentValue, ps.ForceGain.CurrentValue, ps.IntegratorStepTime, ps.ForceOffset, ps.MaxTipForce)

	input := adapters.NewInProcessInput()
	sensors := adapters.NewInProcessSensors()

	controller := state.New(m, w, p, imp, ps, input, sensors, adapters.NullActuatorSink{}, adapters.NullTelemetrySink{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("hexapod controller starting")
	runTickLoop(ctx, controller, ps.TimeDelta)
	logging.Info("hexapod controller stopped")
}

func runTickLoop(ctx context.Context, controller *state.Controller, timeDelta float32) {
	period := time.Duration(timeDelta * float32(time.Second))
	if period <= 0 {
		period = 20 * time.Millisecond
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			controller.Tick(timeDelta)
		}
	}
}

func gaitByName(name string) (gait.Gait, bool) {
	for _, t := range []gait.Type{gait.Tripod, gait.Wave, gait.Ripple, gait.Amble} {
		if t.String() == name {
			return gait.Lookup(t)
		}
	}
	return gait.Gait{}, false
}
