// Command mlsmpm-demo is a thin external collaborator exercising the
// Simulator's public API: it owns the window, the GPU device, and the
// render loop, none of which are part of the simulator core.
package main

import (
	"flag"
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/mlsmpm/sim/gpu"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	maxParticles := flag.Uint("particles", 65536, "maximum particle count")
	gridSize := flag.Uint("grid", 64, "background grid size (cells per axis)")
	debug := flag.Bool("debug", false, "enable verbose simulator logging")
	flag.Parse()

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(1280, 720, "mlsmpm demo", nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	device, err := createDevice(window)
	if err != nil {
		panic(err)
	}

	logger := gpu.NewDefaultLogger("mlsmpm", *debug)
	sim, err := gpu.Init(device, gpu.Config{
		MaxParticles: uint32(*maxParticles),
		GridSize:     uint32(*gridSize),
		Logger:       logger,
	})
	if err != nil {
		panic(err)
	}
	defer sim.Release()

	sim.SetParameters(gpu.DefaultParameters())

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeySpace && action == glfw.Press {
			now := glfw.GetTime() * 1000
			res, err := sim.ApplyImpulse(64, 127, 400, now)
			if err != nil {
				logger.Warnf("apply impulse failed: %v", err)
				return
			}
			logger.Infof("impulse -> slot %d at %.1f,%.1f,%.1f", res.Slot, res.Pos.X(), res.Pos.Y(), res.Pos.Z())
		}
		if key == glfw.KeyR && action == glfw.Press {
			if err := sim.Reset(); err != nil {
				logger.Errorf("reset failed: %v", err)
			}
		}
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	last := glfw.GetTime()
	for !window.ShouldClose() {
		glfw.PollEvents()

		now := glfw.GetTime()
		dt := now - last
		last = now

		if err := sim.Step(dt, now*1000); err != nil {
			logger.Errorf("step failed: %v", err)
			break
		}
	}

	fmt.Println("mlsmpm demo exiting")
}

// createDevice brings up a WebGPU instance/adapter/device bound to the
// window's surface, the same sequence app.go's App.Init runs before
// touching any renderer-specific pipeline.
func createDevice(window *glfw.Window) (*wgpu.Device, error) {
	instance := wgpu.CreateInstance(nil)
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	return device, nil
}
