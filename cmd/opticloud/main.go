package main

import (
	"context"
	"flag"
	"log"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/loov/hrtime"
	"github.com/vulkan-go/glfw/v3.3/glfw"
	"github.com/vulkan-go/vulkan"
	"github.com/xlab/closer"

	"opticloud/src/camera"
	"opticloud/src/render"
	"opticloud/src/renderer"
)

func init() {
	// glfw and the vulkan queues are driven from the main thread only
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	shaderDir := flag.String("shaders", "", "directory of compiled SPIR-V shaders, overrides the configuration")
	validation := flag.Bool("validation", false, "enable the Khronos validation layer")
	points := flag.Int("points", -1, "number of points in the progressive cloud, overrides the configuration")
	flag.Parse()

	cfg, err := renderer.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("opticloud: %+v", err)
	}
	if *shaderDir != "" {
		cfg.ShaderDir = *shaderDir
	}
	if *validation {
		cfg.Validation = true
	}
	if *points >= 0 {
		cfg.PointCount = *points
	}

	exitC := make(chan struct{}, 1)
	doneC := make(chan struct{})
	closer.Bind(func() {
		exitC <- struct{}{}
		<-doneC
		log.Println("opticloud: bye")
	})

	err = run(cfg, exitC)
	close(doneC)
	if err != nil {
		log.Printf("opticloud: %+v", err)
		closer.Exit(1)
	}
	closer.Close()
}

func newCamera(width, height uint32) *camera.Camera {
	cam := camera.New()
	cam.SetPerspective(45, float32(width)/float32(height), 0.1, 1000)
	cam.SetPosition(mgl32.Vec3{0, 0, -150})
	cam.SetRotation(mgl32.Vec3{60, 0, 0})
	return cam
}

func run(cfg renderer.Config, exitC <-chan struct{}) (err error) {
	defer render.CheckError(&err)

	render.OrPanic(glfw.Init())
	defer glfw.Terminate()
	vulkan.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	render.OrPanic(vulkan.Init())

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(int(cfg.Width), int(cfg.Height), cfg.Title, nil, nil)
	render.OrPanic(err)
	defer window.Destroy()

	instance, err := render.NewInstance(cfg.Title, window.GetRequiredInstanceExtensions(), cfg.Validation)
	render.OrPanic(err)
	surfacePtr, err := window.CreateWindowSurface(instance, nil)
	render.OrPanic(err, func() { vulkan.DestroyInstance(instance, nil) })
	surface := vulkan.SurfaceFromPointer(surfacePtr)

	device, err := render.NewContext(instance, surface)
	render.OrPanic(err, func() {
		vulkan.DestroySurface(instance, surface, nil)
		vulkan.DestroyInstance(instance, nil)
	})
	defer device.Destroy()

	cam := newCamera(cfg.Width, cfg.Height)
	start := hrtime.Now()
	r, err := renderer.NewRenderer(context.Background(), device, cfg, cam)
	render.OrPanic(err)
	defer r.Destroy()
	log.Printf("opticloud: scene ready in %v", hrtime.Since(start))

	in := newInput(r, cam, cfg)
	in.attach(window)

	timer := newFrameTimer()
	for !window.ShouldClose() {
		select {
		case <-exitC:
			return nil
		default:
		}
		glfw.PollEvents()
		if !waitWhileMinimized(window, exitC) {
			return nil
		}
		render.OrPanic(in.err)
		render.OrPanic(r.DrawNextFrame())
		timer.tick(r.OptiCloud().Cursor())
	}
	return nil
}

// waitWhileMinimized blocks on window events while the framebuffer has no
// area. It reports false when the session should end instead.
func waitWhileMinimized(window *glfw.Window, exitC <-chan struct{}) bool {
	for {
		if w, h := window.GetFramebufferSize(); w > 0 && h > 0 {
			return true
		}
		if window.ShouldClose() {
			return false
		}
		select {
		case <-exitC:
			return false
		default:
		}
		// bounded so a shutdown signal is noticed without a window event
		glfw.WaitEventsTimeout(0.1)
	}
}

// frameTimer logs the frame rate and the progress of the cloud once a second.
type frameTimer struct {
	frames int
	last   time.Duration
}

func newFrameTimer() *frameTimer {
	return &frameTimer{last: hrtime.Now()}
}

type progress interface {
	Offset() uint32
	Total() uint32
}

func (t *frameTimer) tick(p progress) {
	t.frames++
	now := hrtime.Now()
	elapsed := now - t.last
	if elapsed < time.Second {
		return
	}
	log.Printf("opticloud: %.1f fps, %d/%d points drawn",
		float64(t.frames)/elapsed.Seconds(), p.Offset(), p.Total())
	t.frames, t.last = 0, now
}
