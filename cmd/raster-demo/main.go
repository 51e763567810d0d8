// raster-demo is a terminal viewer for the tile-parallel software
// rasterizer in pkg/render. It loads a glTF/GLB model, spins it up in the
// renderer, and blits the finished framebuffer to the terminal every frame
// via half-block cells — the external collaborator the core's present()
// hook expects, not part of the rendering pipeline itself.
//
// Controls:
//
//	Mouse drag  - Rotate the camera (yaw/pitch)
//	Scroll      - Zoom in/out
//	W/A/S/D     - Strafe the camera
//	Space/Shift+Space - Rise/fall
//	1..5        - Switch shading mode (Phong/Gouraud/Flat/Cel/Unlit)
//	G           - Toggle the debug overlay (world axes + mesh bounding box)
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/rastertile/pkg/math3d"
	"github.com/taigrr/rastertile/pkg/render"
	"github.com/taigrr/rastertile/pkg/scene"
)

var (
	texturePath = flag.String("texture", "", "Path to a texture image, overriding any embedded glTF texture")
	targetFPS   = flag.Int("fps", 60, "Target frames per second")
	bgColor     = flag.String("bg", "30,30,40", "Background color as R,G,B")
	tileSize    = flag.Int("tile-size", 64, "Rasterizer tile edge length in pixels")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "raster-demo - terminal viewer for the tile-parallel rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: raster-demo [options] <model.glb>\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// dragAxis tracks an angle plus a velocity that decays toward zero through
// a critically-damped spring, so a mouse-drag release coasts to a stop
// instead of snapping.
type dragAxis struct {
	Angle    float64
	Velocity float64

	spring harmonica.Spring
	accel  float64
}

func newDragAxis(fps int) dragAxis {
	return dragAxis{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

func (a *dragAxis) update() {
	a.Angle += a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
}

// loadResult bundles the outcome of the concurrent mesh+texture load.
type loadResult struct {
	mesh    *scene.Mesh
	texture *render.Texture
}

func loadSceneConcurrently(modelPath, texOverride string) (*loadResult, error) {
	var g errgroup.Group
	var mesh *scene.Mesh
	var embedded *render.Texture
	var override *render.Texture

	g.Go(func() error {
		m, img, err := scene.LoadGLBWithTexture(modelPath)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		mesh = m
		if img != nil {
			embedded = render.TextureFromImage(img)
		}
		return nil
	})

	if texOverride != "" {
		g.Go(func() error {
			tex, err := render.LoadTexture(texOverride)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not load texture: %v\n", err)
				return nil
			}
			override = tex
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	tex := override
	if tex == nil {
		tex = embedded
	}
	if tex == nil {
		tex = render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
	}

	return &loadResult{mesh: mesh, texture: tex}, nil
}

func run(modelPath string) error {
	var bgR, bgG, bgB uint8 = 30, 30, 40
	fmt.Sscanf(*bgColor, "%d,%d,%d", &bgR, &bgG, &bgB)

	loaded, err := loadSceneConcurrently(modelPath, *texturePath)
	if err != nil {
		return err
	}
	mesh := loaded.mesh
	mesh.CalculateBounds()
	fmt.Printf("Loaded: %s (%d vertices, %d triangles)\n", filepath.Base(modelPath), mesh.VertexCount(), mesh.TriangleCount())

	obj := render.NewObject(mesh)
	obj.Texture = loaded.texture

	center := mesh.Center()
	size := mesh.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	fitScale := 1.0
	if maxDim > 0 {
		fitScale = 2.0 / maxDim
	}
	obj.Transform.Scale = math3d.V3(fitScale, fitScale, fitScale)
	obj.Transform.Position = center.Scale(-fitScale)

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fb := render.NewFramebuffer(width, height*2)
	camera := render.NewCamera()
	camera.Aspect = float64(fb.Height) / float64(fb.Width)
	camera.Position = math3d.V3(0, 0, -5)

	renderer := render.NewRenderer(camera, fb)
	defer renderer.Close()
	renderer.SetTileSize(*tileSize)

	yaw := newDragAxis(*targetFPS)
	pitch := newDragAxis(*targetFPS)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	var mouseDown bool
	var lastMouseX, lastMouseY int
	var showDebugOverlay bool
	strafe := struct{ right, up, forward float64 }{}
	const strafeSpeed = 3.0
	const zoomStep = 0.5
	const debugAxisLength = 1.5

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				fb = render.NewFramebuffer(width, height*2)
				renderer = render.NewRenderer(camera, fb)
				renderer.SetTileSize(*tileSize)
				camera.Aspect = float64(fb.Height) / float64(fb.Width)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("w"):
					strafe.forward = strafeSpeed
				case ev.MatchString("s"):
					strafe.forward = -strafeSpeed
				case ev.MatchString("a"):
					strafe.right = -strafeSpeed
				case ev.MatchString("d"):
					strafe.right = strafeSpeed
				case ev.MatchString("space"):
					strafe.up = strafeSpeed
				case ev.MatchString("shift+space"):
					strafe.up = -strafeSpeed
				case ev.MatchString("1"):
					renderer.SetShadingMode(render.ShadingPhong)
				case ev.MatchString("2"):
					renderer.SetShadingMode(render.ShadingGouraud)
				case ev.MatchString("3"):
					renderer.SetShadingMode(render.ShadingFlat)
				case ev.MatchString("4"):
					renderer.SetShadingMode(render.ShadingCel)
				case ev.MatchString("5"):
					renderer.SetShadingMode(render.ShadingUnlit)
				case ev.MatchString("g"):
					showDebugOverlay = !showDebugOverlay
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w"), ev.MatchString("s"):
					strafe.forward = 0
				case ev.MatchString("a"), ev.MatchString("d"):
					strafe.right = 0
				case ev.MatchString("space"), ev.MatchString("shift+space"):
					strafe.up = 0
				}

			case uv.MouseClickEvent:
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					yaw.Velocity += float64(dx) * 0.01
					pitch.Velocity += float64(dy) * 0.01
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					camera.MoveLocal(0, 0, zoomStep)
				case uv.MouseWheelDown:
					camera.MoveLocal(0, 0, -zoomStep)
				}
			}
		}
	}()

	targetDuration := time.Second / time.Duration(*targetFPS)
	lastFrame := time.Now()

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		if dt > 0.1 {
			dt = 0.1
		}
		lastFrame = now

		yaw.update()
		pitch.update()
		camera.SetYawPitch(yaw.Angle, pitch.Angle)
		camera.MoveLocal(strafe.right*dt, strafe.up*dt, strafe.forward*dt)

		renderer.Clear(render.RGB(bgR, bgG, bgB))
		renderer.DrawMesh(obj)

		if showDebugOverlay {
			wf := render.NewWireframe(camera, fb)
			wf.DrawAxes(debugAxisLength)
			worldBounds := render.AABB{Min: mesh.BoundsMin, Max: mesh.BoundsMax}.Transform(obj.Transform.WorldMatrix())
			wf.DrawAABB(worldBounds, render.ColorWhite)
		}

		scr := term.NewScreen()
		fb.Draw(scr, uv.Rect(0, 0, width, height))
		if err := term.Display(scr); err != nil {
			cleanup()
			return fmt.Errorf("display: %w", err)
		}

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
