// Package renderer is a raylib window that shows the arena. It only reads
// snapshots from the world and never mutates simulation state.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/nevo/camera"
	"github.com/pthm-cable/nevo/components"
	"github.com/pthm-cable/nevo/game"
	"github.com/pthm-cable/nevo/ui"
)

// Easing is the fraction of the remaining distance a drawn entity covers per frame.
const Easing = 0.35

// minRadius keeps zero-size plants visible.
const minRadius = 1.5

// KindColor returns the draw color for an entity kind.
func KindColor(k components.Kind) rl.Color {
	switch k {
	case components.KindPlant:
		return rl.NewColor(72, 190, 88, 255)
	case components.KindAnimal:
		return rl.NewColor(235, 140, 52, 255)
	default:
		return rl.Gray
	}
}

// Viewer draws the most recent snapshot. Drawn positions ease toward the
// snapshot positions so movement stays smooth between ticks.
type Viewer struct {
	world *game.World
	sched *game.Scheduler
	ticks <-chan uint64

	cam *camera.Camera
	hud *ui.HUD

	snap  game.Snapshot
	drawn map[components.EntityID]r2.Vec
}

// NewViewer creates a viewer for w. ticks carries tick notifications from the
// scheduler; a redraw of new state happens only after one arrives.
func NewViewer(w *game.World, sched *game.Scheduler, ticks <-chan uint64, cam *camera.Camera) *Viewer {
	v := &Viewer{
		world: w,
		sched: sched,
		ticks: ticks,
		cam:   cam,
		hud:   ui.NewHUD(10, 10),
		drawn: make(map[components.EntityID]r2.Vec),
	}
	v.Apply(w.Synchronize())
	return v
}

// Run draws frames until the window is closed or the stop button is pressed.
func (v *Viewer) Run() {
	for !rl.WindowShouldClose() {
		v.Update()
		if v.Draw() {
			v.sched.Stop()
		}
	}
}

// Update takes a new snapshot if at least one tick completed since the last frame.
func (v *Viewer) Update() {
	v.cam.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))

	ticked := false
drain:
	for {
		select {
		case <-v.ticks:
			ticked = true
		default:
			break drain
		}
	}
	if ticked {
		v.Apply(v.world.Synchronize())
	}
	v.Ease(Easing)
}

// Apply replaces the current snapshot, dropping draw state for removed
// entities and placing new ones at their true position.
func (v *Viewer) Apply(snap game.Snapshot) {
	for _, id := range snap.Removed(v.snap) {
		delete(v.drawn, id)
	}
	for id, e := range snap.Entities {
		if _, ok := v.drawn[id]; !ok {
			v.drawn[id] = e.Position
		}
	}
	v.snap = snap
}

// Ease moves every drawn position a fraction k toward its snapshot position.
func (v *Viewer) Ease(k float64) {
	for id, e := range v.snap.Entities {
		cur := v.drawn[id]
		v.drawn[id] = r2.Add(cur, r2.Scale(k, r2.Sub(e.Position, cur)))
	}
}

// Draw renders one frame and reports whether the stop button was pressed.
func (v *Viewer) Draw() bool {
	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(rl.NewColor(18, 22, 28, 255))

	x, y, w, h := v.cam.ArenaRect()
	rl.DrawRectangleLines(int32(x), int32(y), int32(w), int32(h), rl.DarkGray)

	// Plants first so animals stay on top
	for _, kind := range []components.Kind{components.KindPlant, components.KindAnimal} {
		color := KindColor(kind)
		for id, e := range v.snap.Entities {
			if e.Kind != kind {
				continue
			}
			sx, sy := v.cam.WorldToScreen(v.drawn[id])
			rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, max(v.cam.Radius(e.Size), minRadius), color)
		}
	}

	data := ui.HUDData{
		Title:         "nevo",
		Tick:          v.snap.Stats.Tick,
		TickDuration:  v.snap.Stats.TickDuration,
		Plants:        v.snap.PlantCount,
		Animals:       v.snap.AnimalCount,
		MaxAge:        v.snap.Stats.MaxAge,
		MaxGeneration: v.snap.Stats.MaxGeneration,
		FPS:           rl.GetFPS(),
		State:         v.sched.State().String(),
	}
	v.hud.Draw(data)
	return v.sched.State() == game.StateRunning && v.hud.StopButton(len(data.Lines()))
}

// Drawn returns the eased position of an entity and whether it is tracked.
func (v *Viewer) Drawn(id components.EntityID) (r2.Vec, bool) {
	p, ok := v.drawn[id]
	return p, ok
}
