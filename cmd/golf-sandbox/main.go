package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/shacgolf/shac-golf/audio"
	"github.com/shacgolf/shac-golf/constant"
	"github.com/shacgolf/shac-golf/logger"
	"github.com/shacgolf/shac-golf/vmath"
)

const (
	frameMs    = 33
	moveStep   = 0.5
	turnStep   = 15.0
	pitchStep  = 10.0
	mapScale   = 2.0 // world units per map column
	hudRows    = 7
	messageTTL = 2 * time.Second
)

type Game struct {
	screen        tcell.Screen
	width, height int

	engine  *audio.Engine
	enabled bool

	targets []audio.Target
	stage   int
	source  *audio.Source
	swings  int
	yaw     float64
	pitch   float64

	message     string
	messageTime time.Time
}

func NewGame(engine *audio.Engine, stages int) (*Game, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	g := &Game{
		screen:  screen,
		engine:  engine,
		targets: generateTargets(stages),
	}
	g.width, g.height = screen.Size()

	// Non-fatal, the map and HUD still guide the player
	g.enabled = engine.Init()
	if !g.enabled {
		g.say("audio unavailable, playing with visual aids")
	}

	engine.OnComplete(func(*audio.Source) {
		screen.PostEvent(tcell.NewEventInterrupt(nil))
	})

	g.loadStage()
	return g, nil
}

// generateTargets scatters holes in a ring around the tee
func generateTargets(n int) []audio.Target {
	out := make([]audio.Target, n)
	for i := range out {
		angle := rand.Float64() * 2 * math.Pi
		dist := 6 + rand.Float64()*14
		out[i] = audio.Target{
			Position: vmath.Vec3F{
				X: math.Sin(angle) * dist,
				Y: rand.Float64()*4 - 2,
				Z: -math.Cos(angle) * dist,
			},
		}
	}
	return out
}

func (g *Game) loadStage() {
	g.engine.Stop()
	g.engine.StopRepeater()
	g.engine.ResetListener()
	g.yaw, g.pitch = 0, 0
	g.swings = 0
	g.source = g.engine.SourceForTarget(g.targets[g.stage], g.stage)
}

func (g *Game) say(msg string) {
	g.message = msg
	g.messageTime = time.Now()
}

func (g *Game) swing() {
	g.swings++
	g.engine.PlayClick()
	g.engine.PlayClip(g.source)
}

func (g *Game) putt() {
	in := g.engine.InHole()
	if !g.engine.IsPlaying() {
		// Nothing sounding; check against the target itself
		in = g.distance() <= g.engine.HoleRadius()
	}
	if !in {
		g.say(fmt.Sprintf("not in the hole (%.1f away)", g.distance()))
		return
	}
	g.say(fmt.Sprintf("hole %d in %d swings", g.stage+1, g.swings))
	g.engine.PlayUI(g.engine.Sound("tone_high"), constant.UIVolume)

	g.stage = (g.stage + 1) % len(g.targets)
	g.loadStage()
}

func (g *Game) distance() float64 {
	return vmath.V3FDist(g.source.Position(), g.engine.Listener().Position)
}

func (g *Game) toggleRepeater() {
	if g.engine.Repeater() != nil {
		g.engine.StopRepeater()
		g.say("time trial off")
		return
	}
	g.engine.StartRepeater(constant.RepeatSound, g.source.Position())
	g.say("time trial on")
}

func (g *Game) cyclePack() {
	packs := g.engine.Packs()
	active := g.engine.ActivePack()
	next := packs[0]
	for i, p := range packs {
		if p == active {
			next = packs[(i+1)%len(packs)]
		}
	}
	g.engine.SetActivePack(next)
	g.source = g.engine.SourceForTarget(g.targets[g.stage], g.stage)
	g.say("pack: " + next)
}

func (g *Game) move(dx, dy, dz float64) {
	// Moves are relative to facing on the ground plane
	rad := g.yaw * math.Pi / 180
	fx, fz := math.Sin(rad), -math.Cos(rad)
	rx, rz := -fz, fx
	delta := vmath.Vec3F{
		X: fx*dz + rx*dx,
		Y: dy,
		Z: fz*dz + rz*dx,
	}
	g.engine.MoveListener(delta)
}

func (g *Game) turn(dyaw, dpitch float64) {
	g.yaw = math.Mod(g.yaw+dyaw+360, 360)
	g.pitch = vmath.Clamp(g.pitch+dpitch, -80, 80)
	g.engine.SetListenerOrientation(g.yaw, g.pitch)
}

func (g *Game) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range text {
		if x+i >= g.width {
			return
		}
		g.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (g *Game) draw() {
	g.screen.Clear()

	listener := g.engine.Listener()
	target := g.source.Position()

	// Top-down map, listener centered, -Z up the screen
	mapH := g.height - hudRows
	cx, cy := g.width/2, mapH/2
	g.screen.SetContent(cx, cy, '@', nil, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))

	rel := vmath.V3FSub(target, listener.Position)
	tx := cx + int(math.Round(rel.X/mapScale*2)) // terminal cells are ~2:1
	ty := cy + int(math.Round(rel.Z/mapScale))
	if tx >= 0 && tx < g.width && ty >= 0 && ty < mapH {
		style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
		if g.engine.IsPlaying() {
			style = style.Reverse(true)
		}
		g.screen.SetContent(tx, ty, 'O', nil, style)
	}

	// Facing marker
	rad := g.yaw * math.Pi / 180
	fx := cx + int(math.Round(math.Sin(rad)*2))
	fy := cy + int(math.Round(-math.Cos(rad)))
	g.screen.SetContent(fx, fy, '·', nil, tcell.StyleDefault.Foreground(tcell.ColorGray))

	hud := g.height - hudRows
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	bright := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	audioState := "on"
	if !g.enabled {
		audioState = "off"
	}
	dist := g.engine.DistanceToCurrent()
	distText := "-"
	if !math.IsInf(dist, 1) {
		distText = fmt.Sprintf("%.2f", dist)
	}

	g.drawText(0, hud, bright, fmt.Sprintf("hole %d/%d  swings %d  audio %s  pack %s  %s",
		g.stage+1, len(g.targets), g.swings, audioState, g.engine.ActivePack(), g.engine.State()))
	g.drawText(0, hud+1, bright, fmt.Sprintf("distance %s (target %.2f)  bearing %.1f°  elevation %.1f°",
		distText, g.distance(), g.engine.AngleToSource(g.source), g.engine.ElevationToSource(g.source)))
	g.drawText(0, hud+2, bright, fmt.Sprintf("listener (%.1f, %.1f, %.1f)  yaw %.0f°  pitch %.0f°",
		listener.Position.X, listener.Position.Y, listener.Position.Z, g.yaw, g.pitch))
	if rp := g.engine.Repeater(); rp != nil {
		g.drawText(0, hud+3, bright, fmt.Sprintf("time trial: %d triggers, %d sounding", rp.Triggers(), rp.Active()))
	}
	if time.Since(g.messageTime) < messageTTL {
		g.drawText(0, hud+4, tcell.StyleDefault.Foreground(tcell.ColorAqua), g.message)
	}
	g.drawText(0, hud+5, dim, "arrows move  a/d turn  w/s pitch  pgup/pgdn rise/sink  space swing  enter putt")
	g.drawText(0, hud+6, dim, "t time trial  p pack  x stop  r reset  esc quit")

	g.screen.Show()
}

func (g *Game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			g.move(0, 0, moveStep)
		case tcell.KeyDown:
			g.move(0, 0, -moveStep)
		case tcell.KeyLeft:
			g.move(-moveStep, 0, 0)
		case tcell.KeyRight:
			g.move(moveStep, 0, 0)
		case tcell.KeyPgUp:
			g.move(0, moveStep, 0)
		case tcell.KeyPgDn:
			g.move(0, -moveStep, 0)
		case tcell.KeyEnter:
			g.putt()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				g.swing()
			case 'a':
				g.turn(-turnStep, 0)
			case 'd':
				g.turn(turnStep, 0)
			case 'w':
				g.turn(0, pitchStep)
			case 's':
				g.turn(0, -pitchStep)
			case 't':
				g.toggleRepeater()
			case 'p':
				g.cyclePack()
			case 'x':
				g.engine.Stop()
			case 'r':
				g.engine.ResetListener()
				g.yaw, g.pitch = 0, 0
			}
		}

	case *tcell.EventResize:
		g.width, g.height = g.screen.Size()
		g.screen.Sync()
	}

	return true
}

func (g *Game) run() {
	ticker := time.NewTicker(frameMs * time.Millisecond)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !g.handleInput(ev) {
				return
			}
		case <-ticker.C:
			g.draw()
		}
	}
}

func (g *Game) cleanup() {
	g.engine.Close()
	g.screen.Fini()
}

func main() {
	var (
		backend  = flag.String("backend", "", "audio backend: auto, speaker, pipe, none (overrides SHAC_GOLF_BACKEND)")
		pack     = flag.String("pack", "", "initial sound pack")
		stages   = flag.Int("holes", 9, "number of holes")
		clip     = flag.Duration("clip", 0, "clip duration per swing")
		radius   = flag.Float64("radius", 0, "hole radius")
		custom   = flag.String("custom", "", "comma-separated WAV files for the custom pack, named by file stem")
		logLevel = flag.String("log-level", "info", "log level: debug, info, warn, error")
		logFile  = flag.String("log", "", "log file (default: discard, the terminal is in use)")
	)
	flag.Parse()

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := logger.Init(*logLevel, f); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
			os.Exit(1)
		}
	} else {
		// Nothing may write over the screen
		_ = logger.Init("error", io.Discard)
	}

	cfg := audio.LoadAudioConfig()
	if *backend != "" {
		b, err := audio.ParseBackend(*backend)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unknown backend %q\n", *backend)
			os.Exit(1)
		}
		cfg.Backend = b
	}
	if *pack != "" {
		cfg.SoundPack = *pack
	}
	if *clip > 0 {
		cfg.ClipDuration = *clip
	}
	if *radius > 0 {
		cfg.HoleRadius = *radius
	}
	if *stages < 1 {
		*stages = 1
	}

	engine := audio.NewEngine(cfg, audio.WithLogger(logger.Get()))
	if *custom != "" {
		for _, path := range strings.Split(*custom, ",") {
			path = strings.TrimSpace(path)
			if path == "" {
				continue
			}
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			if !engine.AddCustomSound(name, path) {
				fmt.Fprintf(os.Stderr, "Skipping custom sound %s\n", path)
			}
		}
		if cfg.SoundPack == "" {
			engine.SetActivePack(constant.CustomPackName)
		}
	}

	game, err := NewGame(engine, *stages)
	if err != nil {
		engine.Close()
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer game.cleanup()

	game.run()
}
