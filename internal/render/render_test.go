package render

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/orbit/internal/draw"
	"github.com/tomz197/orbit/internal/loop"
	"github.com/tomz197/orbit/internal/object"
	"github.com/tomz197/orbit/internal/physics"
)

func newTestScene() *Scene {
	return NewScene(240, 160, 120, 80)
}

func lit(c *draw.Canvas) map[[2]int]rune {
	cells := make(map[[2]int]rune)
	for cell := range c.Cells() {
		cells[[2]int{cell.Col, cell.Row}] = cell.Rune
	}
	return cells
}

func TestWorldToCanvas(t *testing.T) {
	s := newTestScene()
	tests := []struct {
		wx, wy float64
		lx, ly float64
	}{
		{0, 0, 60, 40},
		{-120, 80, 0, 0},
		{120, -80, 120, 80},
		{20, 10, 70, 35},
	}
	for _, tt := range tests {
		lx, ly := s.toCanvas(tt.wx, tt.wy)
		if lx != tt.lx || ly != tt.ly {
			t.Errorf("toCanvas(%v, %v) = (%v, %v), want (%v, %v)", tt.wx, tt.wy, lx, ly, tt.lx, tt.ly)
		}
	}
}

func TestSpritesFollowEntities(t *testing.T) {
	s := newTestScene()
	world := physics.NewScripted()

	a, err := object.NewAsteroid(world, s, object.AsteroidParams{
		Token: 1, Level: 2, X: 10, Y: 20, Radius: 4, Mass: 1,
		Handlers: object.AsteroidHandlers{SpeedVectors: s.SpeedVector},
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Fatalf("sprites = %d, want 1", s.Len())
	}
	sp := s.sprites[a]
	if sp.x != 10 || sp.y != 20 {
		t.Fatalf("sprite at (%v, %v), want (10, 20)", sp.x, sp.y)
	}
	if n := len(sp.shape); n < 8 || n > 12 {
		t.Fatalf("asteroid outline has %d vertices, want 8 to 12", n)
	}
	for _, r := range sp.shape {
		if r < 4*0.7 || r > 4*1.3 {
			t.Fatalf("vertex distance %v outside the jitter range", r)
		}
	}
	if !sp.hasVector {
		t.Fatal("speed vector not attached")
	}

	world.SetVelocity(a.Handle(), 3, 4)
	a.Update(object.UpdateContext{})
	if sp.vx != 3 || sp.vy != 4 {
		t.Fatalf("speed vector = (%v, %v), want (3, 4)", sp.vx, sp.vy)
	}

	a.Remove()
	if s.Len() != 0 {
		t.Fatalf("sprites = %d after removal, want 0", s.Len())
	}
	if s.Particles() != 12 {
		t.Fatalf("particles = %d, want 12 for a level 2 asteroid", s.Particles())
	}
}

func TestParticlesExpire(t *testing.T) {
	s := newTestScene()
	world := physics.NewScripted()
	p, err := object.NewPlanet(world, s, object.PlanetParams{Token: 1, Radius: 10, Health: 100})
	if err != nil {
		t.Fatal(err)
	}
	p.Remove()
	if s.Particles() != 60 {
		t.Fatalf("particles = %d, want 60", s.Particles())
	}

	s.Advance(100 * time.Millisecond)
	if s.Particles() != 60 {
		t.Fatalf("particles = %d after a short advance, want 60", s.Particles())
	}
	s.Advance(2 * time.Second)
	if s.Particles() != 0 {
		t.Fatalf("particles = %d after their lifetime, want 0", s.Particles())
	}
}

func TestDetachUnknownEntity(t *testing.T) {
	s := newTestScene()
	world := physics.NewScripted()
	b, err := object.NewBullet(world, nil, object.BulletParams{Token: 1, Radius: 1, Mass: 1})
	if err != nil {
		t.Fatal(err)
	}
	s.DetachVisual(b)
	s.SetVisualPosition(b, 1, 1)
	if s.Len() != 0 || s.Particles() != 0 {
		t.Fatal("unknown entity changed the scene")
	}
}

func TestDrawPlanetAndSatellite(t *testing.T) {
	s := newTestScene()
	world := physics.NewScripted()
	if _, err := object.NewPlanet(world, s, object.PlanetParams{Token: 1, Radius: 10, Health: 100}); err != nil {
		t.Fatal(err)
	}
	sat, err := object.NewSatellite(world, s, object.SatelliteParams{Token: 2, Orbit: 40, Radius: 2})
	if err != nil {
		t.Fatal(err)
	}

	c := draw.NewScaledCanvas(120, 40, 120, 80)
	s.Draw(c)
	cells := lit(c)

	// Planet centre.
	if cells[[2]int{60, 20}] != draw.BlockFull {
		t.Fatalf("planet centre = %q, want full block", cells[[2]int{60, 20}])
	}
	// Satellite at (40, 0) maps to logical (80, 40).
	if _, ok := cells[[2]int{80, 20}]; !ok {
		t.Fatal("satellite not drawn")
	}
	// Orbit at (-40, 0) maps to logical (40, 40).
	if _, ok := cells[[2]int{40, 20}]; !ok {
		t.Fatal("orbit not drawn")
	}

	sat.Remove()
	c.Clear()
	s.Draw(c)
	if _, ok := lit(c)[[2]int{80, 20}]; ok {
		t.Fatal("removed satellite still drawn")
	}
}

func TestHealthBar(t *testing.T) {
	tests := []struct {
		health float64
		want   string
	}{
		{100, "[" + strings.Repeat("#", 20) + "]"},
		{50, "[" + strings.Repeat("#", 10) + strings.Repeat(".", 10) + "]"},
		{0, "[" + strings.Repeat(".", 20) + "]"},
		{-5, "[" + strings.Repeat(".", 20) + "]"},
	}
	for _, tt := range tests {
		if got := HealthBar(tt.health); got != tt.want {
			t.Errorf("HealthBar(%v) = %q, want %q", tt.health, got, tt.want)
		}
	}
}

type textCall struct {
	col, row int
	s        string
	tone     Tone
}

type recordingSink struct{ calls []textCall }

func (r *recordingSink) Text(col, row int, s string, tone Tone) {
	r.calls = append(r.calls, textCall{col, row, s, tone})
}

func (r *recordingSink) find(sub string) (textCall, bool) {
	for _, c := range r.calls {
		if strings.Contains(c.s, sub) {
			return c, true
		}
	}
	return textCall{}, false
}

func TestDrawHUD(t *testing.T) {
	// UnixMilli()/600 is even, so the blinking prompt is visible.
	now := time.UnixMilli(1200)

	sink := &recordingSink{}
	DrawHUD(sink, loop.Status{Score: 42, Health: 60, Band: 2, Playing: true, Asteroids: 3, Target: 5}, 120, 40, now)

	score, ok := sink.find("Score: 42")
	if !ok || score.col != 2 || score.row != 1 {
		t.Fatalf("score = %+v, %v", score, ok)
	}
	health, ok := sink.find("Planet")
	if !ok || health.row != 40 || health.tone != BandTone(2) {
		t.Fatalf("health = %+v, %v", health, ok)
	}
	if _, ok := sink.find("Asteroids:   3/5"); !ok {
		t.Fatal("asteroid counter missing")
	}
	if _, ok := sink.find("PAUSED"); ok {
		t.Fatal("pause overlay while playing")
	}

	sink = &recordingSink{}
	DrawHUD(sink, loop.Status{Paused: true}, 120, 40, now)
	if _, ok := sink.find("PAUSED"); !ok {
		t.Fatal("pause overlay missing")
	}

	sink = &recordingSink{}
	DrawHUD(sink, loop.Status{GameOver: true, Score: 7}, 120, 40, now)
	if _, ok := sink.find("Press R to Restart"); !ok {
		t.Fatal("restart prompt missing")
	}
	if _, ok := sink.find("Score: 7"); !ok {
		t.Fatal("final score missing")
	}

	sink = &recordingSink{}
	DrawHUD(sink, loop.Status{GameOver: true}, 120, 40, time.UnixMilli(600))
	if _, ok := sink.find("Press R to Restart"); ok {
		t.Fatal("prompt should blink off")
	}
}

func TestBandTone(t *testing.T) {
	if paletteIndex(BandTone(0)) != 196 || paletteIndex(BandTone(4)) != 44 {
		t.Fatal("band palette mismatch")
	}
	if BandTone(-1) != BandTone(0) || BandTone(9) != BandTone(4) {
		t.Fatal("band tone not clamped")
	}
	if paletteIndex(ToneDefault) != -1 {
		t.Fatal("default tone should not set a colour")
	}
}

func TestANSISink(t *testing.T) {
	var out strings.Builder
	cw := draw.NewChunkWriter(&out)
	sink := ANSISink{W: cw}
	sink.Text(3, 2, "hi", ToneDefault)
	sink.Text(1, 1, "x", BandTone(0))
	sink.Text(0, 1, "skipped", ToneDefault)
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	want := "\033[2;3Hhi" + "\033[1;1H\033[38;5;196mx\033[0m"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestTcellTarget(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()
	screen.SetSize(20, 10)

	target := TcellTarget{Screen: screen}
	c := draw.NewScaledCanvas(20, 10, 20, 20)
	c.SetFloat(5, 4)
	c.SetFloat(5, 5)
	target.Present(c)
	target.Text(2, 1, "ok", BandTone(4))
	target.Show()

	if r, _, _, _ := screen.GetContent(5, 2); r != draw.BlockFull {
		t.Fatalf("canvas cell = %q, want full block", r)
	}
	r, _, style, _ := screen.GetContent(1, 0)
	if r != 'o' {
		t.Fatalf("text cell = %q, want 'o'", r)
	}
	if fg, _, _ := style.Decompose(); fg != tcell.PaletteColor(44) {
		t.Fatalf("text colour = %v, want palette 44", fg)
	}
}
