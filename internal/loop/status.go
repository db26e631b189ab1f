package loop

import "github.com/tomz197/orbit/internal/object"

// Status is the state exposed to the UI.
type Status struct {
	Score     int
	Health    float64 // Planet health, 0 to 100
	Band      int     // Health ring colour step
	Playing   bool
	Paused    bool
	GameOver  bool
	Asteroids int
	Bullets   int
	Target    int // Configured asteroid count
}

// Status returns the current UI state.
func (g *Game) Status() Status {
	st := Status{
		Score:     g.score,
		Playing:   g.Playing(),
		Paused:    g.paused,
		GameOver:  g.over(),
		Asteroids: g.asteroids.Len(),
		Bullets:   g.bullets.Len(),
		Target:    g.settings.AsteroidCount,
	}
	if g.planet != nil {
		st.Health = g.planet.Health()
		st.Band = g.planet.Band()
	}
	return st
}

// Score returns the accumulated score.
func (g *Game) Score() int { return g.score }

// Planet returns the planet, or nil after it was destroyed.
func (g *Game) Planet() *object.Planet { return g.planet }

// Satellite returns the satellite, or nil after it was destroyed.
func (g *Game) Satellite() *object.Satellite { return g.satellite }

// Asteroids returns the asteroid registry.
func (g *Game) Asteroids() *object.Registry[*object.Asteroid] { return g.asteroids }

// Bullets returns the bullet registry.
func (g *Game) Bullets() *object.Registry[*object.Bullet] { return g.bullets }

// Lookup returns the handle lookup used for collision routing.
func (g *Game) Lookup() *object.Lookup { return g.lookup }

func (g *Game) pushStatus() {
	if g.onStatus != nil {
		g.onStatus(g.Status())
	}
}
