package loop

import (
	"github.com/tomz197/orbit/internal/object"
	"github.com/tomz197/orbit/internal/physics"
)

// Effects is the outcome of one collision. The game applies it after
// checking every target is still alive.
type Effects struct {
	Score        int
	PlanetDamage float64
	Destroy      []object.Entity    // Removed without splitting
	Explode      []*object.Asteroid // Split by the explode rule
}

// Empty reports whether the effects change nothing.
func (e Effects) Empty() bool {
	return e.Score == 0 && e.PlanetDamage == 0 && len(e.Destroy) == 0 && len(e.Explode) == 0
}

// rule computes the effects of a collision. a.Kind() <= b.Kind() always holds.
type rule func(a, b object.Entity) Effects

type kindPair struct {
	lo, hi object.Kind
}

func pairOf(a, b object.Kind) kindPair {
	if a > b {
		a, b = b, a
	}
	return kindPair{a, b}
}

// Router maps collision events to gameplay effects through a table keyed by
// the unordered pair of entity kinds.
type Router struct {
	rules map[kindPair]rule
}

// NewRouter builds the collision table.
func NewRouter(scorePerLevel int, damagePerLevel float64) *Router {
	bulletHitsAsteroid := func(bullet, rock object.Entity) Effects {
		a, ok := rock.(*object.Asteroid)
		if !ok {
			return Effects{}
		}
		return Effects{
			Score:   a.Level() * scorePerLevel,
			Destroy: []object.Entity{bullet},
			Explode: []*object.Asteroid{a},
		}
	}
	asteroidHitsDefender := func(rock, _ object.Entity) Effects {
		a, ok := rock.(*object.Asteroid)
		if !ok {
			return Effects{}
		}
		return Effects{
			PlanetDamage: float64(a.Level()) * damagePerLevel,
			Destroy:      []object.Entity{a},
		}
	}

	return &Router{rules: map[kindPair]rule{
		pairOf(object.KindBullet, object.KindAsteroid):    bulletHitsAsteroid,
		pairOf(object.KindAsteroid, object.KindSatellite): asteroidHitsDefender,
		pairOf(object.KindAsteroid, object.KindPlanet):    asteroidHitsDefender,
	}}
}

// Resolve returns the effects of a and b touching, in either order.
func (r *Router) Resolve(a, b object.Entity) Effects {
	if a.Kind() > b.Kind() {
		a, b = b, a
	}
	fn, ok := r.rules[pairOf(a.Kind(), b.Kind())]
	if !ok {
		return Effects{}
	}
	return fn(a, b)
}

// Route resolves every started event against lookup and hands the effects to
// apply one event at a time, so later events see removals made by earlier
// ones. Events naming unknown or removed handles are skipped.
func (r *Router) Route(events []physics.CollisionEvent, lookup *object.Lookup, apply func(Effects)) {
	for _, ev := range events {
		if !ev.Started {
			continue
		}
		a, ok := lookup.Get(ev.A)
		if !ok {
			continue
		}
		b, ok := lookup.Get(ev.B)
		if !ok {
			continue
		}
		if eff := r.Resolve(a, b); !eff.Empty() {
			apply(eff)
		}
	}
}
