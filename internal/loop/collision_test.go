package loop

import (
	"testing"

	"github.com/tomz197/orbit/internal/object"
	"github.com/tomz197/orbit/internal/physics"
)

func TestRouterTable(t *testing.T) {
	world := physics.NewScripted()
	rock, err := object.NewAsteroid(world, nil, object.AsteroidParams{Level: 2, Radius: 6, Mass: 2})
	if err != nil {
		t.Fatal(err)
	}
	shot, err := object.NewBullet(world, nil, object.BulletParams{Radius: 1, Mass: 1})
	if err != nil {
		t.Fatal(err)
	}
	other, err := object.NewBullet(world, nil, object.BulletParams{Radius: 1, Mass: 1})
	if err != nil {
		t.Fatal(err)
	}
	planet, err := object.NewPlanet(world, nil, object.PlanetParams{Radius: 15, Health: 100})
	if err != nil {
		t.Fatal(err)
	}

	r := NewRouter(10, 20)

	for _, pair := range [][2]object.Entity{{shot, rock}, {rock, shot}} {
		eff := r.Resolve(pair[0], pair[1])
		if eff.Score != 20 || len(eff.Explode) != 1 || len(eff.Destroy) != 1 || eff.Destroy[0] != shot {
			t.Errorf("bullet/asteroid effects %+v", eff)
		}
	}
	if eff := r.Resolve(planet, rock); eff.PlanetDamage != 40 || len(eff.Destroy) != 1 || len(eff.Explode) != 0 {
		t.Errorf("planet/asteroid effects %+v", eff)
	}
	if eff := r.Resolve(shot, other); !eff.Empty() {
		t.Errorf("bullet/bullet should be a no-op, got %+v", eff)
	}
	if eff := r.Resolve(shot, planet); !eff.Empty() {
		t.Errorf("bullet/planet should be a no-op, got %+v", eff)
	}
}
