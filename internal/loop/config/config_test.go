package config

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default settings rejected: %v", err)
	}
}

func TestValidateRejectsMalformedSettings(t *testing.T) {
	cases := map[string]func(*Settings){
		"dimensions":      func(s *Settings) { s.Dimensions = 3 },
		"view width":      func(s *Settings) { s.ViewWidth = 0 },
		"fire rate":       func(s *Settings) { s.FirePerSecond = -1 },
		"max level":       func(s *Settings) { s.AsteroidMaxLevel = 0 },
		"speed range":     func(s *Settings) { s.AsteroidMinSpeed, s.AsteroidMaxSpeed = 10, 5 },
		"directed share":  func(s *Settings) { s.DirectedShare = 1.5 },
		"negative count":  func(s *Settings) { s.AsteroidCount = -1 },
		"orbit in planet": func(s *Settings) { s.OrbitRadius = s.PlanetRadius },
		"health percent":  func(s *Settings) { s.PlanetHealth = 150 },
		"nan radius":      func(s *Settings) { s.BulletRadius = math.NaN() },
	}
	for name, mutate := range cases {
		s := Default()
		mutate(&s)
		if err := s.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestDerivedValues(t *testing.T) {
	s := Default()
	s.ViewWidth, s.ViewHeight = 60, 80

	if got := s.HalfDiagonal(); got != 50 {
		t.Fatalf("HalfDiagonal: got %f want 50", got)
	}
	if got := s.CullDistance(); got != 175 {
		t.Fatalf("CullDistance: got %f want 175", got)
	}
	if got := s.FireInterval(); got != 500*time.Millisecond {
		t.Fatalf("FireInterval: got %v", got)
	}
	if got := s.SpawnInterval(); got != 1500*time.Millisecond {
		t.Fatalf("SpawnInterval: got %v", got)
	}
	if got := s.AsteroidRadius(3); got != 12 {
		t.Fatalf("AsteroidRadius(3): got %f want 12", got)
	}
	if got := s.AsteroidMass(3); got != 6 {
		t.Fatalf("AsteroidMass(3): got %f want 6", got)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ORBIT_FIRE_PER_SECOND", "4")
	t.Setenv("ORBIT_ASTEROID_COUNT", "9")
	t.Setenv("ORBIT_MAX_STEP", "20ms")

	s, err := FromEnv(Default())
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if s.FirePerSecond != 4 || s.AsteroidCount != 9 || s.MaxStep != 20*time.Millisecond {
		t.Fatalf("overrides not applied: %+v", s)
	}
}

func TestFromEnvRejectsMalformedValues(t *testing.T) {
	t.Setenv("ORBIT_FIRE_PER_SECOND", "fast")
	if _, err := FromEnv(Default()); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for malformed value, got %v", err)
	}
}

func TestFromEnvValidates(t *testing.T) {
	t.Setenv("ORBIT_ASTEROID_COUNT", "-3")
	if _, err := FromEnv(Default()); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for invalid value, got %v", err)
	}
}
