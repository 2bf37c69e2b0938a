package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/nevo/config"
)

func TestMetabolize(t *testing.T) {
	p := EnergyParams{TimeFine: 2, MoveFine: 4, MaxSpeed: 100}

	tests := []struct {
		name  string
		score float64
		speed float64
		want  float64
	}{
		{"at rest", 100, 0, 98},
		{"half speed", 100, 50, 96},
		{"full speed", 100, 100, 94},
		{"goes negative", 1, 100, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Metabolize(tt.score, tt.speed, p); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Metabolize(%v, %v) = %v, want %v", tt.score, tt.speed, got, tt.want)
			}
		})
	}
}

func TestMetabolizeZeroMaxSpeed(t *testing.T) {
	p := EnergyParams{TimeFine: 1, MoveFine: 10, MaxSpeed: 0}
	if got := Metabolize(10, 5, p); got != 9 {
		t.Errorf("Metabolize = %v, want 9", got)
	}
}

func TestGrow(t *testing.T) {
	p := EnergyParams{PlantGrow: 1.5, PlantMaxScore: 10}

	tests := []struct {
		name  string
		score float64
		want  float64
	}{
		{"from zero", 0, 1.5},
		{"clamped", 9.5, 10},
		{"at max", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Grow(tt.score, p); got != tt.want {
				t.Errorf("Grow(%v) = %v, want %v", tt.score, got, tt.want)
			}
		})
	}
}

func TestEnergyParamsFromConfig(t *testing.T) {
	cfg := config.Defaults()
	p := EnergyParamsFromConfig(cfg)

	if p.TimeFine != cfg.Animal.TimeFine || p.MaxSpeed != cfg.Animal.MaxSpeed {
		t.Errorf("animal params not copied: %+v", p)
	}
	if p.PlantGrow != cfg.Plant.GrowSpeed || p.PlantMaxScore != cfg.Plant.MaxScore {
		t.Errorf("plant params not copied: %+v", p)
	}
}
