package telemetry

import (
	"log/slog"
	"time"
)

// Tick phases in execution order.
const (
	PhaseConsume   = "consume"
	PhaseProduce   = "produce"
	PhaseScore     = "score"
	PhaseSense     = "sense"
	PhaseDecide    = "decide"
	PhaseActuate   = "actuate"
	PhaseIntegrate = "integrate"
	PhaseCleanup   = "cleanup"
)

// Phases lists every tick phase in execution order.
var Phases = []string{
	PhaseConsume, PhaseProduce, PhaseScore, PhaseSense,
	PhaseDecide, PhaseActuate, PhaseIntegrate, PhaseCleanup,
}

type perfSample struct {
	tick   time.Duration
	phases map[string]time.Duration
}

// PerfCollector keeps tick and per-phase timings over a ring of recent ticks.
type PerfCollector struct {
	ring  []perfSample
	next  int
	count int

	current    map[string]time.Duration
	tickStart  time.Time
	phaseStart time.Time
	phase      string
}

// NewPerfCollector creates a collector averaging over the last windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		ring:    make([]perfSample, windowSize),
		current: make(map[string]time.Duration),
	}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = make(map[string]time.Duration, len(Phases))
	p.phase = ""
}

// StartPhase closes the running phase, if any, and starts timing the named one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
}

// EndTick closes the running phase and stores the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)

	p.ring[p.next] = perfSample{tick: now.Sub(p.tickStart), phases: p.current}
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.current[p.phase] += now.Sub(p.phaseStart)
		p.phase = ""
	}
}

// Samples returns how many ticks the current window holds.
func (p *PerfCollector) Samples() int {
	return p.count
}

// PerfStats holds timing statistics over the window.
type PerfStats struct {
	AvgTick        time.Duration
	MinTick        time.Duration
	MaxTick        time.Duration
	TicksPerSecond float64

	// Share of the average tick spent in each phase, 0-100
	PhasePct map[string]float64
}

// Stats aggregates the samples currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{PhasePct: make(map[string]float64)}
	if p.count == 0 {
		return stats
	}

	var total time.Duration
	phaseTotal := make(map[string]time.Duration)
	for i := 0; i < p.count; i++ {
		s := p.ring[i]
		total += s.tick
		if i == 0 || s.tick < stats.MinTick {
			stats.MinTick = s.tick
		}
		if s.tick > stats.MaxTick {
			stats.MaxTick = s.tick
		}
		for name, d := range s.phases {
			phaseTotal[name] += d
		}
	}

	stats.AvgTick = total / time.Duration(p.count)
	if total > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(stats.AvgTick)
		for name, d := range phaseTotal {
			stats.PhasePct[name] = float64(d) / float64(total) * 100
		}
	}
	return stats
}

// LogStats logs the timing summary.
func (s PerfStats) LogStats() {
	slog.Info("perf", "timing", s)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("min_tick_us", s.MinTick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	for _, name := range Phases {
		if pct := s.PhasePct[name]; pct >= 0.1 {
			attrs = append(attrs, slog.Float64(name+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfRecord is the flat CSV row for one perf window.
type PerfRecord struct {
	Tick         uint64  `csv:"tick"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	ConsumePct   float64 `csv:"consume_pct"`
	ProducePct   float64 `csv:"produce_pct"`
	ScorePct     float64 `csv:"score_pct"`
	SensePct     float64 `csv:"sense_pct"`
	DecidePct    float64 `csv:"decide_pct"`
	ActuatePct   float64 `csv:"actuate_pct"`
	IntegratePct float64 `csv:"integrate_pct"`
	CleanupPct   float64 `csv:"cleanup_pct"`
}

// Record flattens the stats for CSV output.
func (s PerfStats) Record(tick uint64) PerfRecord {
	return PerfRecord{
		Tick:         tick,
		AvgTickUS:    s.AvgTick.Microseconds(),
		MinTickUS:    s.MinTick.Microseconds(),
		MaxTickUS:    s.MaxTick.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		ConsumePct:   s.PhasePct[PhaseConsume],
		ProducePct:   s.PhasePct[PhaseProduce],
		ScorePct:     s.PhasePct[PhaseScore],
		SensePct:     s.PhasePct[PhaseSense],
		DecidePct:    s.PhasePct[PhaseDecide],
		ActuatePct:   s.PhasePct[PhaseActuate],
		IntegratePct: s.PhasePct[PhaseIntegrate],
		CleanupPct:   s.PhasePct[PhaseCleanup],
	}
}
