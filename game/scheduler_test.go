package game

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pthm-cable/nevo/components"
	"github.com/pthm-cable/nevo/telemetry"
)

func TestSchedulerStateMachine(t *testing.T) {
	s := NewScheduler(New(testConfig(), Options{}), SchedulerOptions{Delay: time.Millisecond})

	if s.State() != StateIdle {
		t.Fatalf("initial state = %v, want idle", s.State())
	}

	// Stop and Wait on an idle scheduler are no-ops
	s.Stop()
	s.Wait()
	if s.State() != StateIdle {
		t.Fatalf("state after idle Stop = %v, want idle", s.State())
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.State() != StateRunning {
		t.Errorf("state = %v, want running", s.State())
	}
	if err := s.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start err = %v, want ErrAlreadyStarted", err)
	}

	s.Stop()
	s.Stop()
	s.Wait()
	if s.State() != StateStopped {
		t.Errorf("state = %v, want stopped", s.State())
	}
	if err := s.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("Start after Stop err = %v, want ErrAlreadyStarted", err)
	}
}

func TestSchedulerNotifiesOncePerTick(t *testing.T) {
	w := New(testConfig(), Options{})
	var calls atomic.Int64
	var last atomic.Uint64
	s := NewScheduler(w, SchedulerOptions{
		MaxTicks: 40,
		OnTick: func(tick uint64) {
			calls.Add(1)
			last.Store(tick)
		},
	})

	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.Wait()

	if calls.Load() != 40 || last.Load() != 40 {
		t.Errorf("OnTick called %d times, last tick %d; want 40 and 40", calls.Load(), last.Load())
	}
	if w.TickCount() != 40 {
		t.Errorf("world tick = %d, want 40", w.TickCount())
	}
	if s.State() != StateStopped {
		t.Errorf("state = %v, want stopped", s.State())
	}
}

func TestSchedulerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(New(testConfig(), Options{}), SchedulerOptions{Delay: 5 * time.Millisecond})

	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not exit after cancel")
	}
	if s.State() != StateStopped {
		t.Errorf("state = %v, want stopped", s.State())
	}
}

func TestNotifyChannelDoesNotBlock(t *testing.T) {
	ch := make(chan uint64, 1)
	notify := NotifyChannel(ch)

	notify(1)
	notify(2) // dropped, channel full

	if got := <-ch; got != 1 {
		t.Errorf("received %d, want 1", got)
	}
	select {
	case got := <-ch:
		t.Errorf("unexpected second notification %d", got)
	default:
	}
}

func TestSynchronizeConcurrentWithLoop(t *testing.T) {
	w := New(testConfig(), Options{})
	s := NewScheduler(w, SchedulerOptions{MaxTicks: 200})

	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()

	snapshots := 0
	for {
		snap := w.Synchronize()
		snapshots++

		plants, animals := 0, 0
		for _, e := range snap.Entities {
			if e.Kind == components.KindPlant {
				plants++
			} else {
				animals++
			}
		}
		if plants != snap.PlantCount || animals != snap.AnimalCount {
			t.Fatalf("tick %d: snapshot holds %d/%d entities, counters say %d/%d",
				snap.Stats.Tick, plants, animals, snap.PlantCount, snap.AnimalCount)
		}

		select {
		case <-done:
			if snapshots == 0 {
				t.Error("no snapshots taken")
			}
			return
		default:
		}
	}
}

func TestSchedulerWritesTelemetry(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	w := New(testConfig(), Options{
		Collector: telemetry.NewCollector(10),
		Perf:      telemetry.NewPerfCollector(10),
	})
	s := NewScheduler(w, SchedulerOptions{MaxTicks: 30, Output: om})
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.Wait()
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	for name, rows := range map[string]int{"telemetry.csv": 3, "perf.csv": 3} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != rows+1 {
			t.Errorf("%s has %d lines, want header + %d rows", name, len(lines), rows)
		}
	}
}
