package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-now/internal/app"
	"github.com/i474232898/weather-now/internal/weather"
)

// Prober refreshes a connectivity reading.
type Prober interface {
	Probe(ctx context.Context) bool
}

// Scheduler periodically probes connectivity and, when a city is configured,
// refreshes the cached observation for it.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *app.Service
	prober    Prober

	probeInterval   time.Duration
	refreshCity     string
	refreshUnits    weather.UnitSystem
	refreshInterval time.Duration
}

// Options configures which jobs are scheduled.
type Options struct {
	ProbeInterval   time.Duration
	RefreshCity     string
	RefreshUnits    weather.UnitSystem
	RefreshInterval time.Duration
}

// New creates a new Scheduler. prober may be nil.
func New(service *app.Service, prober Prober, opts Options) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler:       s,
		service:         service,
		prober:          prober,
		probeInterval:   opts.ProbeInterval,
		refreshCity:     opts.RefreshCity,
		refreshUnits:    opts.RefreshUnits,
		refreshInterval: opts.RefreshInterval,
	}
}

// Start schedules the periodic jobs and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	jobs := 0

	if s.prober != nil && s.probeInterval > 0 {
		_, err := s.scheduler.Every(s.probeInterval).Do(s.probe)
		if err != nil {
			return err
		}
		jobs++
	}

	if s.refreshCity != "" {
		minutes := int(s.refreshInterval.Minutes())
		if minutes <= 0 {
			minutes = 15
		}
		// Wait for the first probe before fetching.
		_, err := s.scheduler.Every(minutes).Minutes().WaitForSchedule().Do(s.refresh)
		if err != nil {
			return err
		}
		jobs++
	}

	if jobs == 0 {
		log.Println("scheduler: nothing to schedule")
		return nil
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.prober.Probe(ctx)
}

func (s *Scheduler) refresh() {
	log.Printf("scheduler: refreshing weather for %s", s.refreshCity)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, _, err := s.service.ByCity(ctx, s.refreshCity, s.refreshUnits); err != nil {
		log.Printf("scheduler: refresh failed for %s: %v", s.refreshCity, err)
		return
	}
	log.Printf("scheduler: refreshed weather for %s", s.refreshCity)
}
