package collector

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/swoga/ddwrt-exporter/config"
	"github.com/swoga/ddwrt-exporter/model"
	"github.com/swoga/ddwrt-exporter/remote"
)

// Publisher receives the outcome of every cycle. Publish is only called
// for cycles that gathered every fact.
type Publisher interface {
	Publish(facts model.Facts)
	ObserveCycle(report Report)
}

// Report is the result of one cycle: Facts is set if and only if Err is nil.
type Report struct {
	Target   string
	Started  time.Time
	Duration time.Duration
	Facts    *model.Facts
	Err      error
}

func (r Report) Success() bool {
	return r.Err == nil
}

type Collector struct {
	log       zerolog.Logger
	dialer    remote.Dialer
	publisher Publisher
}

func New(log zerolog.Logger, dialer remote.Dialer, publisher Publisher) *Collector {
	return &Collector{
		log:       log,
		dialer:    dialer,
		publisher: publisher,
	}
}

// Collect runs one cycle against target. The cycle is all-or-nothing: the
// first transport error or hard parse error stops it and nothing is
// published.
func (c *Collector) Collect(ctx context.Context, target config.Target) Report {
	report := Report{
		Target:  target.HostPort(),
		Started: time.Now(),
	}
	log := c.log.With().Str("target", report.Target).Logger()

	facts, err := c.collect(ctx, log, target)
	report.Duration = time.Since(report.Started)

	if err != nil {
		report.Err = err
		log.Error().Err(err).Dur("duration", report.Duration).Msg("error collecting metrics from router")
	} else {
		report.Facts = facts
		c.publisher.Publish(*facts)
		logNeighbors(log, facts.Neighbors)
		log.Info().Dur("duration", report.Duration).Msg("collected metrics from router")
	}

	c.publisher.ObserveCycle(report)
	return report
}

func (c *Collector) collect(ctx context.Context, log zerolog.Logger, target config.Target) (*model.Facts, error) {
	shell, err := c.dialer.Dial(ctx, target)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := shell.Close(); err != nil {
			log.Debug().Err(err).Msg("error closing remote shell")
		}
	}()

	facts := &model.Facts{}
	for _, s := range steps {
		output, err := shell.Execute(ctx, s.command)
		if err != nil {
			return nil, err
		}
		err = s.apply(log, output, facts)
		if err != nil {
			return nil, err
		}
	}
	return facts, nil
}

func logNeighbors(log zerolog.Logger, neighbors model.NeighborTable) {
	log.Info().Int("count", neighbors.ConnectedDevices()).Msg("connected devices (from neighbor table)")
	for _, entry := range neighbors {
		log.Info().Str("entry", entry).Msg("neighbor")
	}
}
