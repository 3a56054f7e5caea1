package ranking

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"clanhall/pkg/platform/circuit"
)

// probeEvery is how many skipped writes pass before an open circuit lets one
// call through to test recovery.
const probeEvery = 16

// Sink is the leaderboard write surface GuardedSink wraps.
type Sink interface {
	UpdateScore(ctx context.Context, clanID uuid.UUID, points int) error
	Remove(ctx context.Context, clanID uuid.UUID) error
}

// GuardedSink shields mutation paths from a failing Redis. While the circuit
// is open, writes are dropped; Rebuild on the next restart reconciles the
// board, so dropped updates cost freshness, never correctness.
type GuardedSink struct {
	sink    Sink
	breaker *circuit.Breaker
	logger  *slog.Logger
	skipped int
}

func NewGuardedSink(sink Sink, logger *slog.Logger) *GuardedSink {
	return &GuardedSink{
		sink:    sink,
		breaker: circuit.New("leaderboard", circuit.WithFailureThreshold(3), circuit.WithSuccessThreshold(2)),
		logger:  logger,
	}
}

func (g *GuardedSink) UpdateScore(ctx context.Context, clanID uuid.UUID, points int) error {
	if g.skip() {
		return nil
	}
	return g.record(g.sink.UpdateScore(ctx, clanID, points))
}

func (g *GuardedSink) Remove(ctx context.Context, clanID uuid.UUID) error {
	if g.skip() {
		return nil
	}
	return g.record(g.sink.Remove(ctx, clanID))
}

// skip decides whether to drop this write. An open circuit still lets one in
// every probeEvery attempts through as a recovery probe.
func (g *GuardedSink) skip() bool {
	if !g.breaker.IsOpen() {
		return false
	}
	g.skipped++
	return g.skipped%probeEvery != 0
}

func (g *GuardedSink) record(err error) error {
	if err != nil {
		if _, change := g.breaker.RecordFailure(); change.Opened {
			g.logger.Warn("leaderboard circuit opened, dropping ranking writes")
		}
		return err
	}
	if _, change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.Info("leaderboard circuit closed, ranking writes resumed")
		g.skipped = 0
	}
	return nil
}
