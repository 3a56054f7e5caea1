// Package service implements the clan mutation entry points. Every operation
// follows one consistency rule: validate against the current cache state,
// issue the authoritative gateway write, and only on success update the
// caches. A failed write aborts just that mutation and leaves the caches
// untouched. The single documented exception is the optimistic KDR path in
// kdr.go.
//
// Mutations are invoked from one logical writer; compound invariants
// (exactly one founder, at most one membership) are protected by that
// confinement, while the xsync-backed caches stay safe for concurrent reads.
package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/google/uuid"

	"clanhall/internal/clan/events"
	clanmetrics "clanhall/internal/clan/metrics"
	"clanhall/internal/clan/presence"
	"clanhall/internal/clan/registry"
	"clanhall/internal/clan/relation"
	"clanhall/internal/clan/store"
)

// RankingSink mirrors ranking-point changes into a read-side cache
// (the Redis leaderboard). Mirror failures are logged, never propagated:
// Postgres stays authoritative.
type RankingSink interface {
	UpdateScore(ctx context.Context, clanID uuid.UUID, points int) error
	Remove(ctx context.Context, clanID uuid.UUID) error
}

// Service orchestrates clan membership mutations over the caches and the
// persistence gateway.
type Service struct {
	gw       store.Gateway
	registry *registry.Registry
	index    *registry.MembershipIndex
	graph    *relation.Graph
	presence *presence.Tracker

	logger         *slog.Logger
	metrics        *clanmetrics.Metrics
	publisher      events.Publisher
	ranking        RankingSink
	tracer         trace.Tracer
	initialRanking int
}

// Option configures a Service.
type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *clanmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithRanking attaches the leaderboard mirror.
func WithRanking(r RankingSink) Option {
	return func(s *Service) { s.ranking = r }
}

// WithInitialRankingPoints sets the ranking balance new clans start with.
func WithInitialRankingPoints(points int) Option {
	return func(s *Service) { s.initialRanking = points }
}

// New constructs the clan service.
func New(gw store.Gateway, reg *registry.Registry, idx *registry.MembershipIndex, graph *relation.Graph, pres *presence.Tracker, opts ...Option) *Service {
	s := &Service{
		gw:        gw,
		registry:  reg,
		index:     idx,
		graph:     graph,
		presence:  pres,
		logger:    slog.Default(),
		publisher: events.NopPublisher{},
		tracer:    otel.Tracer("clanhall/clan/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry exposes the clan cache for read-side consumers.
func (s *Service) Registry() *registry.Registry { return s.registry }

// Index exposes the membership cache for read-side consumers.
func (s *Service) Index() *registry.MembershipIndex { return s.index }

// Relations exposes the relation graph.
func (s *Service) Relations() *relation.Graph { return s.graph }

func (s *Service) emit(ctx context.Context, event events.Event) {
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.Warn("event emit failed", "kind", event.Kind, "err", err)
	}
}

func (s *Service) persistenceFailed() {
	if s.metrics != nil {
		s.metrics.PersistenceFails.Inc()
	}
}
