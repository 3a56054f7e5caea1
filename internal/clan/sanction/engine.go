// Package sanction implements the penalty-point escalation engine. The
// engine mutates balances, evaluates tier thresholds, and logs; it never
// enforces a penalty itself. Enforcement consumers subscribe to the fired
// events downstream.
package sanction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"clanhall/internal/clan/events"
	"clanhall/internal/clan/metrics"
	"clanhall/internal/clan/models"
	"clanhall/internal/clan/presence"
	"clanhall/internal/clan/registry"
	"clanhall/internal/clan/store"
	"clanhall/internal/platform/config"
	"clanhall/pkg/clanerrors"
	"clanhall/pkg/platform/sentinel"
	"clanhall/pkg/requestcontext"
)

// FiredTier reports one escalation step crossed by a point addition. A single
// addition can cross several thresholds at once; every crossed tier fires.
type FiredTier struct {
	Tier                   int                `json:"tier"`
	Threshold              int                `json:"threshold"`
	Penalty                models.PenaltyKind `json:"penalty"`
	DurationDays           int                `json:"duration_days,omitempty"`
	FinePercentage         float64            `json:"fine_percentage,omitempty"`
	EloDeductionPercentage float64            `json:"elo_deduction_percentage,omitempty"`
}

// Engine owns all penalty-point mutations for clans. It shares the writer
// confinement of the clan service, so the cached balance it reads is the
// balance the guarded gateway write will see.
type Engine struct {
	gw        store.Gateway
	registry  *registry.Registry
	presence  *presence.Tracker
	cfg       config.SanctionsConfig
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher events.Publisher
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func WithPublisher(p events.Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

func New(gw store.Gateway, reg *registry.Registry, pres *presence.Tracker, cfg config.SanctionsConfig, opts ...Option) *Engine {
	e := &Engine{
		gw:        gw,
		registry:  reg,
		presence:  pres,
		cfg:       cfg,
		logger:    slog.Default(),
		publisher: events.NopPublisher{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ApplyPunishment grades an offence by severity and adds the configured
// point value to the clan's balance.
func (e *Engine) ApplyPunishment(ctx context.Context, clanID uuid.UUID, severity models.Severity, details string) ([]FiredTier, error) {
	points := e.cfg.PointsFor(severity)
	if points <= 0 {
		return nil, clanerrors.Newf(clanerrors.CodeValidation, "unknown severity %q", severity)
	}
	if details == "" {
		details = string(severity) + " offence"
	}
	return e.AddPoints(ctx, clanID, points, details)
}

// AddPoints raises the clan's balance by delta and returns every tier whose
// threshold the move crossed, lowest first.
func (e *Engine) AddPoints(ctx context.Context, clanID uuid.UUID, delta int, details string) ([]FiredTier, error) {
	if delta <= 0 {
		return nil, clanerrors.New(clanerrors.CodeValidation, "point delta must be positive")
	}
	clan := e.registry.Get(clanID)
	if clan == nil {
		return nil, clanerrors.New(clanerrors.CodeNotFound, "clan not found")
	}

	old := clan.PenaltyPoints
	next := old + delta
	now := requestcontext.Now(ctx)
	entry := models.SanctionLogEntry{
		ClanID:     clanID,
		Kind:       models.LogPointsAdded,
		AuthorID:   requestcontext.ActorID(ctx),
		AuthorName: requestcontext.ActorName(ctx),
		Delta:      delta,
		OldPoints:  old,
		NewPoints:  next,
		Details:    details,
		CreatedAt:  now,
	}
	if err := e.gw.AddPenaltyPointsAndLog(ctx, clanID, old, delta, entry); err != nil {
		return nil, e.writeFailed(clanID, "add penalty points", err)
	}
	clan.PenaltyPoints = next

	fired := e.crossedTiers(old, next)
	for _, tier := range fired {
		if e.metrics != nil {
			e.metrics.SanctionsFired.WithLabelValues(fmt.Sprintf("%d", tier.Tier)).Inc()
		}
		e.emit(ctx, events.Event{
			Kind:      events.KindSanctionFired,
			ClanID:    clanID,
			ClanTag:   clan.Tag,
			ActorID:   entry.AuthorID,
			Tier:      tier.Tier,
			Penalty:   string(tier.Penalty),
			Points:    next,
			Details:   details,
			Timestamp: now,
		})
		e.logger.Warn("sanction tier fired",
			"clan", clanID, "tag", clan.Tag, "tier", tier.Tier,
			"penalty", tier.Penalty, "points", next)
	}
	if len(fired) > 0 && e.presence != nil {
		top := fired[len(fired)-1]
		e.presence.NotifyClanMembers(clanID, nil,
			fmt.Sprintf("Your clan reached sanction tier %d: %s", top.Tier, top.Penalty))
	}
	return fired, nil
}

// SetPoints overwrites the clan's balance. points must not be negative.
func (e *Engine) SetPoints(ctx context.Context, clanID uuid.UUID, points int, details string) error {
	if points < 0 {
		return clanerrors.New(clanerrors.CodeValidation, "penalty points cannot be negative")
	}
	clan := e.registry.Get(clanID)
	if clan == nil {
		return clanerrors.New(clanerrors.CodeNotFound, "clan not found")
	}

	old := clan.PenaltyPoints
	entry := models.SanctionLogEntry{
		ClanID:     clanID,
		Kind:       models.LogPointsSet,
		AuthorID:   requestcontext.ActorID(ctx),
		AuthorName: requestcontext.ActorName(ctx),
		Delta:      points - old,
		OldPoints:  old,
		NewPoints:  points,
		Details:    details,
		CreatedAt:  requestcontext.Now(ctx),
	}
	if err := e.gw.SetPenaltyPointsAndLog(ctx, clanID, old, points, entry); err != nil {
		return e.writeFailed(clanID, "set penalty points", err)
	}
	clan.PenaltyPoints = points
	return nil
}

// RevertPunishment overturns a graded offence, subtracting the same point
// value the grade originally added. It reports the tier the clan sits on
// after the reversal, zero when the balance is below every threshold.
func (e *Engine) RevertPunishment(ctx context.Context, clanID uuid.UUID, severity models.Severity, details string) (int, error) {
	points := e.cfg.PointsFor(severity)
	if points <= 0 {
		return 0, clanerrors.Newf(clanerrors.CodeValidation, "unknown severity %q", severity)
	}
	if details == "" {
		details = string(severity) + " offence reverted"
	}
	return e.RemovePoints(ctx, clanID, points, details)
}

// RemovePoints reverses delta points from the clan's balance and reports the
// resulting tier. Removing more than the current balance is rejected rather
// than clamped so a typo cannot silently erase the audit arithmetic.
func (e *Engine) RemovePoints(ctx context.Context, clanID uuid.UUID, delta int, details string) (int, error) {
	if delta <= 0 {
		return 0, clanerrors.New(clanerrors.CodeValidation, "point delta must be positive")
	}
	clan := e.registry.Get(clanID)
	if clan == nil {
		return 0, clanerrors.New(clanerrors.CodeNotFound, "clan not found")
	}
	if delta > clan.PenaltyPoints {
		return 0, clanerrors.Newf(clanerrors.CodeValidation,
			"cannot remove %d points from a balance of %d", delta, clan.PenaltyPoints)
	}

	old := clan.PenaltyPoints
	next := old - delta
	now := requestcontext.Now(ctx)
	entry := models.SanctionLogEntry{
		ClanID:     clanID,
		Kind:       models.LogPointsReverted,
		AuthorID:   requestcontext.ActorID(ctx),
		AuthorName: requestcontext.ActorName(ctx),
		Delta:      -delta,
		OldPoints:  old,
		NewPoints:  next,
		Details:    details,
		CreatedAt:  now,
	}
	if err := e.gw.RevertSanctionAndLog(ctx, clanID, old, delta, entry); err != nil {
		return 0, e.writeFailed(clanID, "revert sanction", err)
	}
	clan.PenaltyPoints = next
	tier := e.tierAt(next)
	e.emit(ctx, events.Event{
		Kind:      events.KindSanctionReverted,
		ClanID:    clanID,
		ClanTag:   clan.Tag,
		ActorID:   entry.AuthorID,
		Tier:      tier,
		Points:    next,
		Details:   details,
		Timestamp: now,
	})
	return tier, nil
}

// Pardon wipes the clan's balance to zero in one audited move.
func (e *Engine) Pardon(ctx context.Context, clanID uuid.UUID) error {
	clan := e.registry.Get(clanID)
	if clan == nil {
		return clanerrors.New(clanerrors.CodeNotFound, "clan not found")
	}
	if err := e.SetPoints(ctx, clanID, 0, "pardon"); err != nil {
		return err
	}
	e.emit(ctx, events.Event{
		Kind:      events.KindClanPardoned,
		ClanID:    clanID,
		ClanTag:   clan.Tag,
		ActorID:   requestcontext.ActorID(ctx),
		Timestamp: requestcontext.Now(ctx),
	})
	if e.presence != nil {
		e.presence.NotifyClanMembers(clanID, nil, "Your clan has been pardoned")
	}
	return nil
}

// Log returns a page of the clan's sanction audit trail, newest first.
func (e *Engine) Log(ctx context.Context, clanID uuid.UUID, limit, offset int) ([]models.SanctionLogEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := e.gw.SanctionLog(ctx, clanID, limit, offset)
	if err != nil {
		return nil, clanerrors.Wrap(err, clanerrors.CodePersistence, "load sanction log")
	}
	return entries, nil
}

// tierAt returns the highest tier whose threshold the balance still meets,
// zero when the balance sits below every threshold.
func (e *Engine) tierAt(points int) int {
	tier := 0
	for i, t := range e.cfg.Tiers() {
		if points >= t.Threshold {
			tier = i + 1
		}
	}
	return tier
}

// crossedTiers returns every tier with old < threshold <= next, so a large
// addition fires each skipped tier exactly once.
func (e *Engine) crossedTiers(old, next int) []FiredTier {
	var fired []FiredTier
	for i, tier := range e.cfg.Tiers() {
		if old < tier.Threshold && next >= tier.Threshold {
			fired = append(fired, FiredTier{
				Tier:                   i + 1,
				Threshold:              tier.Threshold,
				Penalty:                models.PenaltyKind(tier.Penalty),
				DurationDays:           tier.DurationDays,
				FinePercentage:         tier.FinePercentage,
				EloDeductionPercentage: tier.EloDeductionPercentage,
			})
		}
	}
	return fired
}

func (e *Engine) writeFailed(clanID uuid.UUID, op string, err error) error {
	if e.metrics != nil {
		e.metrics.PersistenceFails.Inc()
	}
	if errors.Is(err, sentinel.ErrStale) {
		e.logger.Error("cached balance diverged from store", "clan", clanID, "op", op)
		return clanerrors.Wrap(err, clanerrors.CodeConflict, op)
	}
	e.logger.Error("sanction write failed", "clan", clanID, "op", op, "err", err)
	return clanerrors.Wrap(err, clanerrors.CodePersistence, op)
}

func (e *Engine) emit(ctx context.Context, event events.Event) {
	if err := e.publisher.Emit(ctx, event); err != nil {
		e.logger.Warn("event publish failed", "kind", event.Kind, "err", err)
	}
}
