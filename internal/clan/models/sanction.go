package models

import (
	"time"

	"github.com/google/uuid"
)

// Severity grades a punishable offence. Config maps each severity to a
// penalty-point value.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
	SeverityExtreme  Severity = "extreme"
)

// Severities lists all known severities in ascending order.
var Severities = []Severity{SeverityMinor, SeverityModerate, SeverityMajor, SeverityExtreme}

// PenaltyKind is what a fired tier imposes. The engine only decides and logs;
// applying the consequence belongs to an external enforcement collaborator.
type PenaltyKind string

const (
	PenaltyWarning          PenaltyKind = "warning"
	PenaltyFine             PenaltyKind = "fine"
	PenaltySuspension       PenaltyKind = "suspension"
	PenaltyDisqualification PenaltyKind = "disqualification"
)

// SanctionLogKind distinguishes additions from reversals in the audit trail
// so either direction stays independently traceable.
type SanctionLogKind string

const (
	LogPointsAdded    SanctionLogKind = "points_added"
	LogPointsSet      SanctionLogKind = "points_set"
	LogPointsReverted SanctionLogKind = "points_reverted"
	LogKDRUpdated     SanctionLogKind = "kdr_updated"
)

// SanctionLogEntry is one audit row written atomically with its point or KDR
// change.
type SanctionLogEntry struct {
	ID         int64
	ClanID     uuid.UUID
	Kind       SanctionLogKind
	AuthorID   string
	AuthorName string
	TargetID   string
	TargetName string
	Delta      int
	OldPoints  int
	NewPoints  int
	Details    string
	CreatedAt  time.Time
}
