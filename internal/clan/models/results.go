package models

// Mutation outcomes are closed result sets, not errors. Business rejections
// (wrong clan, wrong role, self-targeting) come back as a specific value with
// no write attempted; an accompanying error is reserved for persistence
// faults.

// CreateClanResult is the outcome of a clan creation attempt.
type CreateClanResult string

const (
	CreateClanSuccess       CreateClanResult = "success"
	CreateClanTagTaken      CreateClanResult = "tag_taken"
	CreateClanNameTaken     CreateClanResult = "name_taken"
	CreateClanAlreadyInClan CreateClanResult = "already_in_clan"
	CreateClanInvalid       CreateClanResult = "invalid"
	CreateClanFailed        CreateClanResult = "failed"
)

// AddPlayerResult is the outcome of adding a player to a clan.
type AddPlayerResult string

const (
	AddPlayerSuccess       AddPlayerResult = "success"
	AddPlayerClanNotFound  AddPlayerResult = "clan_not_found"
	AddPlayerAlreadyInClan AddPlayerResult = "already_in_clan"
	AddPlayerFailed        AddPlayerResult = "failed"
)

// RemovePlayerResult is the outcome of a voluntary leave.
type RemovePlayerResult string

const (
	RemovePlayerSuccess             RemovePlayerResult = "success"
	RemovePlayerNotFound            RemovePlayerResult = "player_not_found"
	RemovePlayerNotInClan           RemovePlayerResult = "not_in_clan"
	RemovePlayerFounderMustTransfer RemovePlayerResult = "founder_must_transfer"
	RemovePlayerFailed              RemovePlayerResult = "failed"
)

// KickResult is the outcome of a kick attempt.
type KickResult string

const (
	KickSuccess          KickResult = "success"
	KickPlayerNotFound   KickResult = "player_not_found"
	KickNotInSameClan    KickResult = "not_in_same_clan"
	KickCannotKickSelf   KickResult = "cannot_kick_self"
	KickCannotKickLeader KickResult = "cannot_kick_leader"
	KickFailed           KickResult = "failed"
)

// PromoteResult is the outcome of a promotion attempt.
type PromoteResult string

const (
	PromoteSuccess        PromoteResult = "success"
	PromotePlayerNotFound PromoteResult = "player_not_found"
	PromoteAlreadyOfficer PromoteResult = "already_officer"
	PromoteAlreadyLeader  PromoteResult = "already_leader"
	PromoteNotInSameClan  PromoteResult = "not_in_same_clan"
	PromoteFailed         PromoteResult = "failed"
)

// DemoteResult is the outcome of a demotion attempt.
type DemoteResult string

const (
	DemoteSuccess            DemoteResult = "success"
	DemotePlayerNotFound     DemoteResult = "player_not_found"
	DemoteNotAnOfficer       DemoteResult = "not_an_officer"
	DemoteCannotDemoteLeader DemoteResult = "cannot_demote_leader"
	DemoteNotInSameClan      DemoteResult = "not_in_same_clan"
	DemoteFailed             DemoteResult = "failed"
)

// SetFounderResult is the outcome of a foundership transfer.
type SetFounderResult string

const (
	SetFounderSuccess        SetFounderResult = "success"
	SetFounderPlayerNotFound SetFounderResult = "player_not_found"
	SetFounderNotInSameClan  SetFounderResult = "not_in_same_clan"
	SetFounderNotLeader      SetFounderResult = "not_leader"
	SetFounderAlreadyFounder SetFounderResult = "already_founder"
	SetFounderFailed         SetFounderResult = "failed"
)

// InviteResult is the outcome of sending an invitation.
type InviteResult string

const (
	InviteSuccess        InviteResult = "success"
	InviteAlreadyPending InviteResult = "already_pending"
	InviteAlreadyInClan  InviteResult = "already_in_clan"
	InviteClanNotFound   InviteResult = "clan_not_found"
)
