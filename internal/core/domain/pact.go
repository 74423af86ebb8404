package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPactNotFound    = errors.New("pact not found")
	ErrPactNotAMember  = errors.New("user is not a party of this pact")
	ErrPactNotActive   = errors.New("pact is not active")
	ErrPactTitleEmpty  = errors.New("pact title cannot be empty")
	ErrPactSameParties = errors.New("pact parties must be distinct users")
)

type PactState string

const (
	PactStatePending PactState = "pending"
	PactStateActive  PactState = "active"
	PactStateBroken  PactState = "broken"
	PactStateEnded   PactState = "ended"
)

// PactStatus is the viewer-relative daily status.
type PactStatus string

const (
	PactBothDone         PactStatus = "both_done"
	PactWaitingOnPartner PactStatus = "waiting_on_partner"
	PactWaitingOnYou     PactStatus = "waiting_on_you"
	PactNeitherDone      PactStatus = "neither_done"
	PactInactive         PactStatus = "inactive"
)

// pactMilestones are the streak targets, ascending.
var pactMilestones = []int{7, 30, 100}

type Pact struct {
	ID          string `json:"id" db:"id"`
	InitiatorID string `json:"initiator_id" db:"initiator_id"`
	PartnerID   string `json:"partner_id" db:"partner_id"`

	Title      string `json:"title" db:"title"`
	Commitment string `json:"commitment" db:"commitment"`

	State PactState `json:"state" db:"state"`

	InitiatorDone bool `json:"initiator_done" db:"initiator_done"`
	PartnerDone   bool `json:"partner_done" db:"partner_done"`

	CurrentStreak int `json:"current_streak" db:"current_streak"`
	LongestStreak int `json:"longest_streak" db:"longest_streak"`

	// ShieldAvailable absorbs exactly one break event when consumed.
	ShieldAvailable bool `json:"shield_available" db:"shield_available"`

	BrokenAt *time.Time `json:"broken_at,omitempty" db:"broken_at"`
	BrokenBy *string    `json:"broken_by,omitempty" db:"broken_by"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewPact(initiatorID, partnerID, title, commitment string) (*Pact, error) {
	if initiatorID == "" || partnerID == "" {
		return nil, ErrPactNotAMember
	}
	if initiatorID == partnerID {
		return nil, ErrPactSameParties
	}
	if title == "" {
		return nil, ErrPactTitleEmpty
	}

	now := time.Now().UTC()

	return &Pact{
		ID:              uuid.NewString(),
		InitiatorID:     initiatorID,
		PartnerID:       partnerID,
		Title:           title,
		Commitment:      commitment,
		State:           PactStatePending,
		ShieldAvailable: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (p *Pact) Accept() {
	if p.State != PactStatePending {
		return
	}
	p.State = PactStateActive
	p.UpdatedAt = time.Now().UTC()
}

func (p *Pact) IsMember(userID string) bool {
	return userID == p.InitiatorID || userID == p.PartnerID
}

// StatusForUser answers the day's status from the viewer's perspective.
func (p *Pact) StatusForUser(userID string) PactStatus {
	if p.State != PactStateActive {
		return PactInactive
	}

	you := p.InitiatorDone
	partner := p.PartnerDone
	if userID == p.PartnerID {
		you, partner = partner, you
	}

	switch {
	case you && partner:
		return PactBothDone
	case you:
		return PactWaitingOnPartner
	case partner:
		return PactWaitingOnYou
	default:
		return PactNeitherDone
	}
}

// MarkCompleted sets the viewer's daily flag.
func (p *Pact) MarkCompleted(userID string) error {
	if p.State != PactStateActive {
		return ErrPactNotActive
	}

	switch userID {
	case p.InitiatorID:
		p.InitiatorDone = true
	case p.PartnerID:
		p.PartnerDone = true
	default:
		return ErrPactNotAMember
	}

	p.UpdatedAt = time.Now().UTC()
	return nil
}

// EvaluateDay closes out a day: both flags true extends the mutual streak,
// any failure breaks the pact recording the failing party, unless the shield
// absorbs it. Flags reset for the next day in every surviving outcome.
func (p *Pact) EvaluateDay(now time.Time) {
	if p.State != PactStateActive {
		return
	}

	now = now.UTC()

	if p.InitiatorDone && p.PartnerDone {
		p.CurrentStreak++
		if p.CurrentStreak > p.LongestStreak {
			p.LongestStreak = p.CurrentStreak
		}
		p.resetDay(now)
		return
	}

	if p.ShieldAvailable {
		p.ShieldAvailable = false
		p.resetDay(now)
		return
	}

	breaker := p.InitiatorID
	if p.InitiatorDone && !p.PartnerDone {
		breaker = p.PartnerID
	}

	p.State = PactStateBroken
	p.CurrentStreak = 0
	p.BrokenAt = &now
	p.BrokenBy = &breaker
	p.resetDay(now)
}

func (p *Pact) resetDay(now time.Time) {
	p.InitiatorDone = false
	p.PartnerDone = false
	p.UpdatedAt = now
}

// NextMilestone is the smallest milestone strictly above the current streak,
// 0 when every milestone is already reached.
func (p *Pact) NextMilestone() int {
	for _, m := range pactMilestones {
		if m > p.CurrentStreak {
			return m
		}
	}
	return 0
}

func (p *Pact) DaysUntilNextMilestone() int {
	next := p.NextMilestone()
	if next == 0 {
		return 0
	}
	return next - p.CurrentStreak
}
