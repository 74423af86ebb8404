package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrPowerUpNotFound = errors.New("power-up not found")

type PowerUp struct {
	ID     string      `json:"id" db:"id"`
	UserID string      `json:"user_id" db:"user_id"`
	Type   PowerUpType `json:"type" db:"type"`

	Quantity int `json:"quantity" db:"quantity"`

	IsActive    bool       `json:"is_active" db:"is_active"`
	ActivatedAt *time.Time `json:"activated_at,omitempty" db:"activated_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" db:"expires_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewPowerUp(userID string, pType PowerUpType, quantity int) *PowerUp {
	if quantity < 0 {
		quantity = 0
	}
	if quantity > pType.MaxQuantity() {
		quantity = pType.MaxQuantity()
	}

	now := time.Now().UTC()

	return &PowerUp{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      pType,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanUse is the precondition callers check before Activate when they need to
// explain inaction; Activate itself never signals failure.
func (p *PowerUp) CanUse() bool {
	return p.Quantity > 0 && !p.IsActive
}

// Activate consumes one unit and opens a fixed-duration window. A no-op when
// the inventory is empty or the window is already open.
func (p *PowerUp) Activate(now time.Time) {
	if !p.CanUse() {
		return
	}

	now = now.UTC()
	expires := now.Add(p.Type.Duration())

	p.Quantity--
	p.IsActive = true
	p.ActivatedAt = &now
	p.ExpiresAt = &expires
	p.UpdatedAt = now
}

// CheckExpiration lazily closes the window once it has passed. Returns true
// when state changed.
func (p *PowerUp) CheckExpiration(now time.Time) bool {
	if !p.IsActive || p.ExpiresAt == nil {
		return false
	}
	if now.Before(*p.ExpiresAt) {
		return false
	}

	p.IsActive = false
	p.ActivatedAt = nil
	p.ExpiresAt = nil
	p.UpdatedAt = now.UTC()
	return true
}

// AddQuantity tops up the inventory, capped at the per-type maximum.
func (p *PowerUp) AddQuantity(n int) {
	if n <= 0 {
		return
	}
	p.Quantity += n
	if max := p.Type.MaxQuantity(); p.Quantity > max {
		p.Quantity = max
	}
	p.UpdatedAt = time.Now().UTC()
}

func (p *PowerUp) TimeRemaining(now time.Time) time.Duration {
	if !p.IsActive || p.ExpiresAt == nil {
		return 0
	}
	remaining := p.ExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Inventory is the read model over a user's power-ups.
type Inventory []*PowerUp

func (inv Inventory) Get(pType PowerUpType) *PowerUp {
	for _, p := range inv {
		if p.Type == pType {
			return p
		}
	}
	return nil
}

func (inv Inventory) IsActive(pType PowerUpType) bool {
	p := inv.Get(pType)
	return p != nil && p.IsActive
}

func (inv Inventory) TimeRemaining(pType PowerUpType, now time.Time) time.Duration {
	p := inv.Get(pType)
	if p == nil {
		return 0
	}
	return p.TimeRemaining(now)
}
