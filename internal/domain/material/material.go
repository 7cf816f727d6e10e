package material

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/batchreactor-go/internal/domain/shared"
)

// ID is a value object identifying one unit of material
type ID struct {
	value string
}

// NewID creates a new ID with a generated UUID
func NewID() ID {
	return ID{value: uuid.New().String()}
}

func (id ID) String() string { return id.value }

// IsZero checks if the ID is uninitialized
func (id ID) IsZero() bool { return id.value == "" }

// Material is a quantity of matter tagged with a recipe (composition) identifier.
//
// Invariants:
// - Quantity is never negative
// - Once absorbed into another material, a handle is spent and every operation on it fails
type Material struct {
	id       ID
	recipe   string
	quantity float64
	spent    bool
}

// New creates a material unit of the given quantity and recipe
func New(quantity float64, recipe string) (*Material, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("material quantity cannot be negative: %g", quantity)
	}
	if recipe == "" {
		return nil, fmt.Errorf("material recipe cannot be empty")
	}

	return &Material{
		id:       NewID(),
		recipe:   recipe,
		quantity: quantity,
	}, nil
}

// MustNew creates a material, panicking on invalid input.
// Use this only with constant arguments (tests, fixtures).
func MustNew(quantity float64, recipe string) *Material {
	m, err := New(quantity, recipe)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Material) ID() ID            { return m.id }
func (m *Material) Recipe() string    { return m.recipe }
func (m *Material) Quantity() float64 { return m.quantity }

// IsSpent reports whether the handle was consumed by an Absorb
func (m *Material) IsSpent() bool { return m.spent }

// Absorb merges other into m. other is spent afterwards.
// The merged composition keeps m's recipe.
func (m *Material) Absorb(other *Material) error {
	if err := m.checkLive(); err != nil {
		return err
	}
	if other == nil {
		return fmt.Errorf("cannot absorb nil material")
	}
	if other == m {
		return shared.NewMaterialError(m.id.String(), "cannot absorb itself")
	}
	if err := other.checkLive(); err != nil {
		return err
	}

	m.quantity += other.quantity
	other.quantity = 0
	other.spent = true
	return nil
}

// Extract splits amount off m into a new material of the same recipe
func (m *Material) Extract(amount float64) (*Material, error) {
	if err := m.checkLive(); err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, fmt.Errorf("cannot extract negative quantity %g", amount)
	}
	if shared.ExceedsQuantity(amount, m.quantity) {
		return nil, shared.NewInsufficientQuantityError("material "+m.id.String(), amount, m.quantity)
	}

	// Clamp drift so the remainder never goes negative
	if amount > m.quantity {
		amount = m.quantity
	}
	m.quantity -= amount

	return &Material{
		id:       NewID(),
		recipe:   m.recipe,
		quantity: amount,
	}, nil
}

// SnapTo sets the quantity to target when the two already agree within the quantity tolerance
func (m *Material) SnapTo(target float64) error {
	if err := m.checkLive(); err != nil {
		return err
	}
	if target < 0 || !shared.QuantitiesEqual(m.quantity, target) {
		return fmt.Errorf("cannot snap quantity %g to %g", m.quantity, target)
	}
	m.quantity = target
	return nil
}

// Transmute replaces the recipe in place, preserving quantity
func (m *Material) Transmute(recipe string) error {
	if err := m.checkLive(); err != nil {
		return err
	}
	if recipe == "" {
		return fmt.Errorf("cannot transmute to an empty recipe")
	}
	m.recipe = recipe
	return nil
}

func (m *Material) checkLive() error {
	if m.spent {
		return shared.NewMaterialError(m.id.String(), "handle was absorbed and can no longer be used")
	}
	return nil
}

func (m *Material) String() string {
	return fmt.Sprintf("Material(%s, %g of %s)", m.id.String()[:8], m.quantity, m.recipe)
}

// Combine absorbs every material of mats into the first one and returns it.
// mats must not be empty.
func Combine(mats []*Material) (*Material, error) {
	if len(mats) == 0 {
		return nil, fmt.Errorf("cannot combine an empty manifest")
	}

	head := mats[0]
	for _, m := range mats[1:] {
		if err := head.Absorb(m); err != nil {
			return nil, err
		}
	}
	return head, nil
}
