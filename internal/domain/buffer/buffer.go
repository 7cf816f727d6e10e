package buffer

import (
	"fmt"
	"math"

	"github.com/andrescamacho/batchreactor-go/internal/domain/material"
	"github.com/andrescamacho/batchreactor-go/internal/domain/shared"
)

// InfiniteCapacity marks a buffer whose capacity is never enforced
var InfiniteCapacity = math.Inf(1)

// BatchBuffer is an ordered collection of material batches with a cached total quantity.
//
// Invariants:
// - Quantity() equals the sum of the contained batch quantities and is never negative
// - Every mutation updates the cached quantity together with the collection
// - Capacity is a soft ceiling; enforcing it is the caller's job
//
// A BatchBuffer is owned by a single facility and is not safe for concurrent use.
type BatchBuffer struct {
	name     string
	capacity float64
	batches  []*material.Material
	quantity float64
}

// New creates an empty buffer with infinite capacity
func New(name string) *BatchBuffer {
	return &BatchBuffer{
		name:     name,
		capacity: InfiniteCapacity,
	}
}

func (b *BatchBuffer) Name() string      { return b.name }
func (b *BatchBuffer) Capacity() float64 { return b.capacity }
func (b *BatchBuffer) Quantity() float64 { return b.quantity }
func (b *BatchBuffer) Count() int        { return len(b.batches) }
func (b *BatchBuffer) IsEmpty() bool     { return len(b.batches) == 0 }

// SetCapacity changes the soft ceiling reported by Capacity
func (b *BatchBuffer) SetCapacity(c float64) { b.capacity = c }

// Push appends a batch to the tail
func (b *BatchBuffer) Push(m *material.Material) {
	b.batches = append(b.batches, m)
	b.quantity += m.Quantity()
}

// PushAll appends every batch in order
func (b *BatchBuffer) PushAll(mats []*material.Material) {
	for _, m := range mats {
		b.Push(m)
	}
}

// Peek returns the first batch without removing it
func (b *BatchBuffer) Peek() (*material.Material, error) {
	if b.IsEmpty() {
		return nil, shared.NewEmptyBufferError(b.name)
	}
	return b.batches[0], nil
}

// PeekBack returns the last batch without removing it
func (b *BatchBuffer) PeekBack() (*material.Material, error) {
	if b.IsEmpty() {
		return nil, shared.NewEmptyBufferError(b.name)
	}
	return b.batches[len(b.batches)-1], nil
}

// Pop removes and returns the first batch in insertion order
func (b *BatchBuffer) Pop() (*material.Material, error) {
	if b.IsEmpty() {
		return nil, shared.NewEmptyBufferError(b.name)
	}

	m := b.batches[0]
	b.batches[0] = nil
	b.batches = b.batches[1:]
	b.removed(m.Quantity())
	return m, nil
}

// PopBack removes and returns the last batch
func (b *BatchBuffer) PopBack() (*material.Material, error) {
	if b.IsEmpty() {
		return nil, shared.NewEmptyBufferError(b.name)
	}

	last := len(b.batches) - 1
	m := b.batches[last]
	b.batches[last] = nil
	b.batches = b.batches[:last]
	b.removed(m.Quantity())
	return m, nil
}

// PopQuantity removes batches from the head until exactly amount has been removed,
// splitting the last batch if needed. The buffer is left untouched on error.
func (b *BatchBuffer) PopQuantity(amount float64) ([]*material.Material, error) {
	if amount < 0 {
		return nil, fmt.Errorf("cannot pop negative quantity %g from %s", amount, b.name)
	}
	if shared.ExceedsQuantity(amount, b.quantity) {
		return nil, shared.NewInsufficientQuantityError(b.name, amount, b.quantity)
	}

	var manifest []*material.Material
	remaining := amount
	for remaining > shared.QuantityTolerance && !b.IsEmpty() {
		head := b.batches[0]
		if head.Quantity() <= remaining+shared.QuantityTolerance {
			m, _ := b.Pop()
			manifest = append(manifest, m)
			remaining -= m.Quantity()
			continue
		}

		part, err := head.Extract(remaining)
		if err != nil {
			return nil, fmt.Errorf("failed to split batch in %s: %w", b.name, err)
		}
		b.removed(part.Quantity())
		manifest = append(manifest, part)
		remaining = 0
	}

	return manifest, nil
}

// Batches returns a copy of the batch list, head first
func (b *BatchBuffer) Batches() []*material.Material {
	out := make([]*material.Material, len(b.batches))
	copy(out, b.batches)
	return out
}

func (b *BatchBuffer) removed(qty float64) {
	b.quantity -= qty
	if b.IsEmpty() || b.quantity < 0 {
		// Resync so drift never accumulates across an emptied buffer
		b.quantity = b.sum()
	}
}

func (b *BatchBuffer) sum() float64 {
	total := 0.0
	for _, m := range b.batches {
		total += m.Quantity()
	}
	return total
}

func (b *BatchBuffer) String() string {
	return fmt.Sprintf("%s(%d batches, %g)", b.name, len(b.batches), b.quantity)
}
