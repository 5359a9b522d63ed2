package transfer

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/erazemk/goodsledger/internal/model"
	"github.com/erazemk/goodsledger/internal/store"
)

// Allocator resolves the inventory numbers a transfer line moves.
type Allocator struct {
	base int64
}

// NewAllocator returns an allocator that starts generating serials at base
// when no inventory number exists yet. Values below 1 are raised to 1.
func NewAllocator(base int64) *Allocator {
	if base < 1 {
		base = 1
	}
	return &Allocator{base: base}
}

// Base returns the first serial the allocator generates on an empty ledger.
func (a *Allocator) Base() int64 {
	return a.base
}

// AllocationRequest selects one of three modes: Generate, an explicit list
// of Numbers, or a set of Existing inventory number IDs. An empty request
// allocates nothing.
type AllocationRequest struct {
	Quantity int
	Generate bool
	Numbers  []int64
	Existing []int64
}

// Allocation is the resolved number set. When Fresh is set the numbers were
// created by the allocation and Rollback removes them again.
type Allocation struct {
	Numbers []model.InventoryNumber
	Fresh   bool

	compensations []func(ctx context.Context, q store.Querier) error
}

// IDs returns the row IDs of the allocated numbers.
func (a *Allocation) IDs() []int64 {
	ids := make([]int64, len(a.Numbers))
	for i, n := range a.Numbers {
		ids[i] = n.ID
	}
	return ids
}

// Values returns the allocated serials in ascending order.
func (a *Allocation) Values() []int64 {
	values := make([]int64, len(a.Numbers))
	for i, n := range a.Numbers {
		values[i] = n.Number
	}
	slices.Sort(values)
	return values
}

// Empty reports whether no number was allocated.
func (a *Allocation) Empty() bool {
	return len(a.Numbers) == 0
}

// Rollback runs the recorded compensations in reverse order. It is a no-op
// on a second call.
func (a *Allocation) Rollback(ctx context.Context, q store.Querier) error {
	for i := len(a.compensations) - 1; i >= 0; i-- {
		if err := a.compensations[i](ctx, q); err != nil {
			return fmt.Errorf("rolling back allocation: %w", err)
		}
	}
	a.compensations = nil
	return nil
}

func (a *Allocation) compensate(fn func(ctx context.Context, q store.Querier) error) {
	a.compensations = append(a.compensations, fn)
}

// Allocate resolves req against the ledger.
func (a *Allocator) Allocate(ctx context.Context, q store.Querier, req AllocationRequest) (*Allocation, error) {
	if req.Generate && (len(req.Numbers) > 0 || len(req.Existing) > 0) {
		return nil, model.Validation(model.CodeMixedNumbers, "cannot mix explicit and generated numbers")
	}
	if len(req.Numbers) > 0 && len(req.Existing) > 0 {
		return nil, model.Validation(model.CodeMixedNumbers, "cannot combine an explicit number list with a number set")
	}

	switch {
	case req.Generate:
		return a.generate(ctx, q, req.Quantity)
	case len(req.Numbers) > 0:
		return a.explicit(ctx, q, req.Numbers)
	case len(req.Existing) > 0:
		return a.existing(ctx, q, req.Existing)
	default:
		return &Allocation{}, nil
	}
}

func (a *Allocator) generate(ctx context.Context, q store.Querier, quantity int) (*Allocation, error) {
	if quantity <= 0 {
		return nil, model.Validation(model.CodeInvalidQuantity, "quantity must be positive")
	}
	if quantity > MaxQuantity {
		return nil, model.Validation(model.CodeInvalidQuantity, "quantity must not exceed %d", MaxQuantity)
	}

	max, err := store.MaxInventoryNumber(ctx, q)
	if err != nil {
		return nil, err
	}
	start := max + 1
	if start < a.base {
		start = a.base
	}

	values := make([]int64, quantity)
	for i := range values {
		values[i] = start + int64(i)
	}
	return create(ctx, q, values)
}

func (a *Allocator) explicit(ctx context.Context, q store.Querier, values []int64) (*Allocation, error) {
	seen := make(map[int64]struct{}, len(values))
	for _, v := range values {
		if v <= 0 {
			return nil, model.Validation(model.CodeInvalidNumber, "inventory numbers must be positive")
		}
		if _, dup := seen[v]; dup {
			return nil, model.Validation(model.CodeInvalidNumber, "duplicate inventory number %d", v)
		}
		seen[v] = struct{}{}
	}

	found, err := store.FindInventoryNumbers(ctx, q, values)
	if err != nil {
		return nil, err
	}

	switch len(found) {
	case len(values):
		return &Allocation{Numbers: found}, nil
	case 0:
		return create(ctx, q, values)
	}

	for _, n := range found {
		delete(seen, n.Number)
	}
	missing := make([]int64, 0, len(seen))
	for v := range seen {
		missing = append(missing, v)
	}
	slices.Sort(missing)
	return nil, model.Validation(model.CodeNumbersMissing, "numbers do not exist: %s", joinNumbers(missing))
}

func (a *Allocator) existing(ctx context.Context, q store.Querier, ids []int64) (*Allocation, error) {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, model.Validation(model.CodeInvalidNumber, "duplicate inventory number reference %d", id)
		}
		seen[id] = struct{}{}
	}

	found, err := store.GetInventoryNumbers(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, model.NotFound(model.CodeNumberNotFound, "inventory number set refers to unknown numbers")
	}
	return &Allocation{Numbers: found}, nil
}

func create(ctx context.Context, q store.Querier, values []int64) (*Allocation, error) {
	created, err := store.CreateInventoryNumbers(ctx, q, values)
	if err != nil {
		return nil, err
	}

	alloc := &Allocation{Numbers: created, Fresh: true}
	ids := alloc.IDs()
	alloc.compensate(func(ctx context.Context, q store.Querier) error {
		return store.DeleteInventoryNumbers(ctx, q, ids)
	})
	return alloc, nil
}

func joinNumbers(values []int64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, ", ")
}
