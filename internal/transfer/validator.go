package transfer

import (
	"github.com/shopspring/decimal"

	"github.com/erazemk/goodsledger/internal/model"
)

// MaxQuantity is the largest quantity a single transfer line may move.
const MaxQuantity = 100000

// checkAmounts requires a positive quantity no larger than MaxQuantity and
// a positive price.
func checkAmounts(quantity int, price decimal.Decimal) error {
	if quantity <= 0 {
		return model.Validation(model.CodeInvalidQuantity, "quantity must be positive")
	}
	if quantity > MaxQuantity {
		return model.Validation(model.CodeInvalidQuantity, "quantity must not exceed %d", MaxQuantity)
	}
	if !price.IsPositive() {
		return model.Validation(model.CodeInvalidPrice, "price must be positive")
	}
	return nil
}

// checkParticipants requires at least one participant, forbids income
// straight to staff and moving goods to where they already are.
func checkParticipants(sender, recipient *model.Location) error {
	if sender == nil && recipient == nil {
		return model.Validation(model.CodeNoParticipants, "must specify sender and/or recipient")
	}
	if sender == nil && recipient.IsStaff() {
		return model.Validation(model.CodeIncomeToStaff, "cannot register income directly to a staff member")
	}
	if sender != nil && recipient != nil && sender.ID == recipient.ID {
		return model.Validation(model.CodeSameParticipants, "sender and recipient must differ")
	}
	return nil
}

// checkNumberMode rejects generating numbers while also naming some.
func checkNumberMode(generate bool, numbers, existing []int64) error {
	if generate && (len(numbers) > 0 || len(existing) > 0) {
		return model.Validation(model.CodeMixedNumbers, "cannot mix explicit and generated numbers")
	}
	return nil
}

// checkSameParticipants requires a new line to move goods between the same
// locations as the transfer's first line.
func checkSameParticipants(firstSender, firstRecipient, sender, recipient *model.Location) error {
	if locationID(firstSender) != locationID(sender) || locationID(firstRecipient) != locationID(recipient) {
		return model.Validation(model.CodeMixedParticipants,
			"all lines of a transfer must share sender and recipient (%s)", model.Transcript(firstSender, firstRecipient))
	}
	return nil
}

func locationID(l *model.Location) int64 {
	if l == nil {
		return 0
	}
	return l.ID
}

// checkAttributes requires category and unit to match an existing goods line
// of the same name.
func checkAttributes(existing *model.GoodsLine, category *model.Category, unit *model.Unit, wantCategory *model.Category, wantUnit *model.Unit) error {
	if existing == nil {
		return nil
	}
	if existing.UnitID != unit.ID {
		return model.Validation(model.CodeAttributeMismatch, "unit of %q must be %q", existing.Name, wantUnit.Name)
	}
	if existing.CategoryID != category.ID {
		return model.Validation(model.CodeAttributeMismatch, "category of %q must be %q", existing.Name, wantCategory.Name)
	}
	return nil
}

// checkSender validates the sender's goods line. goods is nil when the
// sender holds none of the goods.
func checkSender(goods *model.GoodsLine, quantity int, generate bool) error {
	if goods == nil {
		return model.NotFound(model.CodeSenderGoodsNotFound, "sender has none of this good")
	}
	if goods.Quantity < quantity {
		return model.Validation(model.CodeInsufficientQuantity,
			"insufficient quantity at sender: have %d, need %d", goods.Quantity, quantity)
	}
	if generate {
		return model.Validation(model.CodeGenerateForExisting, "cannot generate inventory numbers for pre-existing goods")
	}
	return nil
}

// numberCheck holds what the inventory number cross-checks look at once the
// number set is resolved.
type numberCheck struct {
	Allocation *Allocation
	Generate   bool
	Quantity   int

	// Serialized is true when goods of this name carry, or have carried,
	// inventory numbers. It is computed before allocation.
	Serialized bool

	// RecipientQuantity is the recipient's stock of this name before the
	// line, or 0 without a recipient.
	RecipientQuantity int

	// SenderGoodsID is nil for income.
	SenderGoodsID *int64
}

func (c numberCheck) validate() error {
	alloc := c.Allocation

	if alloc.Empty() {
		if c.Serialized {
			return model.Validation(model.CodeNumbersRequired, "must specify inventory numbers")
		}
		return nil
	}

	if !c.Generate && len(alloc.Numbers) != c.Quantity {
		return model.Validation(model.CodeNumberCount,
			"count of inventory numbers must equal quantity: got %d, want %d", len(alloc.Numbers), c.Quantity)
	}

	if !c.Serialized && c.RecipientQuantity > 0 {
		return model.Validation(model.CodeNotSerialized, "this goods type was not previously serialized")
	}

	if c.SenderGoodsID == nil {
		if alloc.Fresh {
			return nil
		}
		var inUse []int64
		for _, n := range alloc.Numbers {
			if n.Attached() {
				inUse = append(inUse, n.Number)
			}
		}
		if len(inUse) > 0 {
			return model.Validation(model.CodeNumbersInUse, "numbers already in use: %s", joinNumbers(inUse))
		}
		return nil
	}

	var foreign []int64
	for _, n := range alloc.Numbers {
		if n.GoodsID == nil || *n.GoodsID != *c.SenderGoodsID {
			foreign = append(foreign, n.Number)
		}
	}
	if len(foreign) > 0 {
		return model.Validation(model.CodeNumbersNotAtSender,
			"numbers are not assigned to the sender's goods: %s", joinNumbers(foreign))
	}
	return nil
}
