package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transfer is a transaction header grouping one or more transfer lines.
type Transfer struct {
	ID        int64     `json:"id"`
	Date      time.Time `json:"date"`
	Number    *int      `json:"number,omitempty"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// TransferLine is one goods movement within a transfer. At most one of
// SenderGoodsID and RecipientGoodsID is nil.
type TransferLine struct {
	ID               int64           `json:"id"`
	TransferID       int64           `json:"transfer_id"`
	SenderGoodsID    *int64          `json:"sender_goods_id,omitempty"`
	RecipientGoodsID *int64          `json:"recipient_goods_id,omitempty"`
	Quantity         int             `json:"quantity"`
	Price            decimal.Decimal `json:"price"`
	InventoryNumbers []int64         `json:"inventory_numbers"`
	CreatedAt        time.Time       `json:"created_at"`

	// Joined fields (not always populated).
	GoodsName   string `json:"goods_name,omitempty"`
	Description string `json:"description,omitempty"`
}

// DescribeLine renders a line as "<quantity> <unit symbol> <goods name>".
func DescribeLine(quantity int, symbol, name string) string {
	return fmt.Sprintf("%d %s %s", quantity, symbol, name)
}

// TransferType classifies a transfer by the shape of its participants.
type TransferType string

// Transfer types.
const (
	TransferIncome   TransferType = "INCOME"
	TransferMove     TransferType = "TRANSFER"
	TransferWriteOff TransferType = "WRITE-OFF"
	TransferSupply   TransferType = "SUPPLY"
	TransferReturn   TransferType = "RETURN"
)

var transferLabels = map[TransferType]string{
	TransferIncome:   "Income",
	TransferMove:     "Transfer",
	TransferWriteOff: "Write-off",
	TransferSupply:   "Supply",
	TransferReturn:   "Return",
}

// Label returns the human-readable name of the type.
func (t TransferType) Label() string {
	return transferLabels[t]
}

// Classify derives the transfer type from the sender and recipient
// locations of a transfer line. Either may be nil, not both.
func Classify(sender, recipient *Location) TransferType {
	switch {
	case sender == nil:
		return TransferIncome
	case recipient == nil:
		return TransferWriteOff
	case sender.IsStaff():
		return TransferReturn
	case recipient.IsStaff():
		return TransferSupply
	default:
		return TransferMove
	}
}

// Transcript renders the participants as "A ⇒ B", or just the single
// participant for income and write-off.
func Transcript(sender, recipient *Location) string {
	switch Classify(sender, recipient) {
	case TransferIncome:
		return recipient.String()
	case TransferWriteOff:
		return sender.String()
	default:
		return fmt.Sprintf("%s ⇒ %s", sender, recipient)
	}
}

// Summary is the display classification of a transfer.
type Summary struct {
	Type       TransferType `json:"type"`
	Label      string       `json:"label"`
	Transcript string       `json:"transcript"`
}

// Summarize classifies a transfer from its representative participants.
func Summarize(sender, recipient *Location) Summary {
	t := Classify(sender, recipient)
	return Summary{
		Type:       t,
		Label:      t.Label(),
		Transcript: Transcript(sender, recipient),
	}
}

// Title renders a one-line caption such as "Supply #4 of 2018-06-01 (Stock ⇒ Ivanov I.)".
func (s Summary) Title(t *Transfer) string {
	number := ""
	if t.Number != nil {
		number = fmt.Sprintf(" #%d", *t.Number)
	}
	return fmt.Sprintf("%s%s of %s (%s)", s.Label, number, t.Date.Format(time.DateOnly), s.Transcript)
}
