package model

import "time"

// Category groups goods for display and consistency checks.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Unit is a unit of measure.
type Unit struct {
	ID     int64  `json:"id"`
	Key    int    `json:"key"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// GoodsLine is the quantity on hand of one goods name at one location.
type GoodsLine struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	LocationID int64     `json:"location_id"`
	CategoryID int64     `json:"category_id"`
	UnitID     int64     `json:"unit_id"`
	Quantity   int       `json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`

	// Joined fields (not always populated).
	InventoryNumbers []int64 `json:"inventory_numbers,omitempty"`
}

// InventoryNumber is a serial tag. GoodsID is nil while the number supplies
// no goods line.
type InventoryNumber struct {
	ID      int64  `json:"id"`
	Number  int64  `json:"number"`
	GoodsID *int64 `json:"goods_id,omitempty"`
}

// Attached reports whether the number currently supplies a goods line.
func (n InventoryNumber) Attached() bool {
	return n.GoodsID != nil
}
