package models

import "github.com/shopspring/decimal"

type OrderItem struct {
	ID              uint            `gorm:"column:order_item_id;primaryKey" json:"order_item_id"`
	OrderID         uint            `gorm:"index" json:"order_id"`
	ItemType        ItemType        `gorm:"type:varchar(10);check:chk_order_items_item_type,item_type IN ('service','menu')" json:"item_type"`
	ItemID          uint            `gorm:"not null" json:"item_id"`
	ItemName        string          `gorm:"type:varchar(100)" json:"item_name"`
	ItemPhoto       *string         `gorm:"type:varchar(500)" json:"item_photo"`
	ItemDescription *string         `gorm:"type:text" json:"item_description"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Total           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
}

func (it OrderItem) Line() LineItem {
	line := LineItem{
		Name:     it.ItemName,
		Type:     it.ItemType,
		ItemID:   it.ItemID,
		Quantity: it.Quantity,
		Price:    it.Price,
		Total:    it.Total,
	}
	if it.ItemDescription != nil {
		line.Description = *it.ItemDescription
	}
	if it.ItemPhoto != nil {
		line.Photo = *it.ItemPhoto
	}
	return line
}
