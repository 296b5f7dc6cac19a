package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReprice(t *testing.T) {
	cases := []struct {
		name     string
		price    string
		discount string
		want     string
	}{
		{"no discount", "100", "0", "100"},
		{"partial discount", "250.50", "50.25", "200.25"},
		{"discount equals price", "80", "80", "0"},
		{"discount exceeds price", "80", "120", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := CatalogItem{
				Price:    decimal.RequireFromString(tc.price),
				Discount: decimal.RequireFromString(tc.discount),
			}
			item.Reprice()
			assert.True(t, decimal.RequireFromString(tc.want).Equal(item.FinalPrice), "got %s", item.FinalPrice)
		})
	}
}

func TestOrderableKinds(t *testing.T) {
	assert.Equal(t, ItemService, NewOrderable(ItemService).Kind())
	assert.Equal(t, ItemMenu, NewOrderable(ItemMenu).Kind())
	assert.Equal(t, ItemMenu, NewOrderable(ItemMenu).Entry().Type)

	assert.Equal(t, "services", Service{}.TableName())
	assert.Equal(t, "menu", MenuItem{}.TableName())
	assert.Equal(t, "menu_items", ItemMenu.MediaFolder())
}

func TestEnumValidity(t *testing.T) {
	for _, s := range AllOrderStatuses() {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, OrderStatus("shipped").Valid())
	assert.Equal(t, "Out for Delivery", OrderOutForDelivery.Label())
	assert.Equal(t, "Cash on Delivery", ModeCOD.Label())
	assert.Equal(t, "weird", PaymentMode("weird").Label())
	assert.False(t, ItemType("combo").Valid())
	assert.False(t, RoleViewer.CanWrite())
	assert.True(t, RoleManager.CanWrite())
}

func TestOrderNumber(t *testing.T) {
	assert.Equal(t, "BMB000042", Order{ID: 42}.Number())
}

func TestParseLineItemsAliases(t *testing.T) {
	raw := `[
		{"item_name":"Paneer Tikka","item_type":"menu","quantity":2,"price":150,"total":300},
		{"name":"Deep Cleaning","type":"service","price":"999.00","photo":"https://img/x.png"},
		{"quantity":3,"price":10}
	]`
	lines := ParseLineItems(raw)
	require.Len(t, lines, 3)

	assert.Equal(t, "Paneer Tikka", lines[0].Name)
	assert.Equal(t, ItemMenu, lines[0].Type)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(300).Equal(lines[0].Total))

	assert.Equal(t, "Deep Cleaning", lines[1].Name)
	assert.Equal(t, ItemService, lines[1].Type)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.Equal(t, "https://img/x.png", lines[1].Photo)
	assert.True(t, decimal.RequireFromString("999").Equal(lines[1].Total))

	assert.Equal(t, "Unknown Item", lines[2].Name)
	assert.True(t, decimal.NewFromInt(30).Equal(lines[2].Total))
}

func TestParseLineItemsGarbage(t *testing.T) {
	assert.Nil(t, ParseLineItems(""))
	assert.Nil(t, ParseLineItems("not json"))
}

func TestLinesPreferStructuredItems(t *testing.T) {
	o := Order{
		Items: `[{"item_name":"Stale"}]`,
		OrderItems: []OrderItem{
			{ItemName: "Fresh", ItemType: ItemMenu, Quantity: 1, Price: decimal.NewFromInt(5), Total: decimal.NewFromInt(5)},
		},
	}
	lines := o.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Fresh", lines[0].Name)
}

func TestBeforeSaveStoresUTC(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	placed := time.Date(2026, 3, 17, 23, 30, 0, 0, ist)
	delivered := placed.Add(time.Hour)

	o := Order{OrderDate: placed, DeliveryDate: &delivered}
	require.NoError(t, o.BeforeSave(nil))
	assert.Equal(t, time.UTC, o.OrderDate.Location())
	assert.Equal(t, "2026-03-17 18:00", o.OrderDate.Format("2006-01-02 15:04"))
	assert.Equal(t, time.UTC, o.DeliveryDate.Location())
	assert.True(t, o.DeliveryDate.Equal(placed.Add(time.Hour)))

	var unset Order
	require.NoError(t, unset.BeforeSave(nil))
	assert.True(t, unset.OrderDate.IsZero())
	assert.Nil(t, unset.DeliveryDate)

	u := User{CreatedAt: placed}
	require.NoError(t, u.BeforeSave(nil))
	assert.Equal(t, time.UTC, u.CreatedAt.Location())
}
