package models

import (
	"time"

	"gorm.io/gorm"
)

// All lists every persisted model in dependency order for migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&AdminUser{},
		&Service{},
		&MenuItem{},
		&CartEntry{},
		&Order{},
		&OrderItem{},
		&Payment{},
		&Address{},
		&Review{},
		&Notification{},
	}
}

// inUTC rewrites non-zero timestamps to UTC. SQLite keeps times as text with
// their offset, so range filters only hold when every row is written in UTC.
func inUTC(ts ...*time.Time) {
	for _, t := range ts {
		if t != nil && !t.IsZero() {
			*t = t.UTC()
		}
	}
}

func (o *Order) BeforeSave(*gorm.DB) error {
	inUTC(&o.OrderDate, o.DeliveryDate)
	return nil
}

func (p *Payment) BeforeSave(*gorm.DB) error {
	inUTC(&p.PaymentDate)
	return nil
}

func (u *User) BeforeSave(*gorm.DB) error {
	inUTC(&u.CreatedAt, u.LastLogin)
	return nil
}

func (a *AdminUser) BeforeSave(*gorm.DB) error {
	inUTC(&a.CreatedAt, a.LastLogin)
	return nil
}

func (a *Address) BeforeSave(*gorm.DB) error {
	inUTC(&a.CreatedAt)
	return nil
}

func (r *Review) BeforeSave(*gorm.DB) error {
	inUTC(&r.CreatedAt)
	return nil
}

func (n *Notification) BeforeSave(*gorm.DB) error {
	inUTC(&n.CreatedAt, n.ReadAt)
	return nil
}

func (c *CartEntry) BeforeSave(*gorm.DB) error {
	inUTC(&c.CreatedAt)
	return nil
}
