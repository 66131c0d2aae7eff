package domain

import "time"

// Idempotency records the outcome of a previously accepted write, keyed by
// (client_key, scope, key). A retried request carrying the same
// Idempotency-Key is answered from this record without repeating side
// effects such as persisting a second submission or sending e-mail twice.
type Idempotency struct {
	ID         string    `gorm:"type:char(36);primaryKey"`
	ClientKey  string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_idem_client_scope_key,priority:1"`
	Scope      string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_idem_client_scope_key,priority:2"`
	Key        string    `gorm:"column:idem_key;type:varchar(128);not null;uniqueIndex:ux_idem_client_scope_key,priority:3"`
	ResourceID string    `gorm:"type:char(36);not null"`
	Status     int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime"`
	ExpiresAt  time.Time `gorm:"not null;index:idx_idem_expires"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
