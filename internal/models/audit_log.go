package models

// AuditLog records a ledger mutation for later review.
type AuditLog struct {
	Base
	Action    string `gorm:"not null;index" json:"action"`
	HoldingID int64  `gorm:"index" json:"holding_id,omitempty"`
	IPAddress string `json:"ip_address"`
	Changes   string `json:"changes,omitempty"`
}
