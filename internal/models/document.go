package models

import "time"

// Document is a versioned key/value record holding one JSON payload,
// such as the full holdings list or the rate parameters.
type Document struct {
	Key       string    `gorm:"primaryKey;size:128" json:"key"`
	Payload   string    `gorm:"type:text;not null" json:"payload"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name used by migrations.
func (Document) TableName() string { return "ledger_documents" }
