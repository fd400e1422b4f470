package models

import (
	"encoding/json"
	"time"
)

// LogEntry is an append-only audit record written by the database trigger.
type LogEntry struct {
	ActionStamp time.Time       `json:"action_stamp_tx"`
	OldData     json.RawMessage `json:"old_data,omitempty"`
	NewData     json.RawMessage `json:"new_data,omitempty"`
	SchemaName  string          `json:"schema_name"`
	TableName   string          `json:"table_name"`
	Action      string          `json:"action"`
	ClientAddr  string          `json:"client_addr"`
	ID          int64           `json:"id"`
	RowPkID     *int64          `json:"row_pk_id"`
	UID         *int64          `json:"uid"`
}

// SecureEntry is an authentication-related event (login, failed login, logout).
type SecureEntry struct {
	Date   time.Time `json:"date"`
	IP     string    `json:"ip"`
	Action string    `json:"action"`
	Info   string    `json:"info"`
	ID     int64     `json:"id"`
	UID    *int64    `json:"uid"`
}

// BlacklistEntry is an IP address denied access to the API.
type BlacklistEntry struct {
	CreatedAt time.Time `json:"created_at"`
	IP        string    `json:"ip"`
	Details   string    `json:"details"`
	ID        int64     `json:"id"`
	UID       *int64    `json:"uid"`
}
