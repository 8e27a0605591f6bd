package types

import (
	"encoding/json"
	"fmt"
)

type AuditDetails map[string]interface{}

func (d AuditDetails) String() string {
	if len(d) == 0 {
		return "{}"
	}
	raw, _ := json.Marshal(d)
	return string(raw)
}

func (d *AuditDetails) Scan(src interface{}) error {
	switch src := src.(type) {
	case []byte:
		return json.Unmarshal(src, d)
	case string:
		return json.Unmarshal([]byte(src), d)
	case nil:
		*d = nil
		return nil
	}
	return fmt.Errorf("pq: cannot convert %T to AuditDetails", src)
}

type AuditLog struct {
	ID         string       `json:"id" db:"id"`
	UserID     string       `json:"user_id" db:"user_id"`
	Action     string       `json:"action" db:"action"`
	EntityType string       `json:"entity_type" db:"entity_type"`
	EntityID   string       `json:"entity_id" db:"entity_id"`
	Details    AuditDetails `json:"details" db:"details"`
	IPAddress  string       `json:"ip_address" db:"ip_address"`
	CreatedAt  int64        `json:"created_at" db:"created_at"`
}

const (
	AUDIT_ACTION_LOGIN        = "LOGIN"
	AUDIT_ACTION_LOGIN_FAILED = "LOGIN_FAILED"

	AUDIT_ACTION_USER_CREATE        = "USER_CREATE"
	AUDIT_ACTION_USER_UPDATE        = "USER_UPDATE"
	AUDIT_ACTION_USER_DELETE        = "USER_DELETE"
	AUDIT_ACTION_USER_FOLDER_ASSIGN = "USER_FOLDER_ASSIGN"
	AUDIT_ACTION_USER_GROUP_ASSIGN  = "USER_GROUP_ASSIGN"

	AUDIT_ACTION_GROUP_CREATE = "GROUP_CREATE"
	AUDIT_ACTION_GROUP_UPDATE = "GROUP_UPDATE"
	AUDIT_ACTION_GROUP_DELETE = "GROUP_DELETE"

	AUDIT_ACTION_FOLDER_CREATE    = "FOLDER_CREATE"
	AUDIT_ACTION_FOLDER_UPDATE    = "FOLDER_UPDATE"
	AUDIT_ACTION_FOLDER_DELETE    = "FOLDER_DELETE"
	AUDIT_ACTION_DOCUMENT_CREATE  = "DOCUMENT_CREATE"
	AUDIT_ACTION_DOCUMENT_DELETE  = "DOCUMENT_DELETE"
	AUDIT_ACTION_DOCUMENT_REINDEX = "DOCUMENT_REINDEX"

	AUDIT_ACTION_CHAT_MESSAGE  = "CHAT_MESSAGE"
	AUDIT_ACTION_CHAT_FEEDBACK = "CHAT_FEEDBACK"
	AUDIT_ACTION_CHAT_PREVIEW  = "CHAT_PREVIEW"

	AUDIT_ACTION_SETTINGS_UPDATE = "SETTINGS_UPDATE"
	AUDIT_ACTION_PROMPT_UPDATE   = "PROMPT_UPDATE"
)
