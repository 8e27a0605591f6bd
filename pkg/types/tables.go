package types

import "fmt"

type TableName string

func (s TableName) Name() string {
	return fmt.Sprintf("%s%s", TABLE_PREFIX, s)
}

const TABLE_PREFIX = "kchat_"

const (
	TABLE_FOLDER          = TableName("folder")
	TABLE_DOCUMENT        = TableName("document")
	TABLE_CHUNK           = TableName("chunk")
	TABLE_CHUNK_VECTOR    = TableName("chunk_vector")
	TABLE_USER            = TableName("user")
	TABLE_GROUP           = TableName("group")
	TABLE_USER_FOLDER     = TableName("user_folder")
	TABLE_USER_GROUP      = TableName("user_group")
	TABLE_GROUP_FOLDER    = TableName("group_folder")
	TABLE_CHAT            = TableName("chat")
	TABLE_CHAT_MESSAGE    = TableName("chat_message")
	TABLE_PROMPT          = TableName("prompt")
	TABLE_SYSTEM_SETTINGS = TableName("system_settings")
	TABLE_AUDIT_LOG       = TableName("audit_log")
)
