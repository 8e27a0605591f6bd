package types

type Group struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	CreatedAt   int64  `json:"created_at" db:"created_at"`
	UpdatedAt   int64  `json:"updated_at" db:"updated_at"`
}

type GroupFolder struct {
	GroupID   string `json:"group_id" db:"group_id"`
	FolderID  string `json:"folder_id" db:"folder_id"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
}
