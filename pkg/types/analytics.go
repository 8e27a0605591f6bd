package types

type AnalyticsUserStats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

type AnalyticsChatStats struct {
	Total    int64 `json:"total"`
	Messages int64 `json:"messages"`
}

type AnalyticsDocumentStats struct {
	Total   int64 `json:"total"`
	Indexed int64 `json:"indexed"`
	Pending int64 `json:"pending"`
}

type FeedbackBreakdown struct {
	Positive int64 `json:"positive"`
	Negative int64 `json:"negative"`
}

// AnalyticsOverview is the admin dashboard headline block.
type AnalyticsOverview struct {
	Users     AnalyticsUserStats     `json:"users"`
	Chats     AnalyticsChatStats     `json:"chats"`
	Documents AnalyticsDocumentStats `json:"documents"`
	Feedback  FeedbackBreakdown      `json:"feedback"`
}

// DailyUsage is one day of chat activity, Date formatted YYYY-MM-DD.
type DailyUsage struct {
	Date     string `json:"date" db:"day"`
	Messages int64  `json:"messages" db:"messages"`
}

type TopUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	ChatCount int64  `json:"chat_count"`
}

type TopFolder struct {
	ID            string `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	Path          string `json:"path" db:"path"`
	DocumentCount int64  `json:"document_count" db:"document_count"`
	UserCount     int64  `json:"user_count" db:"user_count"`
}

// UnansweredQuestion is a question whose answer had no document grounding.
type UnansweredQuestion struct {
	MessageID string `json:"message_id" db:"id"`
	Question  string `json:"question" db:"question"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
}
