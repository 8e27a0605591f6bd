package i18n

var ALLOW_LANG = map[string]bool{
	"en": true,
	"de": true,
}

const DEFAULT_LANG = "de"

const (
	ERROR_INTERNAL            = "error.internal"
	ERROR_NOT_FOUND           = "error.notfound"
	ERROR_INVALIDARGUMENT     = "error.invalidargument"
	ERROR_PERMISSION_DENIED   = "error.permission.denied"
	ERROR_UNAUTHORIZED        = "error.unauthorized"
	ERROR_EXIST               = "error.exist"
	ERROR_FORBIDDEN           = "error.forbidden"
	ERROR_TOO_MANY_REQUESTS   = "error.tooManyRequests"
	ERROR_INVALID_TOKEN       = "error.invalid.token"
	ERROR_INVALID_ACCOUNT     = "error.invalid.account"
	ERROR_USER_DISABLED       = "error.user.disabled"
	ERROR_FOLDER_PATH_EXIST   = "error.folder.path.exist"
	ERROR_ANALYTICS_DISABLED  = "error.analytics.disabled"
	ERROR_DOCUMENT_NO_CONTENT = "error.document.no.content"
	ERROR_UNSUPPORTED_PARSER  = "error.unsupported.parser"

	// Degradation answers surfaced as successful chat responses.
	MESSAGE_LLM_RATE_LIMITED     = "message.llm.rate_limited"
	MESSAGE_LLM_CONTEXT_TOO_LONG = "message.llm.context_too_long"
)
