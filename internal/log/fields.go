package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldSuccess    = "success"
	FieldError      = "error"

	FieldPeriod      = "period"
	FieldRecordCount = "record_count"
	FieldSourceType  = "source_type"
	FieldTxnType     = "transaction_type"
	FieldTxnID       = "transaction_id"
)

// Components defines standard component names.
const (
	ComponentApp    = "app"
	ComponentWorker = "worker"
)
