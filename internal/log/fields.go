package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldExpenseID   = "id"
	FieldAmountCents = "amount_cents"
	FieldMerchant    = "merchant"
	FieldCategory    = "category"
	FieldPeriod      = "period"
	FieldModel       = "model"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentStorage    = "storage"
	ComponentExtract    = "extract"
	ComponentTranscribe = "transcribe"
	ComponentAMQP       = "amqp"
	ComponentWorker     = "worker"
	ComponentExport     = "export"
)

// Operations defines standard operation names
const (
	OpCreate     = "create"
	OpRead       = "read"
	OpDelete     = "delete"
	OpList       = "list"
	OpParse      = "parse"
	OpTranscribe = "transcribe"
	OpSummarize  = "summarize"
	OpExport     = "export"
	OpShutdown   = "shutdown"
	OpStartup    = "startup"
)
