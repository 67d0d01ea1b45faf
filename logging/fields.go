package logging

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldPrincipal  = "principal"
	FieldRate       = "annual_rate_percent"
	FieldTerm       = "term_months"
	FieldFormat     = "format"
	FieldBackend    = "backend"
)

// Component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLoan      = "loan"
	ComponentExport    = "export"
	ComponentStorage   = "storage"
	ComponentCache     = "cache"
	ComponentAMQP      = "amqp"
	ComponentRateLimit = "rate_limit"
)

// Operation names
const (
	OpCalculate = "calculate"
	OpRecommend = "recommend"
	OpExport    = "export"
	OpRecord    = "record"
	OpPublish   = "publish"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
