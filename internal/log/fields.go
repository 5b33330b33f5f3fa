package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldClientIP     = "client_ip"
	FieldMethod       = "method"
	FieldPath         = "path"
	FieldStatusCode   = "status_code"
	FieldDuration     = "duration_ms"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldSubscription = "subscription_id"
	FieldCategory     = "category_id"
	FieldName         = "name"
	FieldExpiryDate   = "expiry_date"
	FieldDaysLeft     = "days_left"
	FieldLeadDays     = "lead_days"
	FieldCurrency     = "currency"
	FieldCount        = "count"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentService  = "service"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentScanner  = "scanner"
	ComponentNotify   = "notify"
	ComponentSheets   = "sheets"
	ComponentExport   = "export"
	ComponentSeed     = "seed"
)

// Operations defines standard operation names
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpRenew  = "renew"
	OpList   = "list"
	OpScan   = "scan"
	OpSend   = "send"
	OpBackup = "backup"
)
