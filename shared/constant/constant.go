package constant

type contextKey string

const (
	ContextKeyRequestID contextKey = "request_id"
	ContextKeyTenantID  contextKey = "tenant_id"
)

const (
	RequestMaxMemory = 1 << 20 // 1 MB
	FieldTenantID    = "tenant_id"
)

const (
	PqErrorCodeUniqueViolation       = "23505"
	PqErrorCodeInsufficientPrivilege = "42501"
)

const (
	DayFormat      = "2006-01-02"
	ClockFormat    = "15:04"
	SlotTimeFormat = "2006-01-02T15:04:05.000Z07:00"
)

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelEventScopeName      = "event"
	OtelExternalScopeName   = "external"

	OtelQueryAttributeKey = "query"
)

const (
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
	RequestHeaderRequestID          = "X-Request-ID"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
	RequestHeaderIdempotencyKey     = "Idempotency-Key"
)

const (
	ContentTypeJSON = "application/json"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	DefaultHoldTTLMinutes          = 10
	DefaultDurationMinutes         = 120
	DefaultRecoveryAttempts        = 3
	DefaultRecoveryBackoffMillis   = 150
	DefaultVerificationLookback    = 5
	DefaultVerificationTimeoutMs   = 500
	DefaultLockTTLSeconds          = 10
	DefaultPurgeIntervalSeconds    = 60
	DefaultConfirmationNumberLen   = 8
	ConfirmationNumberPrefix       = "TB-"
	DefaultVerificationWindowHours = 2
	MaxBookingDurationMinutes      = 720
)

const (
	BrokerDriverKafka    = "kafka"
	BrokerDriverRabbitMQ = "rabbitmq"

	DefaultConfirmedTopic = "reservation.confirmed"
)

const (
	Empty = ""
)
