package constants

// Session and context keys
const (
	SessionCookieName     = "task_session"
	ContextKeyUserID      = "user_id"
	ContextKeyRequestID   = "request_id"
	ContextKeyTask        = "task"
	ContextKeyOrg         = "organization"
	ContextKeyOrgRole     = "organization_role"
	HeaderRequestID       = "X-Request-ID"
	HeaderStripeSignature = "Stripe-Signature"
)

// Validation limits
const (
	MinPasswordLength = 8
	MinMetricValue    = 1
	MaxMetricValue    = 10
	MaxLogEntryLength = 5000
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DateLayout is the wire format for deadline and completion dates.
const DateLayout = "2006-01-02"

// OverviewConcurrency bounds the per-member task fetches of the team overview.
const OverviewConcurrency = 8

// ReportFilename is the download name of the generated team report.
const ReportFilename = "team-productivity-report.pdf"

// MaxWebhookBodyBytes caps the payload read from the payment provider.
const MaxWebhookBodyBytes = 65536
