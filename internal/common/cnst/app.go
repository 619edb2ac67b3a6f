package cnst

const (
	// AppName is the service name used for logging, metrics and tracing
	AppName = "pfotencard-console"

	// TenantHeader identifies the tenant (school subdomain) on backend requests
	TenantHeader = "X-Tenant"

	// SessionCookie is the name of the signed session cookie
	SessionCookie = "pfc_session"
)

// Console paths that are part of the payment flow. They stay reachable for
// any authenticated session so a tenant without a valid subscription can
// still reach the page that lets it pay.
const (
	PathHome     = "/"
	PathLogin    = "/login"
	PathRegister = "/registrieren"
	PathPricing  = "/preise"
	PathCheckout = "/checkout"
	PathBilling  = "/billing"
	PathSettings = "/einstellungen"
)
