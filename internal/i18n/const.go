package i18n

// Common errors
var (
	ErrNotFound       = NewErrorWithCode("ErrorResourceNotFound", ErrorNotFound)
	ErrUnauthorized   = NewErrorWithCode("ErrorUnauthorized", ErrorUnauthorized)
	ErrForbidden      = NewErrorWithCode("ErrorForbidden", ErrorForbidden)
	ErrBadRequest     = NewErrorWithCode("ErrorBadRequest", ErrorBadRequest)
	ErrInternalServer = NewErrorWithCode("ErrorInternalServer", ErrorInternalServer)
)

// Session related errors
var (
	ErrorSessionExpired     = NewErrorWithCode("ErrorSessionExpired", ErrorUnauthorized)
	ErrorInvalidCredentials = NewErrorWithCode("ErrorInvalidCredentials", ErrorUnauthorized)
	ErrorLoginRequired      = NewErrorWithCode("ErrorLoginRequired", ErrorUnauthorized)
)

// Tenant related errors
var (
	ErrorSchoolNotFound       = NewErrorWithCode("ErrorSchoolNotFound", ErrorNotFound)
	ErrorSubdomainRequired    = NewErrorWithCode("ErrorSubdomainRequired", ErrorBadRequest)
	ErrorRegistrationRejected = NewErrorWithCode("ErrorRegistrationRejected", ErrorBadRequest)
	ErrorSubscriptionRequired = NewErrorWithCode("ErrorSubscriptionRequired", ErrorPaymentRequired)
)

// Settings related errors
var (
	ErrorSettingsLoadFailed   = NewErrorWithCode("ErrorSettingsLoadFailed", ErrorInternalServer)
	ErrorSettingsSaveFailed   = NewErrorWithCode("ErrorSettingsSaveFailed", ErrorInternalServer)
	ErrorSettingsInvalid      = NewErrorWithCode("ErrorSettingsInvalid", ErrorBadRequest)
	ErrorImageUploadFailed    = NewErrorWithCode("ErrorImageUploadFailed", ErrorInternalServer)
	ErrorServiceNameRequired  = NewErrorWithCode("ErrorServiceNameRequired", ErrorBadRequest)
	ErrorRequirementUnsaved   = NewErrorWithCode("ErrorRequirementUnsaved", ErrorBadRequest)
)

// Billing related errors
var (
	ErrorPlanRequired    = NewErrorWithCode("ErrorPlanRequired", ErrorBadRequest)
	ErrorCheckoutFailed  = NewErrorWithCode("ErrorCheckoutFailed", ErrorInternalServer)
	ErrorBillingFailed   = NewErrorWithCode("ErrorBillingFailed", ErrorInternalServer)
	ErrorBackendRejected = NewErrorWithCode("ErrorBackendRejected", ErrorBadRequest)
)
