// Package taxonomy defines the closed failure taxonomy and the classifier
// that maps raw errors onto it. Every failure raised anywhere in the app
// resolves to exactly one Kind; the category, severity and retryability of
// a failure are pure functions of its Kind.
package taxonomy

// Kind identifies a concrete failure reason.
type Kind string

const (
	// Network
	KindNetworkUnavailable      Kind = "network_unavailable"
	KindNetworkTimeout          Kind = "network_timeout"
	KindNetworkConnectionFailed Kind = "network_connection_failed"
	KindNetworkSlowConnection   Kind = "network_slow_connection"

	// Credential / account state
	KindInvalidCredentials Kind = "invalid_credentials"
	KindInvalidEmail       Kind = "invalid_email"
	KindWeakPassword       Kind = "weak_password"
	KindUserNotFound       Kind = "user_not_found"
	KindEmailAlreadyInUse  Kind = "email_already_in_use"
	KindAccountDisabled    Kind = "account_disabled"
	KindAccountLocked      Kind = "account_locked"
	KindTooManyAttempts    Kind = "too_many_attempts"

	// Session
	KindSessionExpired     Kind = "session_expired"
	KindSessionInvalid     Kind = "session_invalid"
	KindNotAuthenticated   Kind = "not_authenticated"
	KindTokenRefreshFailed Kind = "token_refresh_failed"

	// Server
	KindInvalidInput       Kind = "invalid_input"
	KindValidationFailed   Kind = "validation_failed"
	KindRateLimitExceeded  Kind = "rate_limit_exceeded"
	KindServerError        Kind = "server_error"
	KindServiceUnavailable Kind = "service_unavailable"
	KindServerOverloaded   Kind = "server_overloaded"
	KindMaintenanceMode    Kind = "maintenance_mode"

	// System / device
	KindKeychainError         Kind = "keychain_error"
	KindStorageError          Kind = "storage_error"
	KindImageUploadFailed     Kind = "image_upload_failed"
	KindImageProcessingFailed Kind = "image_processing_failed"
	KindPermissionDenied      Kind = "permission_denied"
	KindUnknown               Kind = "unknown"

	// External sign-in providers
	KindAppleSignInFailed       Kind = "apple_sign_in_failed"
	KindGoogleSignInFailed      Kind = "google_sign_in_failed"
	KindExternalSignInCancelled Kind = "external_sign_in_cancelled"

	// Password reset
	KindPasswordResetFailed  Kind = "password_reset_failed"
	KindPasswordResetExpired Kind = "password_reset_expired"
)

// Category groups kinds for recovery flow selection.
type Category string

const (
	CategoryNetwork        Category = "network"
	CategoryCredential     Category = "credential"
	CategorySession        Category = "session"
	CategoryServer         Category = "server"
	CategorySystem         Category = "system"
	CategoryExternalSignIn Category = "external_sign_in"
	CategoryPasswordReset  Category = "password_reset"
)

// Severity ranks how loudly a failure should surface.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical" // reserved, no kind maps here yet
)

var categories = map[Kind]Category{
	KindNetworkUnavailable:      CategoryNetwork,
	KindNetworkTimeout:          CategoryNetwork,
	KindNetworkConnectionFailed: CategoryNetwork,
	KindNetworkSlowConnection:   CategoryNetwork,

	KindInvalidCredentials: CategoryCredential,
	KindInvalidEmail:       CategoryCredential,
	KindWeakPassword:       CategoryCredential,
	KindUserNotFound:       CategoryCredential,
	KindEmailAlreadyInUse:  CategoryCredential,
	KindAccountDisabled:    CategoryCredential,
	KindAccountLocked:      CategoryCredential,
	KindTooManyAttempts:    CategoryCredential,

	KindSessionExpired:     CategorySession,
	KindSessionInvalid:     CategorySession,
	KindNotAuthenticated:   CategorySession,
	KindTokenRefreshFailed: CategorySession,

	KindInvalidInput:       CategoryServer,
	KindValidationFailed:   CategoryServer,
	KindRateLimitExceeded:  CategoryServer,
	KindServerError:        CategoryServer,
	KindServiceUnavailable: CategoryServer,
	KindServerOverloaded:   CategoryServer,
	KindMaintenanceMode:    CategoryServer,

	KindKeychainError:         CategorySystem,
	KindStorageError:          CategorySystem,
	KindImageUploadFailed:     CategorySystem,
	KindImageProcessingFailed: CategorySystem,
	KindPermissionDenied:      CategorySystem,
	KindUnknown:               CategorySystem,

	KindAppleSignInFailed:       CategoryExternalSignIn,
	KindGoogleSignInFailed:      CategoryExternalSignIn,
	KindExternalSignInCancelled: CategoryExternalSignIn,

	KindPasswordResetFailed:  CategoryPasswordReset,
	KindPasswordResetExpired: CategoryPasswordReset,
}

// retryableKinds is the exact set of kinds worth retrying automatically.
// Credential, validation and account-state failures never retry.
var retryableKinds = map[Kind]bool{
	KindNetworkUnavailable:      true,
	KindNetworkTimeout:          true,
	KindNetworkConnectionFailed: true,
	KindNetworkSlowConnection:   true,
	KindServerError:             true,
	KindServiceUnavailable:      true,
	KindServerOverloaded:        true,
	KindRateLimitExceeded:       true,
	KindStorageError:            true,
	KindImageUploadFailed:       true,
}

// CategoryOf returns the category for a kind. Unlisted kinds fall back to
// the system category, same as unknown.
func CategoryOf(k Kind) Category {
	if c, ok := categories[k]; ok {
		return c
	}
	return CategorySystem
}

// SeverityOf returns the severity for a kind.
func SeverityOf(k Kind) Severity {
	switch CategoryOf(k) {
	case CategoryNetwork:
		return SeverityWarning
	case CategoryCredential:
		// Locked accounts surface louder than a bad password.
		if k == KindAccountLocked || k == KindAccountDisabled {
			return SeverityError
		}
		return SeverityWarning
	case CategoryServer:
		if k == KindInvalidInput || k == KindValidationFailed {
			return SeverityWarning
		}
		return SeverityError
	case CategorySession:
		return SeverityError
	case CategoryExternalSignIn, CategoryPasswordReset:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// IsRetryable reports whether failures of this kind are safe to retry
// automatically.
func IsRetryable(k Kind) bool {
	return retryableKinds[k]
}
