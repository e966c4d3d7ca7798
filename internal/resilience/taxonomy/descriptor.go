package taxonomy

import "fmt"

// Descriptor is the immutable classified representation of a failure.
// Category, Severity and Retryable are always derived from Kind via
// Describe; construct descriptors through Describe or Classify only.
type Descriptor struct {
	Kind       Kind     `json:"kind"`
	Code       int      `json:"code,omitempty"` // HTTP status for server_error, 0 otherwise
	Category   Category `json:"category"`
	Severity   Severity `json:"severity"`
	Retryable  bool     `json:"retryable"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Describe builds the descriptor for a kind, deriving every property.
func Describe(k Kind) Descriptor {
	return DescribeCode(k, 0)
}

// DescribeCode builds a descriptor carrying an HTTP status code
// (meaningful for server_error, ignored by the derivations).
func DescribeCode(k Kind, code int) Descriptor {
	msg, suggestion := messageFor(k, code)
	return Descriptor{
		Kind:       k,
		Code:       code,
		Category:   CategoryOf(k),
		Severity:   SeverityOf(k),
		Retryable:  IsRetryable(k),
		Message:    msg,
		Suggestion: suggestion,
	}
}

func messageFor(k Kind, code int) (msg, suggestion string) {
	switch k {
	case KindNetworkUnavailable:
		return "No internet connection.", "Check your connection and try again."
	case KindNetworkTimeout:
		return "The request timed out.", "Try again in a moment."
	case KindNetworkConnectionFailed:
		return "Could not reach the server.", "Check your connection and try again."
	case KindNetworkSlowConnection:
		return "Your connection is slow.", "Move to a stronger signal or try again later."
	case KindInvalidCredentials:
		return "The email or password is incorrect.", "Double-check your credentials."
	case KindInvalidEmail:
		return "That email address doesn't look right.", "Check the address for typos."
	case KindWeakPassword:
		return "That password is too weak.", "Use at least 8 characters with a mix of letters and numbers."
	case KindUserNotFound:
		return "No account was found for that email.", "Check the address or create an account."
	case KindEmailAlreadyInUse:
		return "An account with that email already exists.", "Sign in instead, or reset your password."
	case KindAccountDisabled:
		return "This account has been disabled.", "Contact support for help."
	case KindAccountLocked:
		return "This account is temporarily locked.", "Wait a few minutes before trying again."
	case KindTooManyAttempts:
		return "Too many sign-in attempts.", "Wait a few minutes before trying again."
	case KindSessionExpired:
		return "Your session has expired.", "Sign in again to continue."
	case KindSessionInvalid:
		return "Your session is no longer valid.", "Sign in again to continue."
	case KindNotAuthenticated:
		return "You need to sign in to do that.", "Sign in and try again."
	case KindTokenRefreshFailed:
		return "Could not refresh your session.", "Sign in again to continue."
	case KindInvalidInput:
		return "Some of the information entered is invalid.", "Review the highlighted fields."
	case KindValidationFailed:
		return "The server rejected the request.", "Review the entered information and try again."
	case KindRateLimitExceeded:
		return "Too many requests right now.", "Wait a moment and try again."
	case KindServerError:
		if code > 0 {
			return fmt.Sprintf("The server hit an unexpected problem (%d).", code),
				"Try again shortly."
		}
		return "The server hit an unexpected problem.", "Try again shortly."
	case KindServiceUnavailable:
		return "The service is temporarily unavailable.", "Try again shortly."
	case KindServerOverloaded:
		return "The service is overloaded right now.", "Try again shortly."
	case KindMaintenanceMode:
		return "The service is down for maintenance.", "Try again later."
	case KindKeychainError:
		return "Could not access secure storage on this device.", "Restart the app and try again."
	case KindStorageError:
		return "Could not save your data.", "Free up space and try again."
	case KindImageUploadFailed:
		return "The artwork upload failed.", "Check your connection and try again."
	case KindImageProcessingFailed:
		return "We couldn't process that image.", "Try a different photo."
	case KindPermissionDenied:
		return "The app doesn't have the required permission.", "Enable it in Settings."
	case KindAppleSignInFailed:
		return "Sign in with Apple failed.", "Try again or use your email instead."
	case KindGoogleSignInFailed:
		return "Sign in with Google failed.", "Try again or use your email instead."
	case KindExternalSignInCancelled:
		return "Sign-in was cancelled.", "Try again when you're ready."
	case KindPasswordResetFailed:
		return "Could not send the reset email.", "Check the address and try again."
	case KindPasswordResetExpired:
		return "That reset link has expired.", "Request a new one."
	default:
		return "Something went wrong.", "Try again, and contact support if it keeps happening."
	}
}
