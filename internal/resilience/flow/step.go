// Package flow walks a user through ordered remediation steps for
// failures that cannot be silently retried. Steps are data; executing
// one delegates to caller-supplied handlers.
package flow

import "github.com/jamlando/joanie-resilience/internal/resilience/taxonomy"

// StepID names a remediation action from the fixed catalog.
type StepID string

const (
	StepCheckConnection  StepID = "check_connection"
	StepSwitchNetwork    StepID = "switch_network"
	StepRetryOperation   StepID = "retry_operation"
	StepWaitAndRetry     StepID = "wait_and_retry"
	StepCheckStatusPage  StepID = "check_status_page"
	StepVerifyCredential StepID = "verify_credentials"
	StepResetPassword    StepID = "reset_password"
	StepRequestNewLink   StepID = "request_new_link"
	StepCheckSpamFolder  StepID = "check_spam_folder"
	StepRefreshSession   StepID = "refresh_session"
	StepSignInAgain      StepID = "sign_in_again"
	StepRetryProvider    StepID = "retry_provider"
	StepUseEmailSignIn   StepID = "use_email_sign_in"
	StepFreeUpStorage    StepID = "free_up_storage"
	StepClearCache       StepID = "clear_cache"
	StepCheckPermissions StepID = "check_permissions"
	StepRestartApp       StepID = "restart_app"
	StepUpdateApp        StepID = "update_app"
	StepContactSupport   StepID = "contact_support"
)

// Step is a static catalog entry. The engine sequences steps; it has no
// idea how any of them are carried out.
type Step struct {
	ID          StepID `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

var catalog = map[StepID]Step{
	StepCheckConnection: {
		ID:          StepCheckConnection,
		Title:       "Check your connection",
		Description: "Make sure Wi-Fi or cellular data is turned on.",
		Icon:        "wifi",
	},
	StepSwitchNetwork: {
		ID:          StepSwitchNetwork,
		Title:       "Try a different network",
		Description: "Switch between Wi-Fi and cellular data.",
		Icon:        "antenna",
	},
	StepRetryOperation: {
		ID:          StepRetryOperation,
		Title:       "Try again",
		Description: "Retry what you were doing.",
		Icon:        "arrow-clockwise",
	},
	StepWaitAndRetry: {
		ID:          StepWaitAndRetry,
		Title:       "Wait a moment",
		Description: "Give the service a minute, then try again.",
		Icon:        "clock",
	},
	StepCheckStatusPage: {
		ID:          StepCheckStatusPage,
		Title:       "Check service status",
		Description: "See if the service is reporting an outage.",
		Icon:        "chart-bar",
	},
	StepVerifyCredential: {
		ID:          StepVerifyCredential,
		Title:       "Check your details",
		Description: "Make sure your email and password are correct.",
		Icon:        "person",
	},
	StepResetPassword: {
		ID:          StepResetPassword,
		Title:       "Reset your password",
		Description: "We'll email you a link to set a new password.",
		Icon:        "key",
	},
	StepRequestNewLink: {
		ID:          StepRequestNewLink,
		Title:       "Request a new link",
		Description: "Send a fresh password reset email.",
		Icon:        "envelope",
	},
	StepCheckSpamFolder: {
		ID:          StepCheckSpamFolder,
		Title:       "Check your spam folder",
		Description: "The reset email may have been filtered.",
		Icon:        "tray",
	},
	StepRefreshSession: {
		ID:          StepRefreshSession,
		Title:       "Refresh your session",
		Description: "Reconnect to your account.",
		Icon:        "arrow-triangle-2-circlepath",
	},
	StepSignInAgain: {
		ID:          StepSignInAgain,
		Title:       "Sign in again",
		Description: "Sign out and back in to start a new session.",
		Icon:        "person-badge-key",
	},
	StepRetryProvider: {
		ID:          StepRetryProvider,
		Title:       "Try the provider again",
		Description: "Retry signing in with Apple or Google.",
		Icon:        "arrow-clockwise",
	},
	StepUseEmailSignIn: {
		ID:          StepUseEmailSignIn,
		Title:       "Use your email instead",
		Description: "Sign in with your email and password.",
		Icon:        "at",
	},
	StepFreeUpStorage: {
		ID:          StepFreeUpStorage,
		Title:       "Free up space",
		Description: "Delete unused apps or photos to make room.",
		Icon:        "externaldrive",
	},
	StepClearCache: {
		ID:          StepClearCache,
		Title:       "Clear cached data",
		Description: "Remove temporary files the app has stored.",
		Icon:        "trash",
	},
	StepCheckPermissions: {
		ID:          StepCheckPermissions,
		Title:       "Check app permissions",
		Description: "Enable the required permission in Settings.",
		Icon:        "gear",
	},
	StepRestartApp: {
		ID:          StepRestartApp,
		Title:       "Restart the app",
		Description: "Close the app fully and open it again.",
		Icon:        "power",
	},
	StepUpdateApp: {
		ID:          StepUpdateApp,
		Title:       "Update the app",
		Description: "Install the latest version from the App Store.",
		Icon:        "square-and-arrow-down",
	},
	StepContactSupport: {
		ID:          StepContactSupport,
		Title:       "Contact support",
		Description: "We'll help you sort this out.",
		Icon:        "questionmark-circle",
	},
}

// sequences maps each failure category to its ordered remediation steps.
// Every sequence ends with contact_support so a flow always has a
// non-failing final step.
var sequences = map[taxonomy.Category][]StepID{
	taxonomy.CategoryNetwork: {
		StepCheckConnection, StepRetryOperation, StepSwitchNetwork, StepContactSupport,
	},
	taxonomy.CategoryCredential: {
		StepVerifyCredential, StepResetPassword, StepContactSupport,
	},
	taxonomy.CategorySession: {
		StepRefreshSession, StepSignInAgain, StepContactSupport,
	},
	taxonomy.CategoryServer: {
		StepWaitAndRetry, StepRetryOperation, StepCheckStatusPage, StepContactSupport,
	},
	taxonomy.CategorySystem: {
		StepFreeUpStorage, StepClearCache, StepCheckPermissions, StepRestartApp,
		StepUpdateApp, StepContactSupport,
	},
	taxonomy.CategoryExternalSignIn: {
		StepRetryProvider, StepUseEmailSignIn, StepContactSupport,
	},
	taxonomy.CategoryPasswordReset: {
		StepRequestNewLink, StepCheckSpamFolder, StepContactSupport,
	},
}

// Catalog returns the step definition for an ID.
func Catalog(id StepID) (Step, bool) {
	s, ok := catalog[id]
	return s, ok
}

// StepsFor returns the ordered step list for a category. Unknown
// categories get the system sequence.
func StepsFor(cat taxonomy.Category) []Step {
	ids, ok := sequences[cat]
	if !ok {
		ids = sequences[taxonomy.CategorySystem]
	}
	steps := make([]Step, len(ids))
	for i, id := range ids {
		steps[i] = catalog[id]
	}
	return steps
}
