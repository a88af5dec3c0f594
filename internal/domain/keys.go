package domain

// Storage keys. All but KeyTheme are session scoped.
const (
	KeyCart          = "cart"
	KeyLastOrderCart = "lastOrderCart"
	KeyLoggedIn      = "loggedIn"
	KeyUser          = "user"
	KeyCartPanel     = "cartPanel"
	KeyTheme         = "theme"
)

// LoggedInSentinel is the only value of KeyLoggedIn that means logged in.
const LoggedInSentinel = "true"
