package session

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Session is the opaque handle issued by the auth provider.
type Session struct {
	UserID       string `json:"userId"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"-"`
	ExpiresAt    int64  `json:"expiresAt,omitempty"`
}

type State struct {
	User            *User    `json:"user"`
	Session         *Session `json:"session"`
	IsLoading       bool     `json:"isLoading"`
	Error           string   `json:"error,omitempty"`
	IsAuthenticated bool     `json:"isAuthenticated"`
	IsInitialized   bool     `json:"isInitialized"`
}

type Credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupCredentials struct {
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=6"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

type UserMetadata struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ProviderUser is the identity as reported by the auth provider.
type ProviderUser struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	UserMetadata UserMetadata `json:"user_metadata"`
}

type AuthResponse struct {
	User    ProviderUser `json:"user"`
	Session *Session     `json:"session"`
}

type EventType string

const (
	EventInitialSession EventType = "INITIAL_SESSION"
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
	EventUserUpdated    EventType = "USER_UPDATED"
)

// Event is pushed by a provider whenever its session changes. Auth is nil
// for SIGNED_OUT.
type Event struct {
	Type EventType
	Auth *AuthResponse
}

const (
	GuestID    = "guest-user"
	GuestEmail = "guest@example.com"
	GuestFirst = "Guest"
	GuestLast  = "User"
)

func GuestUser() *User {
	return &User{ID: GuestID, Email: GuestEmail, FirstName: GuestFirst, LastName: GuestLast}
}

func GuestSession() *Session {
	return &Session{UserID: GuestID}
}
