package session

import "github.com/Skotchmaster/crm_dashboard/internal/store"

const (
	OpLogin      = "auth/loginUser"
	OpSignup     = "auth/signupUser"
	OpLogout     = "auth/logout"
	OpInitialize = "auth/initialize"

	ActionSet        = "auth/setAuthData"
	ActionClear      = "auth/clearAuth"
	ActionSetGuest   = "auth/setGuestAuth"
	ActionClearError = "auth/clearError"
)

// Variant selects which reducer drives the session state.
type Variant string

const (
	// VariantDelegating follows the provider: authenticated iff a session
	// is held.
	VariantDelegating Variant = "delegating"
	// VariantGuest always reports the fixed guest identity as
	// authenticated.
	VariantGuest Variant = "guest"
)

func InitialState(v Variant) State {
	if v == VariantGuest {
		return guestState(State{})
	}
	return State{}
}

func ReducerFor(v Variant) store.Reducer[State] {
	if v == VariantGuest {
		return ReduceGuest
	}
	return Reduce
}

func Reduce(s State, a store.Action) State {
	switch a.Type {
	case store.PendingType(OpLogin), store.PendingType(OpSignup),
		store.PendingType(OpLogout), store.PendingType(OpInitialize):
		s.IsLoading = true
		s.Error = ""

	case store.FulfilledType(OpLogin), store.FulfilledType(OpSignup), ActionSet:
		s = applyAuth(s, a.Payload)
		s.IsLoading = false
		if a.Type == ActionSet {
			s.IsInitialized = true
		}
	case store.RejectedType(OpLogin):
		s = rejected(s, a.Payload, "Login failed")
		s.IsAuthenticated = false
	case store.RejectedType(OpSignup):
		s = rejected(s, a.Payload, "Signup failed")
		s.IsAuthenticated = false

	case store.FulfilledType(OpLogout), ActionClear:
		s.User = nil
		s.Session = nil
		s.IsAuthenticated = false
		s.IsLoading = false
		if a.Type == ActionClear {
			s.IsInitialized = true
		}
	case store.RejectedType(OpLogout):
		s = rejected(s, a.Payload, "Logout failed")

	case store.FulfilledType(OpInitialize):
		s = applyAuth(s, a.Payload)
		s.IsLoading = false
		s.IsInitialized = true
	case store.RejectedType(OpInitialize):
		s = rejected(s, a.Payload, "Failed to initialize session")
		s.IsInitialized = true

	case ActionSetGuest:
		s = guestState(s)
	case ActionClearError:
		s.Error = ""
	}
	return s
}

// ReduceGuest never drops authentication: every path, including the
// rejected ones, ends with the guest (or guest-defaulted) identity.
func ReduceGuest(s State, a store.Action) State {
	switch a.Type {
	case store.PendingType(OpLogin), store.PendingType(OpSignup),
		store.PendingType(OpLogout), store.PendingType(OpInitialize):
		s.IsLoading = true
		s.Error = ""

	case store.FulfilledType(OpLogin), store.FulfilledType(OpSignup):
		s = applyGuestAuth(s, a.Payload)
		s.IsLoading = false
		s.Error = ""
	case store.RejectedType(OpLogin):
		s = rejected(s, a.Payload, "Login failed")
		s.IsAuthenticated = true
	case store.RejectedType(OpSignup):
		s = rejected(s, a.Payload, "Signup failed")
		s.IsAuthenticated = true

	case store.FulfilledType(OpLogout), store.FulfilledType(OpInitialize),
		ActionSetGuest, ActionClear:
		s = guestState(s)
	case store.RejectedType(OpLogout), store.RejectedType(OpInitialize):
		s = guestState(s)
		s.Error = messageOr(a.Payload, "Session error")

	case ActionSet:
		s = applyGuestAuth(s, a.Payload)
		s.IsLoading = false
		s.IsInitialized = true
	case ActionClearError:
		s.Error = ""
	}
	return s
}

func applyAuth(s State, payload any) State {
	resp, _ := payload.(*AuthResponse)
	if resp == nil {
		s.User = nil
		s.Session = nil
		s.IsAuthenticated = false
		return s
	}
	s.User = &User{
		ID:        resp.User.ID,
		Email:     resp.User.Email,
		FirstName: resp.User.UserMetadata.FirstName,
		LastName:  resp.User.UserMetadata.LastName,
		Phone:     resp.User.UserMetadata.Phone,
	}
	s.Session = resp.Session
	s.IsAuthenticated = resp.Session != nil
	return s
}

func applyGuestAuth(s State, payload any) State {
	resp, _ := payload.(*AuthResponse)
	if resp == nil {
		return guestState(s)
	}
	s.User = &User{
		ID:        orDefault(resp.User.ID, GuestID),
		Email:     orDefault(resp.User.Email, GuestEmail),
		FirstName: orDefault(resp.User.UserMetadata.FirstName, GuestFirst),
		LastName:  orDefault(resp.User.UserMetadata.LastName, GuestLast),
		Phone:     resp.User.UserMetadata.Phone,
	}
	s.Session = resp.Session
	if s.Session == nil {
		s.Session = GuestSession()
	}
	s.IsAuthenticated = true
	return s
}

func guestState(s State) State {
	s.User = GuestUser()
	s.Session = GuestSession()
	s.IsAuthenticated = true
	s.IsLoading = false
	s.IsInitialized = true
	return s
}

func rejected(s State, payload any, def string) State {
	s.IsLoading = false
	s.Error = messageOr(payload, def)
	return s
}

func messageOr(payload any, def string) string {
	if msg, ok := payload.(string); ok && msg != "" {
		return msg
	}
	return def
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
