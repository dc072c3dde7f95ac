package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Skotchmaster/crm_dashboard/internal/logging"
	"github.com/Skotchmaster/crm_dashboard/internal/store"
)

const EventsTopic = "user_events"

var validate = validator.New()

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// Store owns the session state and runs the four auth operations against
// a Provider.
type Store struct {
	Provider        Provider
	Publisher       Publisher
	Variant         Variant
	EmailRedirectTo string

	state *store.Store[State]

	mu          sync.Mutex
	unsubscribe func()
}

func NewStore(p Provider, v Variant) *Store {
	return &Store{
		Provider: p,
		Variant:  v,
		state:    store.New(InitialState(v), ReducerFor(v)),
	}
}

func (s *Store) State() State {
	return s.state.State()
}

func (s *Store) Subscribe(fn store.Listener[State]) func() {
	return s.state.Subscribe(fn)
}

func (s *Store) ClearError() {
	s.state.Dispatch(store.Action{Type: ActionClearError})
}

// Initialize reads the provider's current session and, once per store,
// subscribes to provider session events.
func (s *Store) Initialize(ctx context.Context) store.Async[State] {
	l := logging.FromContext(ctx).With("svc", "session.initialize", "variant", s.Variant)

	s.state.Dispatch(store.Action{Type: store.PendingType(OpInitialize)})

	s.mu.Lock()
	if s.unsubscribe == nil {
		s.unsubscribe = s.Provider.OnAuthStateChange(s.onEvent)
	}
	s.mu.Unlock()

	resp, err := s.Provider.GetSession(ctx)
	if err != nil {
		l.Error("initialize_error", "reason", "cannot read provider session", "error", err)
		s.state.Dispatch(store.Action{Type: store.RejectedType(OpInitialize), Payload: err.Error()})
		return store.Err[State](s.State().Error)
	}

	st := s.state.Dispatch(store.Action{Type: store.FulfilledType(OpInitialize), Payload: resp})
	l.Info("initialize_success", "authenticated", st.IsAuthenticated)
	return store.Ok(st)
}

func (s *Store) Login(ctx context.Context, creds Credentials) store.Async[State] {
	l := logging.FromContext(ctx).With("svc", "session.login")

	s.state.Dispatch(store.Action{Type: store.PendingType(OpLogin)})

	if err := s.validate(creds); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid credentials form", "error", err)
		return s.reject(OpLogin, err)
	}

	resp, err := s.Provider.SignInWithPassword(ctx, creds)
	if err != nil {
		l.Warn("login_error", "status", 401, "error", err)
		return s.reject(OpLogin, err)
	}

	st := s.state.Dispatch(store.Action{Type: store.FulfilledType(OpLogin), Payload: resp})
	s.publish(ctx, "user_logged_in", st)
	l.Info("login_success", "user_id", userID(st))
	return store.Ok(st)
}

func (s *Store) Signup(ctx context.Context, creds SignupCredentials) store.Async[State] {
	l := logging.FromContext(ctx).With("svc", "session.signup")

	s.state.Dispatch(store.Action{Type: store.PendingType(OpSignup)})

	if err := s.validate(creds); err != nil {
		l.Warn("signup_error", "status", 400, "reason", "invalid signup form", "error", err)
		return s.reject(OpSignup, err)
	}

	resp, err := s.Provider.SignUp(ctx, creds, s.EmailRedirectTo)
	if err != nil {
		l.Warn("signup_error", "error", err)
		return s.reject(OpSignup, err)
	}

	st := s.state.Dispatch(store.Action{Type: store.FulfilledType(OpSignup), Payload: resp})
	s.publish(ctx, "user_registered", st)
	l.Info("signup_success", "user_id", userID(st), "authenticated", st.IsAuthenticated)
	return store.Ok(st)
}

func (s *Store) Logout(ctx context.Context) store.Async[State] {
	l := logging.FromContext(ctx).With("svc", "session.logout")

	before := s.State()
	s.state.Dispatch(store.Action{Type: store.PendingType(OpLogout)})

	if err := s.Provider.SignOut(ctx); err != nil {
		l.Error("logout_error", "reason", "provider sign out failed", "error", err)
		return s.reject(OpLogout, err)
	}

	st := s.state.Dispatch(store.Action{Type: store.FulfilledType(OpLogout)})
	s.publish(ctx, "user_logged_out", before)
	l.Info("logout_success")
	return store.Ok(st)
}

// Close detaches the store from provider events.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (s *Store) onEvent(ev Event) {
	if ev.Type == EventSignedOut || ev.Auth == nil || ev.Auth.Session == nil {
		s.state.Dispatch(store.Action{Type: ActionClear})
		return
	}
	s.state.Dispatch(store.Action{Type: ActionSet, Payload: ev.Auth})
}

// validate applies the form rules. The guest variant accepts anything.
func (s *Store) validate(v any) error {
	if s.Variant == VariantGuest {
		return nil
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func (s *Store) reject(op string, err error) store.Async[State] {
	s.state.Dispatch(store.Action{Type: store.RejectedType(op), Payload: ErrorMessage(err)})
	return store.Err[State](s.State().Error)
}

func (s *Store) publish(ctx context.Context, typ string, st State) {
	if s.Publisher == nil {
		return
	}
	id := userID(st)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	event := map[string]any{
		"type":    typ,
		"userID":  id,
		"variant": string(s.Variant),
	}
	if err := s.Publisher.PublishEvent(ctx, EventsTopic, id, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", EventsTopic, "error", err)
	}
}

// ErrorMessage is the single string surfaced to the view for a failed
// auth operation.
func ErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "Please fill in all required fields"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid login credentials"
	case errors.Is(err, ErrUserAlreadyExist):
		return "User already registered"
	default:
		return err.Error()
	}
}

func userID(st State) string {
	if st.User == nil {
		return ""
	}
	return st.User.ID
}
