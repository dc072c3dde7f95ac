package session

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrUserAlreadyExist   = errors.New("user already registered")
)

// Provider is the backend-as-a-service side of authentication.
type Provider interface {
	SignInWithPassword(ctx context.Context, creds Credentials) (*AuthResponse, error)
	SignUp(ctx context.Context, creds SignupCredentials, emailRedirectTo string) (*AuthResponse, error)
	// GetSession returns the currently held session, or nil when signed out.
	GetSession(ctx context.Context) (*AuthResponse, error)
	SignOut(ctx context.Context) error
	OnAuthStateChange(fn func(Event)) (unsubscribe func())
}

// listeners fans provider events out to subscribers.
type listeners struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func(Event)
}

func (l *listeners) add(fn func(Event)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func(Event))
	}
	id := l.nextID
	l.nextID++
	l.fns[id] = fn
	return func() {
		l.mu.Lock()
		delete(l.fns, id)
		l.mu.Unlock()
	}
}

func (l *listeners) emit(ev Event) {
	l.mu.Lock()
	fns := make([]func(Event), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
