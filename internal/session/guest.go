package session

import "context"

// GuestProvider resolves every call to the fixed guest identity. Only the
// email and, on signup, the names and phone of the input are echoed back.
type GuestProvider struct{}

func (GuestProvider) SignInWithPassword(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	return &AuthResponse{
		User: ProviderUser{
			ID:    GuestID,
			Email: orDefault(creds.Email, GuestEmail),
			UserMetadata: UserMetadata{
				FirstName: GuestFirst,
				LastName:  GuestLast,
			},
		},
		Session: GuestSession(),
	}, nil
}

func (GuestProvider) SignUp(ctx context.Context, creds SignupCredentials, emailRedirectTo string) (*AuthResponse, error) {
	return &AuthResponse{
		User: ProviderUser{
			ID:    GuestID,
			Email: orDefault(creds.Email, GuestEmail),
			UserMetadata: UserMetadata{
				FirstName: orDefault(creds.FirstName, GuestFirst),
				LastName:  orDefault(creds.LastName, GuestLast),
				Phone:     creds.Phone,
			},
		},
		Session: GuestSession(),
	}, nil
}

func (GuestProvider) GetSession(ctx context.Context) (*AuthResponse, error) {
	return &AuthResponse{
		User: ProviderUser{
			ID:    GuestID,
			Email: GuestEmail,
			UserMetadata: UserMetadata{
				FirstName: GuestFirst,
				LastName:  GuestLast,
			},
		},
		Session: GuestSession(),
	}, nil
}

func (GuestProvider) SignOut(ctx context.Context) error { return nil }

func (GuestProvider) OnAuthStateChange(fn func(Event)) func() { return func() {} }
