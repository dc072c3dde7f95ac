package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/Skotchmaster/crm_dashboard/internal/hash"
	"github.com/Skotchmaster/crm_dashboard/internal/models"
	"github.com/Skotchmaster/crm_dashboard/internal/tokens"
)

var ErrSessionRevoked = errors.New("session expired or revoked")

// LocalProvider keeps accounts in the service database and issues HS256
// access tokens with rotating refresh tokens.
type LocalProvider struct {
	DB         *gorm.DB
	JWTSecret  []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	mu      sync.RWMutex
	current *AuthResponse

	listeners listeners
}

func NewLocalProvider(db *gorm.DB, secret []byte) *LocalProvider {
	return &LocalProvider{
		DB:         db,
		JWTSecret:  secret,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func (p *LocalProvider) SignInWithPassword(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var user models.User
	err := p.DB.WithContext(ctx).Where("email = ?", normalizeEmail(creds.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.Matches(user.PasswordHash, creds.Password) {
		return nil, ErrInvalidCredentials
	}

	resp, err := p.issue(ctx, p.DB.WithContext(ctx), &user)
	if err != nil {
		return nil, err
	}
	p.setCurrent(resp)
	p.listeners.emit(Event{Type: EventSignedIn, Auth: resp})
	return resp, nil
}

// SignUp creates the account and signs it in. Accounts are confirmed on
// creation, so emailRedirectTo is not used.
func (p *LocalProvider) SignUp(ctx context.Context, creds SignupCredentials, emailRedirectTo string) (*AuthResponse, error) {
	pwHash, err := hash.Password(creds.Password)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(creds.Email)
	user := models.User{
		Email:        email,
		PasswordHash: pwHash,
		FirstName:    creds.FirstName,
		LastName:     creds.LastName,
		Phone:        creds.Phone,
	}
	tx := p.DB.WithContext(ctx).Where("email = ?", email).FirstOrCreate(&user)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, ErrUserAlreadyExist
	}

	resp, err := p.issue(ctx, p.DB.WithContext(ctx), &user)
	if err != nil {
		return nil, err
	}
	p.setCurrent(resp)
	p.listeners.emit(Event{Type: EventSignedIn, Auth: resp})
	return resp, nil
}

// GetSession returns the held session, rotating it when the access token
// has expired. A session that can no longer be used is dropped.
func (p *LocalProvider) GetSession(ctx context.Context) (*AuthResponse, error) {
	cur := p.Current()
	if cur == nil || cur.Session == nil {
		return nil, nil
	}

	claims, err := tokens.AccessClaimsFromToken(cur.Session.AccessToken, p.JWTSecret)
	if err == nil {
		var row models.AuthSession
		if err := p.DB.WithContext(ctx).Where("id = ?", claims.ID).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				p.drop()
				return nil, nil
			}
			return nil, err
		}
		if row.Revoked {
			p.drop()
			return nil, nil
		}
		return cur, nil
	}
	if !errors.Is(err, jwt.ErrTokenExpired) {
		p.drop()
		return nil, nil
	}

	resp, err := p.rotate(ctx, cur)
	if err != nil {
		if errors.Is(err, ErrSessionRevoked) {
			p.drop()
			return nil, nil
		}
		return nil, err
	}
	p.setCurrent(resp)
	p.listeners.emit(Event{Type: EventTokenRefreshed, Auth: resp})
	return resp, nil
}

func (p *LocalProvider) SignOut(ctx context.Context) error {
	cur := p.Current()
	if cur != nil && cur.Session != nil && cur.Session.RefreshToken != "" {
		err := p.DB.WithContext(ctx).Model(&models.AuthSession{}).
			Where("refresh_token_hash = ?", tokens.Sha256Hex(cur.Session.RefreshToken)).
			Update("revoked", true).Error
		if err != nil {
			return err
		}
	}
	p.drop()
	return nil
}

func (p *LocalProvider) OnAuthStateChange(fn func(Event)) func() {
	return p.listeners.add(fn)
}

// VerifyAccessToken checks a token presented by a client against the
// signing secret and the session table.
func (p *LocalProvider) VerifyAccessToken(ctx context.Context, token string) (*tokens.AccessClaims, error) {
	claims, err := tokens.AccessClaimsFromToken(token, p.JWTSecret)
	if err != nil {
		return nil, err
	}
	var row models.AuthSession
	if err := p.DB.WithContext(ctx).Where("id = ?", claims.ID).First(&row).Error; err != nil {
		return nil, err
	}
	if row.Revoked {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

func (p *LocalProvider) Current() *AuthResponse {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

func (p *LocalProvider) setCurrent(resp *AuthResponse) {
	p.mu.Lock()
	p.current = resp
	p.mu.Unlock()
}

func (p *LocalProvider) drop() {
	p.setCurrent(nil)
	p.listeners.emit(Event{Type: EventSignedOut})
}

func (p *LocalProvider) issue(ctx context.Context, db *gorm.DB, user *models.User) (*AuthResponse, error) {
	now := time.Now()
	sessionID := tokens.NewJTI()
	refresh := tokens.NewRefreshToken()
	accessExp := now.Add(p.AccessTTL)

	access, err := tokens.NewAccessToken(p.JWTSecret, user.ID, user.Email, sessionID, accessExp)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	row := models.AuthSession{
		ID:               sessionID,
		UserID:           user.ID,
		RefreshTokenHash: tokens.Sha256Hex(refresh),
		ExpiresAt:        now.Add(p.RefreshTTL).Unix(),
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &AuthResponse{
		User: ProviderUser{
			ID:    user.ID,
			Email: user.Email,
			UserMetadata: UserMetadata{
				FirstName: user.FirstName,
				LastName:  user.LastName,
				Phone:     user.Phone,
			},
		},
		Session: &Session{
			UserID:       user.ID,
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresAt:    accessExp.Unix(),
		},
	}, nil
}

func (p *LocalProvider) rotate(ctx context.Context, cur *AuthResponse) (*AuthResponse, error) {
	var resp *AuthResponse
	err := p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.AuthSession
		err := tx.Where("refresh_token_hash = ?", tokens.Sha256Hex(cur.Session.RefreshToken)).First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionRevoked
			}
			return err
		}
		if row.Revoked || row.ExpiresAt < time.Now().Unix() {
			return ErrSessionRevoked
		}
		if err := tx.Model(&models.AuthSession{}).Where("id = ?", row.ID).Update("revoked", true).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.Where("id = ?", row.UserID).First(&user).Error; err != nil {
			return err
		}

		resp, err = p.issue(ctx, tx, &user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
