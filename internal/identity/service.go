package identity

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"

	"blogapi/internal/apperr"
	"blogapi/internal/models"
)

const totpIssuer = "blogapi"

// UserStore is the account storage consumed by the identity service.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)
	SetTOTPSecret(ctx context.Context, id uuid.UUID, secret string) error
	EnableTOTP(ctx context.Context, id uuid.UUID) error
}

// Service implements registration, login, and optional TOTP enrollment,
// and resolves bearer tokens into callers.
type Service struct {
	users  UserStore
	tokens TokenStore
}

// NewService creates an identity service over the given stores.
func NewService(users UserStore, tokens TokenStore) *Service {
	return &Service{users: users, tokens: tokens}
}

// Register creates a new author account.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return nil, apperr.New(apperr.Validation, "username and email are required")
	}
	if len(password) < 8 {
		return nil, apperr.New(apperr.Validation, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "hash password", err)
	}

	return s.users.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAuthor,
	})
}

// Login validates credentials and issues a fresh bearer token. Accounts
// with 2FA enabled receive a token that stays unverified until Verify2FA.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", apperr.New(apperr.Unauthenticated, "invalid username or password")
	}

	token, err := s.tokens.Issue(ctx, &TokenData{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        string(user.Role),
		TOTPEnabled: user.TOTPEnabled,
		TwoFADone:   false,
	})
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "issue token", err)
	}
	return token, nil
}

// Logout revokes a bearer token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.tokens.Revoke(ctx, token)
}

// Resolve turns a bearer token into a Caller. Empty, unknown, and expired
// tokens resolve to the anonymous caller without error; resolution
// failures are reserved for backend outages.
func (s *Service) Resolve(ctx context.Context, token string) (Caller, error) {
	if token == "" {
		return Anonymous, nil
	}
	data, err := s.tokens.Get(ctx, token)
	if err != nil {
		return Anonymous, err
	}
	if data == nil {
		return Anonymous, nil
	}
	return Caller{
		UserID:        data.UserID,
		Username:      data.Username,
		Admin:         data.Role == string(models.RoleAdmin),
		Authenticated: true,
		Verified:      !data.TOTPEnabled || data.TwoFADone,
	}, nil
}

// TOTPSetup holds the enrollment material returned to the client.
type TOTPSetup struct {
	Secret    string `json:"secret"`
	URL       string `json:"otpauth_url"`
	QRCodePNG string `json:"qr_png_base64"`
}

// Setup2FA generates a TOTP secret for the caller's account and returns
// the provisioning URL plus a QR code PNG. The secret stays inactive
// until the first successful Verify2FA.
func (s *Service) Setup2FA(ctx context.Context, caller Caller) (*TOTPSetup, error) {
	if !caller.Authenticated {
		return nil, apperr.New(apperr.Unauthenticated, "authentication required")
	}

	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.New(apperr.NotFound, "account not found")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "generate totp key", err)
	}

	if err := s.users.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "encode qr code", err)
	}

	return &TOTPSetup{
		Secret:    key.Secret(),
		URL:       key.URL(),
		QRCodePNG: base64.StdEncoding.EncodeToString(png),
	}, nil
}

// Verify2FA validates a TOTP code, enables 2FA on first success, and
// marks the current token as verified.
func (s *Service) Verify2FA(ctx context.Context, token string, caller Caller, code string) error {
	if !caller.Authenticated {
		return apperr.New(apperr.Unauthenticated, "authentication required")
	}

	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if user == nil || user.TOTPSecret == nil {
		return apperr.New(apperr.Validation, "two-factor setup has not been started")
	}

	if !totp.Validate(code, *user.TOTPSecret) {
		return apperr.New(apperr.Forbidden, "invalid verification code")
	}

	if !user.TOTPEnabled {
		if err := s.users.EnableTOTP(ctx, user.ID); err != nil {
			return err
		}
	}

	data, err := s.tokens.Get(ctx, token)
	if err != nil {
		return err
	}
	if data == nil {
		return apperr.New(apperr.Unauthenticated, "token expired")
	}
	data.TOTPEnabled = true
	data.TwoFADone = true
	return s.tokens.Update(ctx, token, data)
}
