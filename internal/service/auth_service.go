package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/arqon-study-api/internal/models"
	appErrors "github.com/noah-isme/arqon-study-api/pkg/errors"
)

// Password length bounds accepted at registration. bcrypt rejects input
// longer than MaxPasswordLength bytes.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

type authUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, bool, error)
	FindByID(ctx context.Context, id int64) (*models.User, bool, error)
	UpdateUsers(ctx context.Context, fn func([]models.User) ([]models.User, error)) error
	FindSession(ctx context.Context, id string) (*models.Session, bool, error)
	UpdateSessions(ctx context.Context, fn func([]models.Session) ([]models.Session, error)) error
}

type rememberMeRepository interface {
	RememberMe(ctx context.Context) (models.RememberMe, error)
	SaveRememberMe(ctx context.Context, pref models.RememberMe) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	SessionTTL        time.Duration
	Issuer            string
}

// AuthService provides account creation, login, logout and session checks.
type AuthService struct {
	repo      authUserRepository
	remember  rememberMeRepository
	hasher    PasswordHasher
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, remember rememberMeRepository, hasher PasswordHasher, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if hasher == nil {
		hasher = NewPasswordHasher("")
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = 24 * time.Hour
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = config.SessionTTL
	}
	return &AuthService{
		repo:      repo,
		remember:  remember,
		hasher:    hasher,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
}

// Register creates an account and signs it in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, registerValidationMessage(err))
	}
	if req.Password != req.ConfirmPassword {
		return nil, appErrors.Clone(appErrors.ErrValidation, "passwords do not match")
	}
	if len(req.Password) < MinPasswordLength {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("password must be at least %d characters long", MinPasswordLength))
	}
	if len(req.Password) > MaxPasswordLength {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("password must be at most %d bytes long", MaxPasswordLength))
	}

	encoded, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to encode password")
	}

	var created models.User
	err = s.repo.UpdateUsers(ctx, func(users []models.User) ([]models.User, error) {
		taken := make(map[int64]struct{}, len(users))
		for _, u := range users {
			if u.Username == req.Username {
				return nil, appErrors.Clone(appErrors.ErrConflict, "username already exists")
			}
			taken[u.ID] = struct{}{}
		}
		now := s.now().UTC()
		created = models.User{
			ID:        nextID(now, taken),
			Username:  req.Username,
			Password:  encoded,
			Email:     req.Email,
			CreatedAt: now,
		}
		return append(users, created), nil
	})
	if err != nil {
		return nil, storeError(s.logger, err, "failed to create account")
	}

	s.logger.Info("account created", zap.String("username", created.Username))
	return s.signIn(ctx, &created, req.RememberMe)
}

// Login authenticates a user and opens a session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "please fill in all fields")
	}

	user, found, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to fetch user")
	}
	if !found || !s.hasher.Verify(user.Password, req.Password) {
		s.logger.Info("login rejected", zap.String("username", req.Username))
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	return s.signIn(ctx, user, req.RememberMe)
}

func (s *AuthService) signIn(ctx context.Context, user *models.User, remember bool) (*models.LoginResponse, error) {
	now := s.now().UTC()

	if err := s.repo.UpdateUsers(ctx, func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].ID == user.ID {
				ts := now
				users[i].LastLogin = &ts
			}
		}
		return users, nil
	}); err != nil {
		s.logger.Warn("failed to update last login", zap.Error(err))
	}

	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		LoginTime: now,
		ExpiresAt: now.Add(s.config.SessionTTL),
		Active:    true,
	}
	err := s.repo.UpdateSessions(ctx, func(sessions []models.Session) ([]models.Session, error) {
		kept := sessions[:0]
		for _, existing := range sessions {
			if existing.ExpiresAt.After(now) {
				kept = append(kept, existing)
			}
		}
		return append(kept, session), nil
	})
	if err != nil {
		return nil, storeError(s.logger, err, "failed to create session")
	}

	pref := models.RememberMe{Remember: remember}
	if remember {
		pref.Username = user.Username
	}
	if err := s.remember.SaveRememberMe(ctx, pref); err != nil {
		s.logger.Warn("failed to store remember-me preference", zap.Error(err))
	}

	token, err := s.generateAccessToken(user, session, now)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create access token")
	}

	s.logger.Info("login succeeded", zap.String("username", user.Username), zap.String("session_id", session.ID))
	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		Session:     session,
		User:        user.Info(),
		IssuedAt:    now,
	}, nil
}

// Logout marks the session inactive.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	now := s.now().UTC()
	err := s.repo.UpdateSessions(ctx, func(sessions []models.Session) ([]models.Session, error) {
		for i := range sessions {
			if sessions[i].ID == sessionID && sessions[i].ValidAt(now) {
				sessions[i].Active = false
				sessions[i].LogoutTime = &now
				return sessions, nil
			}
		}
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session is not active")
	})
	if err != nil {
		return storeError(s.logger, err, "failed to close session")
	}
	s.logger.Info("logout", zap.String("session_id", sessionID))
	return nil
}

// Authenticate validates the token and checks that its session is still open.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.JWTClaims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if _, err := s.CurrentSession(ctx, claims.SessionID); err != nil {
		return nil, err
	}
	return claims, nil
}

// CurrentSession returns the session when it is active and unexpired.
func (s *AuthService) CurrentSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, found, err := s.repo.FindSession(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load session")
	}
	if !found || !session.ValidAt(s.now()) {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session expired or logged out")
	}
	return session, nil
}

// Me returns the signed-in user.
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.UserInfo, error) {
	user, found, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load user")
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	info := user.Info()
	return &info, nil
}

// RememberedUsername returns the stored remember-me preference.
func (s *AuthService) RememberedUsername(ctx context.Context) (models.RememberMe, error) {
	pref, err := s.remember.RememberMe(ctx)
	if err != nil {
		return models.RememberMe{}, appErrors.Internal(err, "failed to load preference")
	}
	return pref, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) generateAccessToken(user *models.User, session models.Session, issuedAt time.Time) (string, error) {
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	if session.ExpiresAt.Before(expiresAt) {
		expiresAt = session.ExpiresAt
	}
	claims := &models.JWTClaims{
		UserID:    user.ID,
		Username:  user.Username,
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        session.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessTokenSecret))
}

func registerValidationMessage(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			if fe.Field() == "Email" {
				return "please enter a valid email address"
			}
		}
	}
	return "please fill in all required fields"
}
