package service

import (
	"time"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues and validates bearer tokens for the administrative
// console's external-collaborator boundary (§1/§6).
type AuthService struct {
	userRepo           domain.UserRepository
	secretKey          string
	algorithm          string
	accessTokenExpires time.Duration
}

func NewAuthService(userRepo domain.UserRepository, secretKey, algorithm string, accessTokenExpireMinutes int) *AuthService {
	return &AuthService{
		userRepo:           userRepo,
		secretKey:          secretKey,
		algorithm:          algorithm,
		accessTokenExpires: time.Duration(accessTokenExpireMinutes) * time.Minute,
	}
}

// Claims is the JWT payload issued for an authenticated session.
type Claims struct {
	UserID      int32 `json:"userId"`
	IsSuperuser bool  `json:"isSuperuser"`
	jwt.RegisteredClaims
}

// BootstrapFirstSuperuser creates the initial administrative account if the
// user table has none (§6). Idempotent: a no-op once a superuser exists.
func (s *AuthService) BootstrapFirstSuperuser(email, password, fullName string) error {
	count, err := s.userRepo.CountSuperusers()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.ErrInternalError
	}
	user := &domain.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		IsActive:     true,
		IsSuperuser:  true,
	}
	if err := user.Validate(); err != nil {
		return err
	}
	_, err = s.userRepo.Create(user)
	return err
}

// Authenticate validates credentials and issues an access token.
func (s *AuthService) Authenticate(email, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return "", nil, domain.ErrForbidden
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrUnauthorized
	}
	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, domain.ErrInternalError
	}
	return token, user, nil
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		UserID:      user.ID,
		IsSuperuser: user.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenExpires)),
			Subject:   user.Email,
		},
	}
	token := jwt.NewWithClaims(jwt.GetSigningMethod(s.algorithm), claims)
	return token.SignedString([]byte(s.secretKey))
}

// ParseToken validates a bearer token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.secretKey), nil
	}, jwt.WithValidMethods([]string{s.algorithm}))
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// CreateUser registers a new administrative collaborator; only a superuser
// may call this (enforced at the handler layer).
func (s *AuthService) CreateUser(email, password, fullName string, isSuperuser bool) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.ErrInternalError
	}
	user := &domain.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		IsActive:     true,
		IsSuperuser:  isSuperuser,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return s.userRepo.Create(user)
}

// DemoteOrDeactivate refuses to deactivate or demote the last superuser,
// per the forbidden "removing last superuser" rule (§7).
func (s *AuthService) DemoteOrDeactivate(user *domain.User) (*domain.User, error) {
	if !user.IsSuperuser || !user.IsActive {
		count, err := s.userRepo.CountSuperusers()
		if err != nil {
			return nil, err
		}
		current, err := s.userRepo.GetByID(user.ID)
		if err != nil {
			return nil, err
		}
		if current.IsSuperuser && count <= 1 {
			return nil, domain.NewBusinessRuleViolation("auth_last_superuser", "cannot remove the last superuser")
		}
	}
	return s.userRepo.Update(user)
}

func (s *AuthService) Me(userID int32) (*domain.User, error) {
	return s.userRepo.GetByID(userID)
}
