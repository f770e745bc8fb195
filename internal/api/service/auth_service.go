package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/config"
	"reviewhub/internal/mailer"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameReserved = errors.New("username is reserved")
	ErrUsernameInvalid  = errors.New("username may only contain letters, digits and .@+-_")
	ErrUsernameTaken    = errors.New("username already registered with a different email")
	ErrEmailTaken       = errors.New("email already registered with a different username")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidCode      = errors.New("invalid confirmation code")
	ErrExpiredCode      = errors.New("confirmation code has expired")
	ErrInvalidToken     = errors.New("invalid token")
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

const (
	codeLength   = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Claims carried by the access token: identity plus role, so the
// middleware can authorize without a user lookup per request.
type Claims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Superuser bool   `json:"superuser,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	SignUp(username, email string) (created bool, err error)
	IssueToken(username, code string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	mail           mailer.Mailer
	jwtSecret      string
	accessTokenTTL time.Duration
	codeTTL        time.Duration
}

func NewAuthService(userRepo repository.UserRepository, mail mailer.Mailer, cfg *config.Config) AuthService {
	return &authService{
		userRepo:       userRepo,
		mail:           mail,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
		codeTTL:        cfg.ConfirmationCodeTTL,
	}
}

// SignUp looks up or creates the account for the (username, email) pair
// and mails it a fresh confirmation code. Calling it again with the same
// pair is a resend: the previous code is overwritten. A username or
// email already bound to a different pairing is a conflict.
func (s *authService) SignUp(username, email string) (bool, error) {
	if err := validateUsername(username); err != nil {
		return false, err
	}

	user, err := s.userRepo.FindByUsername(username)
	switch {
	case err == nil:
		if user.Email != email {
			return false, ErrUsernameTaken
		}
		return false, s.issueCode(user)

	case errors.Is(err, gorm.ErrRecordNotFound):
		if _, err := s.userRepo.FindByEmail(email); err == nil {
			return false, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}

		user = &models.User{
			Username: username,
			Email:    email,
			Role:     models.RoleUser,
		}
		if err := s.userRepo.Create(user); err != nil {
			// two first-time signups can race past the lookups; the
			// unique indexes decide. The loser of a same-pair race is
			// a resend, any other collision is a conflict.
			if isUniqueViolation(err) {
				if existing, lookupErr := s.userRepo.FindByUsername(username); lookupErr == nil {
					if existing.Email == email {
						return false, s.issueCode(existing)
					}
					return false, ErrUsernameTaken
				}
				return false, ErrEmailTaken
			}
			return false, err
		}
		return true, s.issueCode(user)

	default:
		return false, err
	}
}

// issueCode generates a one-time code, stores its bcrypt hash with an
// expiry and dispatches exactly one notification.
func (s *authService) issueCode(user *models.User) error {
	code, err := generateCode()
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	hashStr := string(hash)
	expiry := time.Now().Add(s.codeTTL)
	user.ConfirmationHash = &hashStr
	user.ConfirmationExpiresAt = &expiry

	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	body := fmt.Sprintf("Your confirmation code: %s", code)
	return s.mail.Send(user.Email, "Your confirmation code", body)
}

// IssueToken redeems a confirmation code for a signed access token. The
// code is single use: a successful redemption clears it. Expiry and
// mismatch are checked separately but surface identically to clients.
func (s *authService) IssueToken(username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if user.ConfirmationHash == nil || user.ConfirmationExpiresAt == nil {
		return "", ErrInvalidCode
	}
	if !time.Now().Before(*user.ConfirmationExpiresAt) {
		return "", ErrExpiredCode
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.ConfirmationHash), []byte(code)) != nil {
		return "", ErrInvalidCode
	}

	user.ConfirmationHash = nil
	user.ConfirmationExpiresAt = nil
	if err := s.userRepo.Update(user); err != nil {
		return "", err
	}

	return s.signToken(user)
}

func (s *authService) signToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Superuser: user.Superuser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func validateUsername(username string) error {
	if strings.EqualFold(username, "me") {
		return ErrUsernameReserved
	}
	if !usernamePattern.MatchString(username) {
		return ErrUsernameInvalid
	}
	return nil
}

func generateCode() (string, error) {
	code := make([]byte, codeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code), nil
}
