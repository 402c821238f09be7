package services

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"time"

	"lume/internal/models"
	"lume/internal/store"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// Validation failures surfaced to the user as on-page messages.
var (
	ErrFieldsRequired    = errors.New("please fill in all fields")
	ErrInvalidEmail      = errors.New("please enter a valid email address")
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters long")
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrTermsNotAccepted  = errors.New("please accept the terms and conditions")
	ErrEmailTaken        = errors.New("an account with this email already exists")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrNotAuthenticated  = errors.New("not logged in")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 8

// AuthService handles registration, login and the current session. Users and
// the single session record live in store slots; passwords are stored as
// bcrypt hashes and compared with a constant-time check.
type AuthService struct {
	store       store.Store
	jwtSecret   []byte
	sessionTTL  time.Duration
	rememberTTL time.Duration
}

// NewAuthService creates a new AuthService. sessionTTL bounds a normal
// session; rememberTTL is used instead when the user asks to be remembered.
func NewAuthService(s store.Store, jwtSecret string, sessionTTL, rememberTTL time.Duration) *AuthService {
	return &AuthService{
		store:       s,
		jwtSecret:   []byte(jwtSecret),
		sessionTTL:  sessionTTL,
		rememberTTL: rememberTTL,
	}
}

// Register validates the registration form and appends a new user. The email
// must not match an existing account, compared case-sensitively.
func (s *AuthService) Register(name, email, password, confirmPassword string, termsAccepted bool) error {
	if name == "" || email == "" || password == "" || confirmPassword == "" {
		return ErrFieldsRequired
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if password != confirmPassword {
		return ErrPasswordMismatch
	}
	if !termsAccepted {
		return ErrTermsNotAccepted
	}

	users, err := s.users()
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Email == email {
			return ErrEmailTaken
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	users = append(users, models.User{
		ID:           strconv.FormatInt(now.UnixMilli(), 10),
		Name:         name,
		Email:        email,
		Password:     string(hashed),
		RegisteredAt: now.Format(time.RFC3339),
	})
	return store.SetJSON(s.store, store.KeyRegisteredUsers, users)
}

// Login checks the credentials against the registered users and, on success,
// writes the session snapshot and returns a signed JWT for the API surface.
// With rememberMe the session lives for the longer remember TTL.
func (s *AuthService) Login(email, password string, rememberMe bool) (string, *models.Session, error) {
	if email == "" || password == "" {
		return "", nil, ErrFieldsRequired
	}
	if !emailPattern.MatchString(email) {
		return "", nil, ErrInvalidEmail
	}

	users, err := s.users()
	if err != nil {
		return "", nil, err
	}

	var user *models.User
	for i := range users {
		if users[i].Email == email {
			user = &users[i]
			break
		}
	}
	if user == nil {
		return "", nil, ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredential
	}

	now := time.Now()
	ttl := s.sessionTTL
	if rememberMe {
		ttl = s.rememberTTL
	}
	session := models.Session{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		LoginTime: now.Format(time.RFC3339),
		ExpiresAt: now.Add(ttl).Format(time.RFC3339),
	}

	err = s.store.Update(func(tx store.Tx) error {
		if err := store.SetJSON(tx, store.KeyCurrentUser, session); err != nil {
			return err
		}
		if rememberMe {
			return tx.Set(store.KeyRememberUser, "true")
		}
		return tx.Delete(store.KeyRememberUser)
	})
	if err != nil {
		return "", nil, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"exp":     now.Add(ttl).Unix(),
		"iat":     now.Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, &session, nil
}

// Logout clears the session and the remember flag. The interactive
// confirmation gate is enforced by the caller.
func (s *AuthService) Logout() error {
	return s.store.Update(func(tx store.Tx) error {
		if err := tx.Delete(store.KeyCurrentUser); err != nil {
			return err
		}
		return tx.Delete(store.KeyRememberUser)
	})
}

// CurrentUser returns the session snapshot, or nil when nobody is logged in.
// An expired session is cleared and reported as absent. Sessions written
// without an expiry fall back to the remember flag to pick their lifetime.
func (s *AuthService) CurrentUser() (*models.Session, error) {
	var session models.Session
	ok, err := store.GetJSON(s.store, store.KeyCurrentUser, &session)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	expiry := session.ExpiresAt
	if expiry == "" {
		if login, err := time.Parse(time.RFC3339, session.LoginTime); err == nil {
			ttl := s.sessionTTL
			if _, remembered, _ := s.store.Get(store.KeyRememberUser); remembered {
				ttl = s.rememberTTL
			}
			expiry = login.Add(ttl).Format(time.RFC3339)
		}
	}
	if expiry != "" {
		if at, err := time.Parse(time.RFC3339, expiry); err == nil && time.Now().After(at) {
			if err := s.Logout(); err != nil {
				log.Printf("Failed to clear expired session: %v", err)
			}
			return nil, nil
		}
	}
	return &session, nil
}

// Profile joins the session to the full registered-user record. A session
// whose user record no longer exists is cleared, mirroring the forced logout
// on the profile page.
func (s *AuthService) Profile() (*models.Profile, error) {
	session, err := s.CurrentUser()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotAuthenticated
	}

	users, err := s.users()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == session.ID {
			return &models.Profile{
				Name:         u.Name,
				Email:        u.Email,
				RegisteredAt: u.RegisteredAt,
			}, nil
		}
	}

	// User record is gone; the stale session cannot be repaired.
	if err := s.Logout(); err != nil {
		log.Printf("Failed to clear dangling session: %v", err)
	}
	return nil, ErrNotAuthenticated
}

// ValidateToken parses and validates a JWT, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func (s *AuthService) users() ([]models.User, error) {
	var users []models.User
	if _, err := store.GetJSON(s.store, store.KeyRegisteredUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}
