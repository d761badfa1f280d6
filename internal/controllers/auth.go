package controllers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amaumene/gomeshelf/internal/models"
	"github.com/amaumene/gomeshelf/internal/services/session"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

const (
	minPasswordLength = 6
	setupDoneKey      = "setup_done"
)

// AuthController handles first-run setup and login
type AuthController struct {
	db       *models.Database
	sessions *session.Manager
	// setup can never be undone, so a positive answer is kept forever
	setupState *cache.Cache
	logger     *logrus.Logger
	now        func() time.Time
}

// NewAuthController creates a new auth controller
func NewAuthController(db *models.Database, sessions *session.Manager, logger *logrus.Logger) *AuthController {
	return &AuthController{
		db:         db,
		sessions:   sessions,
		setupState: cache.New(cache.NoExpiration, 0),
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// HasUsers reports whether the admin account exists
func (c *AuthController) HasUsers(ctx context.Context) (bool, error) {
	if _, ok := c.setupState.Get(setupDoneKey); ok {
		return true, nil
	}

	count, err := c.db.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		c.setupState.SetDefault(setupDoneKey, true)
		return true, nil
	}
	return false, nil
}

// Setup creates the admin account. It fails with ErrSetupComplete once any
// user exists, before the input is even looked at.
func (c *AuthController) Setup(ctx context.Context, email, password string) (*models.User, error) {
	done, err := c.HasUsers(ctx)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, models.ErrSetupComplete
	}

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, models.Invalid("Email and password are required")
	}
	if !strings.Contains(email, "@") {
		return nil, models.Invalid("Invalid email format")
	}
	if len(password) < minPasswordLength {
		return nil, models.Invalid("Password must be at least %d characters", minPasswordLength)
	}

	hash, err := session.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := c.now()
	user := &models.User{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.db.CreateFirstUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrSetupComplete) {
			c.setupState.SetDefault(setupDoneKey, true)
		}
		return nil, err
	}
	c.setupState.SetDefault(setupDoneKey, true)

	c.logger.WithField("email", user.Email).Info("Admin account created")
	return user, nil
}

// Login checks credentials and returns the user with a fresh session token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (c *AuthController) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", models.Invalid("Email and password are required")
	}

	user, err := c.db.GetUserByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		c.logger.WithField("email", email).Warn("Login attempt for unknown email")
		return nil, "", models.ErrBadCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if !session.CheckPassword(user.Password, password) {
		c.logger.WithField("email", email).Warn("Login attempt with wrong password")
		return nil, "", models.ErrBadCredentials
	}

	token, err := c.sessions.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	c.logger.WithField("email", user.Email).Info("User logged in")
	return user, token, nil
}

// Sessions exposes the token manager used for cookies
func (c *AuthController) Sessions() *session.Manager {
	return c.sessions
}
