// Package services contains server-side business logic. This file implements
// UserService, which handles registration, password logins with legacy
// record upgrades, and issuing/refreshing JWTs plus server-stored refresh
// tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/addonaccounts/internal/common"
	"github.com/dmitrijs2005/addonaccounts/internal/dbx"
	"github.com/dmitrijs2005/addonaccounts/internal/hashers"
	"github.com/dmitrijs2005/addonaccounts/internal/logging"
	"github.com/dmitrijs2005/addonaccounts/internal/server/auth"
	"github.com/dmitrijs2005/addonaccounts/internal/server/config"
	"github.com/dmitrijs2005/addonaccounts/internal/server/metrics"
	"github.com/dmitrijs2005/addonaccounts/internal/server/models"
	"github.com/dmitrijs2005/addonaccounts/internal/server/ratelimit"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// PictureSigner produces the URL a client should fetch a user's picture from.
type PictureSigner interface {
	PictureURL(ctx context.Context, user *models.User) (string, error)
}

// PictureUploader presigns uploads of a new user picture.
type PictureUploader interface {
	UploadURL(ctx context.Context, user *models.User) (string, error)
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	mediaURL                     string
	staticURL                    string
	defaultApp                   string

	limiter  ratelimit.Limiter
	metrics  *metrics.Metrics
	log      logging.Logger
	pictures PictureSigner
	uploads  PictureUploader
}

type UserServiceOption func(*UserService)

func WithLimiter(l ratelimit.Limiter) UserServiceOption {
	return func(s *UserService) { s.limiter = l }
}

func WithMetrics(m *metrics.Metrics) UserServiceOption {
	return func(s *UserService) { s.metrics = m }
}

func WithLogger(l logging.Logger) UserServiceOption {
	return func(s *UserService) { s.log = l }
}

func WithPictureSigner(p PictureSigner) UserServiceOption {
	return func(s *UserService) { s.pictures = p }
}

func WithPictureUploader(p PictureUploader) UserServiceOption {
	return func(s *UserService) { s.uploads = p }
}

// NewUserService constructs a UserService using repositories and server
// config. Without options logins are not throttled, metrics are not
// recorded and logs are discarded.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, opts ...UserServiceOption) *UserService {
	s := &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		mediaURL:                     cfg.MediaURL,
		staticURL:                    cfg.StaticURL,
		defaultApp:                   cfg.DefaultApp,
		limiter:                      ratelimit.Noop{},
		log:                          logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser registers a new account. An empty password leaves the account
// without a usable password.
func (s *UserService) CreateUser(ctx context.Context, username, email, password string) (*models.User, error) {
	return s.createUser(ctx, s.db, username, email, password)
}

// CreateSuperuser registers an account and adds it to the Admins group,
// creating the group when it does not exist yet.
func (s *UserService) CreateSuperuser(ctx context.Context, username, email, password string) (*models.User, error) {
	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.createUser(ctx, tx, username, email, password)
		if err != nil {
			return err
		}

		groups := s.repomanager.Groups(tx)
		admins, err := groups.GetByName(ctx, models.AdminsGroup)
		if errors.Is(err, common.ErrorNotFound) {
			admins, err = groups.Create(ctx, models.AdminsGroup, models.AdminRule)
		}
		if err != nil {
			return fmt.Errorf("error loading admins group: %w", err)
		}
		if err := groups.AddMember(ctx, admins.ID, user.ID); err != nil {
			return fmt.Errorf("error adding user to admins: %w", err)
		}
		user.Groups = append(user.Groups, *admins)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) createUser(ctx context.Context, db dbx.DBTX, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username: %w", common.ErrFieldRequired)
	}

	blocklist := s.repomanager.Blocklists(db)
	blocked, err := blocklist.NameBlocked(ctx, username)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, fmt.Errorf("%w: this username cannot be used", common.ErrorValidation)
	}

	user := &models.User{Username: username}
	if email != "" {
		at := strings.LastIndex(email, "@")
		if at <= 0 || at == len(email)-1 {
			return nil, fmt.Errorf("%w: enter a valid email address", common.ErrorValidation)
		}
		blocked, err := blocklist.EmailDomainBlocked(ctx, strings.ToLower(email[at+1:]))
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, fmt.Errorf("%w: please use an email address from a different provider", common.ErrorValidation)
		}
		user.Email = &email
	}

	if password == "" {
		user.SetUnusablePassword()
	} else {
		blocked, err := blocklist.PasswordBlocked(ctx, password)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, fmt.Errorf("%w: that password is not allowed", common.ErrorValidation)
		}
		if err := user.SetPassword(password); err != nil {
			return nil, common.ErrorInternal
		}
	}

	created, err := s.repomanager.Users(db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %v", err)
	}
	return created, nil
}

// Login verifies the password of username and, on success, returns a new
// TokenPair. A match against a legacy credential record rewrites the record
// in the current format. Every rejection is reported as ErrorUnauthorized so
// callers cannot tell a missing account from a wrong password. A throttled
// username gets ErrTooManyAttempts; unknown names are throttled the same way.
func (s *UserService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	if err := s.limiter.Check(ctx, username); err != nil {
		if errors.Is(err, common.ErrTooManyAttempts) {
			s.metrics.LoginAttempt(metrics.LoginThrottled)
			return nil, err
		}
		s.log.Warn(ctx, "login throttle unavailable", "error", err)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, s.loginFailed(ctx, username)
		}
		return nil, common.ErrorInternal
	}

	previous := user.Password
	ok, upgraded := user.CheckPassword(password)
	if !ok {
		return nil, s.loginFailed(ctx, username)
	}
	if upgraded {
		s.persistUpgrade(ctx, user.ID, previous, user.Password)
	}

	if err := s.limiter.Reset(ctx, username); err != nil {
		s.log.Warn(ctx, "login throttle unavailable", "error", err)
	}
	s.metrics.LoginAttempt(metrics.LoginSuccess)

	return s.generateTokenPair(ctx, user.ID, s.db)
}

func (s *UserService) loginFailed(ctx context.Context, username string) error {
	if err := s.limiter.Fail(ctx, username); err != nil {
		s.log.Warn(ctx, "login throttle unavailable", "error", err)
	}
	s.metrics.LoginAttempt(metrics.LoginFailure)
	return common.ErrorUnauthorized
}

// persistUpgrade stores the upgraded record unless another writer replaced
// the previous one in the meantime. Neither outcome fails the login.
func (s *UserService) persistUpgrade(ctx context.Context, userID int64, previous, upgraded string) {
	from, _ := hashers.Identify(previous)

	swapped, err := s.repomanager.Users(s.db).SwapPassword(ctx, userID, previous, upgraded)
	switch {
	case err != nil:
		s.log.Error(ctx, "error storing upgraded password", "user_id", userID, "error", err)
	case !swapped:
		s.metrics.PasswordUpgradeConflict()
		s.log.Warn(ctx, "password changed during upgrade, keeping the newer record", "user_id", userID)
	default:
		s.metrics.PasswordUpgraded(string(from))
		s.log.Info(ctx, "password upgraded", "user_id", userID, "from", string(from))
	}
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
// The token is consumed by the delete inside the transaction, so of two
// concurrent rotations only one gets a pair; the other sees ErrorNotFound.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// ChangePassword replaces the password after checking the old one and
// revokes every refresh token of the user.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("new password: %w", common.ErrFieldRequired)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)
		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		previous := user.Password
		if ok, _ := user.CheckPassword(oldPassword); !ok {
			return common.ErrorUnauthorized
		}

		blocked, err := s.repomanager.Blocklists(tx).PasswordBlocked(ctx, newPassword)
		if err != nil {
			return err
		}
		if blocked {
			return fmt.Errorf("%w: that password is not allowed", common.ErrorValidation)
		}

		if err := user.SetPassword(newPassword); err != nil {
			return common.ErrorInternal
		}
		swapped, err := users.SwapPassword(ctx, userID, previous, user.Password)
		if err != nil {
			return err
		}
		if !swapped {
			return common.ErrVersionConflict
		}
		return s.repomanager.RefreshTokens(tx).DeleteForUser(ctx, userID)
	})
}

// --- helpers below ---

func (s *UserService) generateAccessToken(userID int64) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID int64, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// loadUser returns the user with its groups attached.
func (s *UserService) loadUser(ctx context.Context, db dbx.DBTX, userID int64) (*models.User, error) {
	user, err := s.repomanager.Users(db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	groups, err := s.repomanager.Groups(db).ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Groups = groups
	return user, nil
}
