package account

import (
	"context"
	"errors"
	"strings"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/audit"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/auth"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/access"
	domainUser "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/user"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/models"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/validators"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Session is what register, login and refresh hand back.
type Session struct {
	User   *models.User `json:"user"`
	Tokens auth.Pair    `json:"tokens"`
}

type Accounts struct {
	repo         domainUser.Repository
	tokens       *auth.Issuer
	audit        *audit.Dispatcher
	verifyDomain bool
}

func NewAccounts(
	repo domainUser.Repository,
	tokens *auth.Issuer,
	audit *audit.Dispatcher,
	verifyDomain bool,
) *Accounts {
	return &Accounts{
		repo:         repo,
		tokens:       tokens,
		audit:        audit,
		verifyDomain: verifyDomain,
	}
}

// --------- Identity ---------

// Resolve loads the caller's current role. Called on every authenticated
// request so role changes apply immediately.
func (uc *Accounts) Resolve(ctx context.Context, userID uint) (access.Actor, error) {
	u, err := uc.repo.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return access.Actor{}, httperr.Unauthenticated("user_not_found", "user no longer exists")
	}
	if err != nil {
		return access.Actor{}, err
	}

	role, ok := access.ParseRole(u.Role)
	if !ok {
		role = access.RoleUser
	}
	return access.Actor{ID: u.ID, Role: role}, nil
}

// --------- Register / Login ---------

// Register always creates a plain user; roles are granted by staff.
func (uc *Accounts) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	username := strings.TrimSpace(in.Username)
	email := validators.NormalizeEmail(in.Email)

	if !validators.IsUsernameValid(username) {
		return nil, httperr.Validation("invalid_username", "username must be 3-30 letters, digits or underscores")
	}
	if !validators.IsEmailFormatValid(email) {
		return nil, httperr.Validation("invalid_email", "email is not valid")
	}
	if !validators.IsPasswordValid(in.Password) {
		return nil, httperr.Validation("weak_password",
			"password must be at least %d characters", validators.MinPasswordLength)
	}
	if uc.verifyDomain && !validators.IsEmailDomainValid(email) {
		return nil, httperr.Validation("invalid_email_domain", "the email domain does not look valid")
	}

	exists, err := uc.repo.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errUserExists()
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         string(access.RoleUser),
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, errUserExists()
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &u.ID,
		Action:   "user_registered",
		Entity:   "user",
		EntityID: &u.ID,
	})

	return uc.startSession(ctx, u)
}

func (uc *Accounts) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := uc.repo.GetByEmail(ctx, validators.NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errInvalidCredentials()
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, errInvalidCredentials()
	}

	return uc.startSession(ctx, u)
}

// --------- Refresh / Logout ---------

// Refresh rotates the pair. Only the most recently issued refresh token is
// accepted.
func (uc *Accounts) Refresh(ctx context.Context, raw string) (*Session, error) {
	claims, err := uc.tokens.Parse(raw, auth.TypeRefresh)
	if err != nil {
		return nil, errInvalidRefresh()
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, errInvalidRefresh()
	}

	u, err := uc.repo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errInvalidRefresh()
	}
	if err != nil {
		return nil, err
	}

	if u.RefreshTokenHash == "" || u.RefreshTokenHash != auth.HashRefreshToken(raw) {
		return nil, errInvalidRefresh()
	}

	return uc.startSession(ctx, u)
}

func (uc *Accounts) Logout(ctx context.Context, actor access.Actor) error {
	return domain.StoreError(uc.repo.SetRefreshTokenHash(ctx, actor.ID, ""), "user")
}

func (uc *Accounts) startSession(ctx context.Context, u *models.User) (*Session, error) {
	pair, err := uc.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}

	hash := auth.HashRefreshToken(pair.RefreshToken)
	if err := uc.repo.SetRefreshTokenHash(ctx, u.ID, hash); err != nil {
		return nil, err
	}
	u.RefreshTokenHash = hash

	return &Session{User: u, Tokens: pair}, nil
}

// --------- Users ---------

func (uc *Accounts) Me(ctx context.Context, actor access.Actor) (*models.User, error) {
	u, err := uc.repo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, domain.StoreError(err, "user")
	}
	return u, nil
}

func (uc *Accounts) List(ctx context.Context, actor access.Actor, page dto.Page) ([]models.User, int64, error) {
	if !actor.Elevated() {
		return nil, 0, httperr.Forbidden("forbidden", "only barbers or admins can list users")
	}
	return uc.repo.List(ctx, page)
}

func (uc *Accounts) SetRole(ctx context.Context, actor access.Actor, userID uint, role string) (*models.User, error) {
	if !actor.Elevated() {
		return nil, httperr.Forbidden("forbidden", "only barbers or admins can change roles")
	}

	r, ok := access.ParseRole(role)
	if !ok {
		return nil, httperr.Validation("invalid_role", "role must be one of user, barber, admin")
	}

	u, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.StoreError(err, "user")
	}
	from := u.Role

	if err := uc.repo.SetRole(ctx, u.ID, r); err != nil {
		return nil, domain.StoreError(err, "user")
	}
	u.Role = string(r)

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "user_role_changed",
		Entity:   "user",
		EntityID: &u.ID,
		Metadata: map[string]any{"from": from, "to": r},
	})
	return u, nil
}

func errUserExists() error {
	return httperr.Conflict("user_exists", "a user with this email or username already exists")
}

func errInvalidCredentials() error {
	return httperr.Unauthenticated("invalid_credentials", "invalid email or password")
}

func errInvalidRefresh() error {
	return httperr.Unauthenticated("invalid_refresh_token", "refresh token is invalid or revoked")
}
