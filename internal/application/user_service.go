package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-api/internal/domain/entity"
	repo "github.com/oksasatya/go-user-api/internal/domain/repository"
	"github.com/oksasatya/go-user-api/pkg/helpers"
	"github.com/oksasatya/go-user-api/pkg/validation"
)

// UserIndexer keeps a search index in step with the store.
type UserIndexer interface {
	Index(ctx context.Context, u *entity.User) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]UserView, error)
}

// AccountNotifier is told about account lifecycle events, typically to send e-mail.
type AccountNotifier interface {
	AccountRegistered(ctx context.Context, u *entity.User) error
	AccountUpdated(ctx context.Context, u *entity.User, changed []string) error
	AccountDeleted(ctx context.Context, u *entity.User) error
}

type Service struct {
	Repo     repo.UserRepository
	JWT      *helpers.JWTManager
	Index    UserIndexer
	Notifier AccountNotifier
	Logger   *logrus.Logger
}

// NewService wires the account service. index and notifier may be nil.
func NewService(r repo.UserRepository, jwt *helpers.JWTManager, index UserIndexer, notifier AccountNotifier, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &Service{
		Repo:     r,
		JWT:      jwt,
		Index:    index,
		Notifier: notifier,
		Logger:   logger,
	}
}

// UserInput carries raw payload values; empty strings mean "absent".
type UserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

func (in UserInput) fields() map[string]string {
	return map[string]string{
		validation.FieldEmail:     in.Email,
		validation.FieldPassword:  in.Password,
		validation.FieldFirstName: in.FirstName,
		validation.FieldLastName:  in.LastName,
		validation.FieldPhone:     in.Phone,
	}
}

// UserView is the public projection of an account.
type UserView struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Roles     []string `json:"roles"`
}

func NewUserView(u *entity.User) UserView {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return UserView{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Phone: u.Phone, Roles: roles}
}

func validationError(err error) *Error {
	return &Error{Kind: KindValidation, Msg: err.Error(), Err: err}
}

func (s *Service) persistenceError(err error, op string, fields logrus.Fields) *Error {
	s.Logger.WithError(err).WithFields(fields).Errorf("%s user failed", op)
	return &Error{Kind: KindPersistence, Msg: err.Error(), Err: err}
}

// Register creates a new enabled account with the user role.
func (s *Service) Register(ctx context.Context, in UserInput) (*entity.User, error) {
	if err := validation.ValidateUser(in.fields(), validation.Create); err != nil {
		return nil, validationError(err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, validationError(err)
	}

	u := &entity.User{
		Password:   hash,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Phone:      in.Phone,
		Roles:      []string{entity.RoleUser},
		Enabled:    true,
		SuperAdmin: false,
	}
	u.SetEmail(in.Email)

	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, s.persistenceError(err, "create", logrus.Fields{"email": u.Email})
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user registered")

	s.index(ctx, u)
	if s.Notifier != nil {
		s.notify(u, s.Notifier.AccountRegistered(ctx, u))
	}
	return u, nil
}

// Edit applies the non-empty fields of in to caller's own account.
func (s *Service) Edit(ctx context.Context, caller *entity.User, in UserInput) (*entity.User, error) {
	if err := validation.ValidateUser(in.fields(), validation.Edit); err != nil {
		return nil, validationError(err)
	}
	if caller == nil {
		return nil, newError(KindIdentity, nil, "User %s does not exist", in.Email)
	}

	var changed []string
	if validation.Present(in.FirstName) {
		caller.FirstName = in.FirstName
		changed = append(changed, validation.FieldFirstName)
	}
	if validation.Present(in.LastName) {
		caller.LastName = in.LastName
		changed = append(changed, validation.FieldLastName)
	}
	if validation.Present(in.Password) {
		hash, err := helpers.HashPassword(in.Password)
		if err != nil {
			return nil, validationError(err)
		}
		caller.Password = hash
		changed = append(changed, validation.FieldPassword)
	}
	if validation.Present(in.Phone) {
		caller.Phone = in.Phone
		changed = append(changed, validation.FieldPhone)
	}
	if validation.Present(in.Email) {
		caller.SetEmail(in.Email)
		changed = append(changed, validation.FieldEmail)
	}

	if err := s.Repo.Update(ctx, caller); err != nil {
		return nil, s.persistenceError(err, "update", logrus.Fields{"user_id": caller.ID})
	}
	s.Logger.WithFields(logrus.Fields{"user_id": caller.ID, "changed": strings.Join(changed, ",")}).Info("user updated")

	if len(changed) > 0 {
		s.index(ctx, caller)
		if s.Notifier != nil {
			s.notify(caller, s.Notifier.AccountUpdated(ctx, caller, changed))
		}
	}
	return caller, nil
}

// List returns the public projection of every account.
func (s *Service) List(ctx context.Context) ([]UserView, error) {
	users, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, s.persistenceError(err, "list", nil)
	}
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserView(u))
	}
	return out, nil
}

// Delete removes the account identified by email. Only admins may call it.
func (s *Service) Delete(ctx context.Context, caller *entity.User, email string) error {
	if !caller.HasRole(entity.RoleAdmin) {
		return newError(KindAuthorization, nil, "You do not have permission to delete users")
	}
	if !validation.Present(email) {
		return newError(KindValidation, nil, "email is required")
	}

	target, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return newError(KindNotFound, err, "User does not exist")
		}
		return s.persistenceError(err, "find", logrus.Fields{"email": email})
	}

	if err := s.Repo.Delete(ctx, target); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return newError(KindNotFound, err, "User does not exist")
		}
		return s.persistenceError(err, "delete", logrus.Fields{"user_id": target.ID})
	}
	s.Logger.WithFields(logrus.Fields{"user_id": target.ID, "email": target.Email, "by": caller.ID}).Info("user deleted")

	if s.Index != nil {
		if iErr := s.Index.Remove(ctx, target.ID); iErr != nil {
			s.Logger.WithError(iErr).WithField("user_id", target.ID).Warn("search index removal failed")
		}
	}
	if s.Notifier != nil {
		s.notify(target, s.Notifier.AccountDeleted(ctx, target))
	}
	return nil
}

// Login checks credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	u, err := s.Repo.FindByEmail(ctx, email)
	if err != nil || u == nil || !u.Enabled {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	tok, exp, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		return "", time.Time{}, err
	}
	return tok, exp, nil
}

// Search queries the index; without an index it returns an empty result.
func (s *Service) Search(ctx context.Context, q string, size int) ([]UserView, error) {
	if s.Index == nil || strings.TrimSpace(q) == "" {
		return []UserView{}, nil
	}
	switch {
	case size <= 0:
		size = 10
	case size > 50:
		size = 50
	}
	out, err := s.Index.Search(ctx, q, size)
	if err != nil {
		s.Logger.WithError(err).WithField("q", q).Error("search failed")
		return nil, &Error{Kind: KindPersistence, Msg: "search failed", Err: err}
	}
	return out, nil
}

func (s *Service) index(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("search index update failed")
	}
}

func (s *Service) notify(u *entity.User, err error) {
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("account notification failed")
	}
}
