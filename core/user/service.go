package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/clinigoal/backoffice/core"
)

// Bucket holding the admin account records.
const Bucket = "adminUsers"

var (
	ErrNotFound             = errors.New("user not found")
	ErrEmailExists          = errors.New("a user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrAccountDeactivated   = errors.New("account deactivated")

	nowFunc = time.Now // mockable
)

type Service struct {
	store  core.KeyValueStore
	logger core.Logger
}

func NewService(store core.KeyValueStore, logger core.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (svc *Service) all() ([]storedUser, error) {
	var users []storedUser
	if err := svc.store.Get(Bucket, &users); err != nil {
		if err == core.ErrKeyNotFound {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "reading "+Bucket)
	}
	return users, nil
}

func (svc *Service) save(users []storedUser) error {
	return pkgerrors.Wrap(svc.store.Set(Bucket, users), "writing "+Bucket)
}

func (svc *Service) QueryAll() ([]User, error) {
	stored, err := svc.all()
	if err != nil {
		return nil, err
	}
	users := make([]User, 0, len(stored))
	for _, su := range stored {
		users = append(users, su.user())
	}
	return users, nil
}

func (svc *Service) GetByEmail(email string) (User, error) {
	stored, err := svc.all()
	if err != nil {
		return User{}, err
	}
	email = core.CleanString(email, true /* lower */)
	for _, su := range stored {
		if su.Email == email {
			return su.user(), nil
		}
	}
	return User{}, ErrNotFound
}

func (svc *Service) Create(nu NewUser) (User, error) {
	if _, err := svc.GetByEmail(nu.Email); err == nil {
		return User{}, core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	} else if err != ErrNotFound {
		return User{}, err
	}

	now := nowFunc().UTC()
	usr := User{
		ID:        fmt.Sprintf("usr_%s", uuid.New().String()),
		Name:      nu.Name,
		Email:     core.CleanString(nu.Email, true),
		IsAdmin:   nu.IsAdmin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.put(usr)
}

// UpdateOrCreate stores usr, matching an existing record by email.
func (svc *Service) UpdateOrCreate(usr User) (User, error) {
	if existing, err := svc.GetByEmail(usr.Email); err == nil {
		usr.ID = existing.ID
		usr.CreatedAt = existing.CreatedAt
	} else if err != ErrNotFound {
		return User{}, err
	}
	if usr.ID == "" {
		usr.ID = fmt.Sprintf("usr_%s", uuid.New().String())
		usr.CreatedAt = nowFunc().UTC()
	}
	usr.UpdatedAt = nowFunc().UTC()
	return svc.put(usr)
}

func (svc *Service) put(usr User) (User, error) {
	stored, err := svc.all()
	if err != nil {
		return User{}, err
	}
	replaced := false
	for i, su := range stored {
		if su.ID == usr.ID {
			stored[i] = newStoredUser(usr)
			replaced = true
			break
		}
	}
	if !replaced {
		stored = append(stored, newStoredUser(usr))
	}
	if err := svc.save(stored); err != nil {
		return User{}, err
	}
	return usr, nil
}

// Authenticate checks the given credentials against the stored admin accounts.
func (svc *Service) Authenticate(email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(email)
	if err != nil {
		if err == ErrNotFound {
			return User{}, ErrAuthenticationFailed
		}
		return User{}, err
	}
	if err := usr.CheckPassword(pwd); err != nil {
		return User{}, ErrAuthenticationFailed
	}
	if !usr.IsActive {
		return User{}, ErrAccountDeactivated
	}
	return usr, nil
}

func newStoredUser(usr User) storedUser {
	su := storedUser{User: usr}
	su.PasswordHash = usr.PasswordHash
	return su
}

func (su storedUser) user() User {
	usr := su.User
	usr.PasswordHash = su.PasswordHash
	return usr
}
