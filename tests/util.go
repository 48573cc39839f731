package testutil

import (
	"io/ioutil"
	"log"
	"net/mail"
	"testing"
	"time"

	"github.com/clinigoal/backoffice/core"
	"github.com/clinigoal/backoffice/core/user"
	"github.com/clinigoal/backoffice/services/logger"
	"github.com/clinigoal/backoffice/storage/kvstore/dummy"
)

// NewConfig returns a deterministic configuration for tests.
func NewConfig() *core.Config {
	return &core.Config{
		Debug:     true,
		TestMode:  true,
		Env:       "TEST",
		AppName:   "Clinigoal",
		SecretKey: "secret",

		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "Clinigoal", Address: "noreply@test.clinigoal.com"},

		Server: core.ServerConfig{
			Host:                      "localhost",
			Addr:                      ":8000",
			ShutdownTimeout:           5 * time.Second,
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
}

func NewLogger() core.Logger {
	return logsvc.NewConsoleLogger(log.New(ioutil.Discard, "", 0))
}

// Seed writes v into the given bucket, failing the test on error.
func Seed(t *testing.T, store core.KeyValueStore, bucket string, v interface{}) {
	t.Helper()
	if err := store.Set(bucket, v); err != nil {
		t.Fatalf("Seed(%s) failed: %v", bucket, err)
	}
}

func NewStore() *dummystore.Store {
	return dummystore.Open()
}

// CreateUser saves a user through the service, failing the test on error.
func CreateUser(t *testing.T, svc *user.Service, name, email, pwd string, isAdmin, isActive bool) user.User {
	t.Helper()
	usr := user.User{
		Name:     name,
		Email:    email,
		IsAdmin:  isAdmin,
		IsActive: isActive,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := svc.UpdateOrCreate(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
