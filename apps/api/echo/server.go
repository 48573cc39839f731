package echoapi

import (
	"context"
	"net/http"
	"os"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/clinigoal/backoffice/core"
	"github.com/clinigoal/backoffice/core/payment"
	"github.com/clinigoal/backoffice/core/quiz"
	"github.com/clinigoal/backoffice/core/review"
	"github.com/clinigoal/backoffice/core/user"
)

type (
	// Deps holds the services the API depends on.
	Deps struct {
		Conf       *core.Config
		Logger     core.Logger
		UserSvc    *user.Service
		PaymentSvc *payment.Service
		ReviewSvc  *review.Service
		Tracker    *quiz.Tracker
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		addr     string
		shutdown chan os.Signal
		deps     *Deps
		app      *echo.Echo
		jwtConf  middleware.JWTConfig
	}
)

var _ Server = (*server)(nil)

func NewServer(addr string, shutdown chan os.Signal, deps *Deps) Server {
	s := &server{
		addr:     addr,
		shutdown: shutdown,
		deps:     deps,
		app:      echo.New(),
		jwtConf:  newJWTConfig(deps.Conf),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwtMW := middleware.JWTWithConfig(s.jwtConf)

	registerAuthAPI(v1, jwtMW, conf, s.deps.UserSvc)
	registerPaymentAPI(v1, jwtMW, s.deps.PaymentSvc)
	registerReviewAPI(v1, jwtMW, s.deps.ReviewSvc)
	registerProgressAPI(v1, jwtMW, s.deps.Tracker)
}

func (s *server) Start() error {
	return s.app.Start(s.addr)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// signalShutdown is called by the error handler when an integrity issue is
// caught and the server must be gracefully shut down.
func (s *server) signalShutdown() {
	if s.shutdown != nil {
		s.shutdown <- syscall.SIGTERM
	}
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the Clinigoal back-office API!")
}
