package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinigoal/backoffice/core"
	"github.com/clinigoal/backoffice/core/user"
)

type authApi struct {
	conf    *core.Config
	service *user.Service
}

func registerAuthAPI(g *echo.Group, jwtMW echo.MiddlewareFunc, conf *core.Config, svc *user.Service) {
	api := authApi{conf: conf, service: svc}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/token-refresh", api.tokenRefresh, jwtMW)
}

func (api *authApi) login(ctx echo.Context) error {
	data := new(LoginRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := authenticate(api.conf, api.service, data.Email, data.Password)
	if err != nil {
		return err
	}
	token, err := GenerateToken(api.conf, claims)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

func (api *authApi) tokenRefresh(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.conf, api.service)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	TokenResponse struct {
		Token string `json:"token"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return core.Validate.Struct(lr)
}
