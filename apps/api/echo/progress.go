package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinigoal/backoffice/core/quiz"
)

type progressApi struct {
	tracker *quiz.Tracker
}

func registerProgressAPI(g *echo.Group, jwtMW echo.MiddlewareFunc, tracker *quiz.Tracker) {
	api := progressApi{tracker: tracker}

	pg := g.Group("/progress", jwtMW, adminMiddleware())
	pg.GET("", api.progressRetrieve)
}

// progressRetrieve returns the persisted completed-items sets.
func (api *progressApi) progressRetrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.tracker.Snapshot())
}
