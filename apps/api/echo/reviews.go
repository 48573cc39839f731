package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinigoal/backoffice/core"
	"github.com/clinigoal/backoffice/core/review"
)

type reviewApi struct {
	service *review.Service
}

func registerReviewAPI(g *echo.Group, jwtMW echo.MiddlewareFunc, svc *review.Service) {
	api := reviewApi{service: svc}

	rg := g.Group("/reviews", jwtMW, adminMiddleware())
	rg.GET("", api.reviewList)
	rg.POST("/sync", api.reviewSync)
	rg.PUT("/:id", api.reviewModerate)
	rg.DELETE("/:id", api.reviewDestroy)
}

func (api *reviewApi) reviewList(ctx echo.Context) error {
	reviews, err := api.service.LoadReviews()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, reviews)
}

// reviewSync folds newly discovered reviews into the moderation working set.
func (api *reviewApi) reviewSync(ctx echo.Context) error {
	merged, newCount, err := api.service.Sync()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SyncReviewsResponse{Reviews: merged, NewCount: newCount})
}

func (api *reviewApi) reviewModerate(ctx echo.Context) error {
	data := new(ModerationRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	id := ctx.Param("id")
	var rev review.Review
	var err error
	if data.Status != "" {
		if rev, err = api.service.Moderate(id, data.Status); err != nil {
			if err == review.ErrNotFound {
				return errHttpNotFound
			}
			return err
		}
	}
	if data.Verified != nil {
		if rev, err = api.service.Verify(id, *data.Verified); err != nil {
			if err == review.ErrNotFound {
				return errHttpNotFound
			}
			return err
		}
	}
	return ctx.JSON(http.StatusOK, rev)
}

func (api *reviewApi) reviewDestroy(ctx echo.Context) error {
	if err := api.service.Delete(ctx.Param("id")); err != nil {
		if err == review.ErrNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	SyncReviewsResponse struct {
		Reviews  []review.Review `json:"reviews"`
		NewCount int             `json:"new_count"`
	}

	// ModerationRequest updates a review's status and/or verified flag.
	ModerationRequest struct {
		Status   string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
		Verified *bool  `json:"verified"`
	}
)

func (mr *ModerationRequest) Validate() error {
	mr.Status = core.CleanString(mr.Status, true /* lower */)
	if mr.Status == "" && mr.Verified == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "status", Error: "one of status or verified is required"})
	}
	return core.Validate.Struct(mr)
}
