package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinigoal/backoffice/core"
	"github.com/clinigoal/backoffice/core/payment"
)

type paymentApi struct {
	service *payment.Service
}

func registerPaymentAPI(g *echo.Group, jwtMW echo.MiddlewareFunc, svc *payment.Service) {
	api := paymentApi{service: svc}

	pg := g.Group("/payments", jwtMW, adminMiddleware())
	pg.GET("", api.paymentList)
	pg.POST("/sync", api.paymentSync)

	ag := g.Group("/approvals", jwtMW, adminMiddleware())
	ag.GET("", api.approvalList)
	ag.PUT("/:id", api.approvalDecide)
}

// paymentList collects the deduplicated payments and directly-discovered
// approvals from every known bucket.
func (api *paymentApi) paymentList(ctx echo.Context) error {
	payments, approvals := api.service.CollectPayments()
	return ctx.JSON(http.StatusOK, CollectResponse{Payments: payments, Approvals: approvals})
}

// paymentSync folds newly discovered paid enrollments into the admin working set.
func (api *paymentApi) paymentSync(ctx echo.Context) error {
	merged, newCount, err := api.service.SyncApprovals()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SyncApprovalsResponse{Approvals: merged, NewCount: newCount})
}

func (api *paymentApi) approvalList(ctx echo.Context) error {
	approvals, err := api.service.LoadApprovals()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, approvals)
}

func (api *paymentApi) approvalDecide(ctx echo.Context) error {
	data := new(DecisionRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	appr, err := api.service.DecideApproval(ctx.Param("id"), data.Status)
	if err != nil {
		if err == payment.ErrApprovalNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, appr)
}

type (
	CollectResponse struct {
		Payments  []payment.Payment  `json:"payments"`
		Approvals []payment.Approval `json:"approvals"`
	}

	SyncApprovalsResponse struct {
		Approvals []payment.Approval `json:"approvals"`
		NewCount  int                `json:"new_count"`
	}

	DecisionRequest struct {
		Status string `json:"status" validate:"required,oneof=approved rejected"`
	}
)

func (dr *DecisionRequest) Validate() error {
	dr.Status = core.CleanString(dr.Status, true /* lower */)
	return core.Validate.Struct(dr)
}
