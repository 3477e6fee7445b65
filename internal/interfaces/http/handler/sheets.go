package handler

import (
	"context"

	appforms "github.com/cuadre/backend/internal/application/forms"
	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
)

// SheetsHandler saves the auxiliary sheets. Each sheet is written once and
// answers with the new entry's id.
type SheetsHandler struct {
	BaseHandler
	sheets *appforms.SheetsService
}

// NewSheetsHandler creates a new SheetsHandler
func NewSheetsHandler(sheets *appforms.SheetsService) *SheetsHandler {
	return &SheetsHandler{sheets: sheets}
}

// submitSheet binds In, runs save with the caller's session and answers 201
func submitSheet[In any](
	h *SheetsHandler,
	c *gin.Context,
	save func(ctx context.Context, session *identity.Session, in In) (*appforms.SavedEntry, error),
) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var in In
	if !h.BindJSON(c, &in) {
		return
	}
	saved, err := save(c.Request.Context(), session, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, saved)
}

// SubmitLoteria godoc
// @ID           submitLoteriaSheet
// @Summary      Save a Lotería sheet
// @Tags         sheets
// @Accept       json
// @Produce      json
// @Param        request body appforms.LoteriaInput true "Sheet"
// @Success      201 {object} APIResponse[appforms.SavedEntry]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forms/loteria [post]
func (h *SheetsHandler) SubmitLoteria(c *gin.Context) {
	submitSheet(h, c, h.sheets.SubmitLoteria)
}

// SubmitCashPayment godoc
// @ID           submitCashPayment
// @Summary      Save a cash payment
// @Tags         sheets
// @Accept       json
// @Produce      json
// @Param        request body appforms.CashPaymentInput true "Payment"
// @Success      201 {object} APIResponse[appforms.SavedEntry]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forms/cash-payment [post]
func (h *SheetsHandler) SubmitCashPayment(c *gin.Context) {
	submitSheet(h, c, h.sheets.SubmitCashPayment)
}

// SubmitTransfer godoc
// @ID           submitTransfer
// @Summary      Save a department transfer
// @Tags         sheets
// @Accept       json
// @Produce      json
// @Param        request body appforms.TransferInput true "Transfer"
// @Success      201 {object} APIResponse[appforms.SavedEntry]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forms/transfer [post]
func (h *SheetsHandler) SubmitTransfer(c *gin.Context) {
	submitSheet(h, c, h.sheets.SubmitTransfer)
}

// SubmitDaily godoc
// @ID           submitDailySheet
// @Summary      Save the daily shift summary
// @Tags         sheets
// @Accept       json
// @Produce      json
// @Param        request body appforms.DailyInput true "Summary"
// @Success      201 {object} APIResponse[appforms.SavedEntry]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forms/daily [post]
func (h *SheetsHandler) SubmitDaily(c *gin.Context) {
	submitSheet(h, c, h.sheets.SubmitDaily)
}
