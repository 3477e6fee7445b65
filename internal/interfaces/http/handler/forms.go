package handler

import (
	"net/http"
	"strings"

	appforms "github.com/cuadre/backend/internal/application/forms"
	"github.com/cuadre/backend/internal/interfaces/http/dto"
	"github.com/cuadre/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FormsHandler serves the Safe cuadre form, its receipts and the recent
// entries list. The form state is held by the client and sent with every
// call.
type FormsHandler struct {
	BaseHandler
	safe     *appforms.SafeForm
	recent   *appforms.RecentEntriesService
	receipts *appforms.ReceiptService
}

// NewFormsHandler creates a new FormsHandler. receipts may be nil.
func NewFormsHandler(safe *appforms.SafeForm, recent *appforms.RecentEntriesService, receipts *appforms.ReceiptService) *FormsHandler {
	return &FormsHandler{safe: safe, recent: recent, receipts: receipts}
}

func (h *FormsHandler) render(state appforms.SafeState) SafeFormResponse {
	return SafeFormResponse{State: state, View: h.safe.Render(state)}
}

// NewSafe godoc
// @ID           newSafeForm
// @Summary      Start a Safe cuadre
// @Description  A fresh instance with today's date, zeroed counts and the default employee name
// @Tags         forms
// @Produce      json
// @Success      200 {object} APIResponse[SafeFormResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forms/safe/new [get]
func (h *FormsHandler) NewSafe(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	h.Success(c, h.render(h.safe.NewState(session)))
}

// ChangeSafe godoc
// @ID           changeSafeForm
// @Summary      Edit one Safe field
// @Description  Applies the edit, clears the status line and re-renders every total
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        request body SafeChangeRequest true "State and edit"
// @Success      200 {object} APIResponse[SafeFormResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forms/safe/change [post]
func (h *FormsHandler) ChangeSafe(c *gin.Context) {
	var req SafeChangeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.Success(c, h.render(h.safe.OnChange(req.State, req.Event)))
}

// ClearSafe godoc
// @ID           clearSafeForm
// @Summary      Clear a Safe form
// @Description  Resets every input of the instance and re-applies the defaults
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        request body SafeStateRequest true "State"
// @Success      200 {object} APIResponse[SafeFormResponse]
// @Security     BearerAuth
// @Router       /forms/safe/clear [post]
func (h *FormsHandler) ClearSafe(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req SafeStateRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.Success(c, h.render(h.safe.Clear(req.State, session)))
}

// SubmitSafe godoc
// @ID           submitSafeForm
// @Summary      Save a Safe cuadre
// @Description  Validates and writes the entry once. The X-Form-Instance header, when present, names the instance; a second submit of an instance still being saved answers 409.
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        X-Form-Instance header string false "Form instance id"
// @Param        request body SafeStateRequest true "State"
// @Success      201 {object} APIResponse[SafeSubmitResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forms/safe [post]
func (h *FormsHandler) SubmitSafe(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req SafeStateRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if instance := strings.TrimSpace(c.GetHeader(middleware.FormInstanceHeader)); instance != "" {
		req.State.InstanceID = instance
	}

	res := h.safe.OnSubmit(c.Request.Context(), session, req.State)
	switch res.Outcome {
	case appforms.OutcomeSaved:
		h.Created(c, SafeSubmitResponse{
			EntryID:   res.EntryID,
			CreatedAt: res.CreatedAt,
			Message:   res.Message,
			Layout:    res.Variant.String(),
			State:     res.State,
			View:      h.safe.Render(res.State),
		})
	case appforms.OutcomeIgnored:
		h.Error(c, http.StatusConflict, dto.ErrCodeSubmissionInFlight, res.Message)
	default:
		h.HandleError(c, res.Err)
	}
}

// SafeReceipt godoc
// @ID           getSafeReceipt
// @Summary      Print a Safe receipt
// @Description  Renders the entry to an 80mm PDF, stores it and returns a presigned download link
// @Tags         forms
// @Produce      json
// @Param        id path string true "Entry ID" format(uuid)
// @Success      200 {object} APIResponse[appforms.ReceiptLink]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forms/safe/{id}/receipt [get]
func (h *FormsHandler) SafeReceipt(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}
	if !h.receipts.Enabled() {
		h.Error(c, http.StatusNotFound, dto.ErrCodeFeatureDisabled, "Receipts are not enabled")
		return
	}

	link, err := h.receipts.Generate(c.Request.Context(), session, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, link)
}

// Recent godoc
// @ID           listRecentEntries
// @Summary      Recent Safe entries
// @Description  The newest Safe entries; users with an organization see only theirs
// @Tags         forms
// @Produce      json
// @Success      200 {object} APIResponse[[]forms.RecentEntry]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forms/recent [get]
func (h *FormsHandler) Recent(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	entries, err := h.recent.List(c.Request.Context(), session)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}
