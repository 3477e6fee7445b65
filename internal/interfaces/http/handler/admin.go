package handler

import (
	appidentity "github.com/cuadre/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler manages organizations and profiles. Routes are mounted
// behind RequireAdmin.
type AdminHandler struct {
	BaseHandler
	admin *appidentity.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(admin *appidentity.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// ListOrgs godoc
// @ID           adminListOrgs
// @Summary      List organizations
// @Description  Every organization ordered by name
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse[[]OrgResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orgs [get]
func (h *AdminHandler) ListOrgs(c *gin.Context) {
	orgs, err := h.admin.ListOrgs(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]OrgResponse, 0, len(orgs))
	for i := range orgs {
		out = append(out, toOrgResponse(&orgs[i]))
	}
	h.Success(c, out)
}

// CreateOrg godoc
// @ID           adminCreateOrg
// @Summary      Create an organization
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body CreateOrgRequest true "Organization"
// @Success      201 {object} APIResponse[OrgResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orgs [post]
func (h *AdminHandler) CreateOrg(c *gin.Context) {
	var req CreateOrgRequest
	if !h.BindJSON(c, &req) {
		return
	}
	org, err := h.admin.CreateOrg(c.Request.Context(), req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toOrgResponse(org))
}

// CreateUser godoc
// @ID           adminCreateUser
// @Summary      Create a user
// @Description  Creates the account and its profile. The role defaults to user.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "User"
// @Success      201 {object} APIResponse[ProfileResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users [post]
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}
	profile, err := h.admin.CreateUser(c.Request.Context(), appidentity.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
		OrgID:    req.OrgID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toProfileResponse(profile))
}

// ListProfiles godoc
// @ID           adminListProfiles
// @Summary      List profiles
// @Description  The most recent profiles, newest first
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse[[]ProfileResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/profiles [get]
func (h *AdminHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.admin.ListProfiles(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]ProfileResponse, 0, len(profiles))
	for i := range profiles {
		out = append(out, toProfileResponse(&profiles[i]))
	}
	h.Success(c, out)
}

// UpdateProfile godoc
// @ID           adminUpdateProfile
// @Summary      Update a profile
// @Description  Changes role, organization or active flag. Deactivating a user signs them out.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        user_id path string true "User ID" format(uuid)
// @Param        request body UpdateProfileRequest true "Changes"
// @Success      200 {object} APIResponse[ProfileResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/profiles/{user_id} [patch]
func (h *AdminHandler) UpdateProfile(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}
	var req UpdateProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input := appidentity.UpdateProfileInput{Role: req.Role, IsActive: req.IsActive}
	if req.OrgID.Set {
		input.OrgID = req.OrgID.Value
		input.ClearOrg = req.OrgID.Value == nil
	}
	profile, err := h.admin.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProfileResponse(profile))
}
