package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/conceptnametag-service/internal/app"
	"github.com/jsamuelsen/conceptnametag-service/internal/domain"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/config"
	"github.com/jsamuelsen/conceptnametag-service/internal/ports"
)

// ConceptNameTagHandler serves the tag API.
type ConceptNameTagHandler struct {
	service *app.ConceptNameTagService
	auth    *config.AuthConfig
}

// NewConceptNameTagHandler creates the handler. auth may be nil, which leaves
// mutating routes unprotected.
func NewConceptNameTagHandler(service *app.ConceptNameTagService, auth *config.AuthConfig) *ConceptNameTagHandler {
	return &ConceptNameTagHandler{service: service, auth: auth}
}

// Validate handles POST /concept-name-tags/validate.
// Rule failures are a normal outcome here: the response is 200 with valid=false.
func (h *ConceptNameTagHandler) Validate(c *gin.Context) {
	var req dto.ConceptNameTagRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindingError(c, err)
		return
	}

	errs, err := h.service.Validate(c.Request.Context(), req.ToDomain())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewValidationResult(errs))
}

// ValidateBatch handles POST /concept-name-tags/validate-batch.
func (h *ConceptNameTagHandler) ValidateBatch(c *gin.Context) {
	var req dto.BatchValidateRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindingError(c, err)
		return
	}

	tags := make([]*domain.ConceptNameTag, len(req.Tags))
	for i := range req.Tags {
		tags[i] = req.Tags[i].ToDomain()
	}

	results, err := h.service.ValidateBatch(c.Request.Context(), tags, app.DefaultBatchConcurrency)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	resp := dto.BatchValidateResponse{Results: make([]dto.BatchItemResult, 0, len(results))}

	for _, r := range results {
		item := dto.BatchItemResult{Index: r.Index, ValidationResult: dto.NewValidationResult(r.Errors)}

		if r.Err != nil {
			_, errResp := dto.MapDomainError(r.Err)
			item.Valid = false
			item.Error = &errResp.Error
		}

		if !item.Valid {
			resp.Invalid++
		}

		resp.Results = append(resp.Results, item)
	}

	c.JSON(http.StatusOK, resp)
}

// Create handles POST /concept-name-tags.
func (h *ConceptNameTagHandler) Create(c *gin.Context) {
	var req dto.ConceptNameTagRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindingError(c, err)
		return
	}

	tag := req.ToDomain()
	tag.VoidReason = ""

	if err := h.service.Save(c.Request.Context(), tag, middleware.CurrentUser(c)); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Location", c.FullPath()+"/"+tag.UUID)
	c.JSON(http.StatusCreated, dto.FromConceptNameTag(tag))
}

// List handles GET /concept-name-tags. Pages are ordered by tag; the cursor
// carries the last tag of the previous page.
func (h *ConceptNameTagHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.RespondWithBindingError(c, err)
		return
	}

	opts := ports.ListOptions{
		IncludeVoided: req.IncludeVoided,
		Limit:         req.GetLimit(),
	}

	cursor, err := req.DecodeCursor()
	switch {
	case errors.Is(err, dto.ErrNoCursor):
	case err != nil || cursor.Field != dto.CursorField:
		dto.AbortWithCode(c, dto.ErrorCodeBadRequest, dto.ErrInvalidCursor.Error())
		return
	default:
		opts.After = cursor.Value
	}

	tags, limit, err := h.service.ListPage(c.Request.Context(), opts)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	items := make([]dto.ConceptNameTagResponse, 0, len(tags))
	for _, tag := range tags {
		items = append(items, dto.FromConceptNameTag(tag))
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(items, limit, dto.TagCursor))
}

// Get handles GET /concept-name-tags/:uuid.
func (h *ConceptNameTagHandler) Get(c *gin.Context) {
	tag, err := h.service.GetByUUID(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromConceptNameTag(tag))
}

// GetByName handles GET /concept-name-tags/by-name/:name.
func (h *ConceptNameTagHandler) GetByName(c *gin.Context) {
	tag, err := h.service.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromConceptNameTag(tag))
}

// Update handles PUT /concept-name-tags/:uuid.
func (h *ConceptNameTagHandler) Update(c *gin.Context) {
	var req dto.ConceptNameTagRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindingError(c, err)
		return
	}

	ctx := c.Request.Context()

	tag, err := h.service.GetByUUID(ctx, c.Param("uuid"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	req.ApplyTo(tag)

	if err := h.service.Save(ctx, tag, middleware.CurrentUser(c)); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromConceptNameTag(tag))
}

// Void handles POST /concept-name-tags/:uuid/void.
func (h *ConceptNameTagHandler) Void(c *gin.Context) {
	var req dto.VoidRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindingError(c, err)
		return
	}

	ctx := c.Request.Context()

	tag, err := h.service.GetByUUID(ctx, c.Param("uuid"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	tag, err = h.service.Void(ctx, tag.ID, req.Reason, middleware.CurrentUser(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromConceptNameTag(tag))
}

// Unvoid handles POST /concept-name-tags/:uuid/unvoid.
func (h *ConceptNameTagHandler) Unvoid(c *gin.Context) {
	ctx := c.Request.Context()

	tag, err := h.service.GetByUUID(ctx, c.Param("uuid"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	tag, err = h.service.Unvoid(ctx, tag.ID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromConceptNameTag(tag))
}

// Purge handles DELETE /concept-name-tags/:uuid.
func (h *ConceptNameTagHandler) Purge(c *gin.Context) {
	ctx := c.Request.Context()

	tag, err := h.service.GetByUUID(ctx, c.Param("uuid"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.service.Purge(ctx, tag.ID); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers the tag routes. Reads and validation are open to
// any authenticated user; changes need the manage privilege.
func (h *ConceptNameTagHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tags := rg.Group("/concept-name-tags")

	tags.POST("/validate", h.Validate)
	tags.POST("/validate-batch", h.ValidateBatch)
	tags.GET("", h.List)
	tags.GET("/:uuid", h.Get)
	tags.GET("/by-name/:name", h.GetByName)

	privilege := config.DefaultManagePrivilege
	if h.auth != nil && h.auth.ManagePrivilege != "" {
		privilege = h.auth.ManagePrivilege
	}

	manage := tags.Group("")
	manage.Use(middleware.RequirePrivilege(h.auth, privilege))

	manage.POST("", h.Create)
	manage.PUT("/:uuid", h.Update)
	manage.POST("/:uuid/void", h.Void)
	manage.POST("/:uuid/unvoid", h.Unvoid)
	manage.DELETE("/:uuid", h.Purge)
}
