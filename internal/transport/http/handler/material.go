package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"unihelp/internal/app"
	"unihelp/internal/transport/http/response"
)

// maxUploadBytes bounds a single material file.
const maxUploadBytes = 20 << 20

type MaterialHandler struct {
	materialService *app.MaterialService
}

func NewMaterialHandler(materialService *app.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

type EditMaterialRequest struct {
	Title       string `json:"title" binding:"max=256"`
	Description string `json:"description"`
	Course      string `json:"course" binding:"max=128"`
	Topic       string `json:"topic" binding:"max=128"`
	TextContent string `json:"text_content"`
}

type ReviewMaterialRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
}

// Submit accepts a multipart form: title, description, course, topic,
// text_content, and an optional file.
func (h *MaterialHandler) Submit(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	input := app.SubmitMaterialInput{
		OwnerID:     userID,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Course:      c.PostForm("course"),
		Topic:       c.PostForm("topic"),
		TextContent: c.PostForm("text_content"),
	}

	if fileHeader, err := c.FormFile("file"); err == nil {
		if fileHeader.Size > maxUploadBytes {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large")
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "read uploaded file failed")
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "read uploaded file failed")
			return
		}
		input.FileName = fileHeader.Filename
		input.FileData = data
	}

	material, err := h.materialService.Submit(input)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "submit material failed")
		}
		return
	}

	response.OK(c, material)
}

func (h *MaterialHandler) ListMine(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	materials, err := h.materialService.ListMine(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list materials failed")
		return
	}
	response.OK(c, materials)
}

func (h *MaterialHandler) ListPending(c *gin.Context) {
	materials, err := h.materialService.ListPending()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list pending materials failed")
		return
	}
	response.OK(c, materials)
}

func (h *MaterialHandler) Edit(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}
	materialID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req EditMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	material, err := h.materialService.Edit(materialID, userID, app.EditMaterialInput{
		Title:       req.Title,
		Description: req.Description,
		Course:      req.Course,
		Topic:       req.Topic,
		TextContent: req.TextContent,
	})
	if err != nil {
		h.writeLifecycleError(c, err, "edit material failed")
		return
	}
	response.OK(c, material)
}

func (h *MaterialHandler) Delete(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}
	materialID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.materialService.Delete(materialID, userID); err != nil {
		h.writeLifecycleError(c, err, "delete material failed")
		return
	}
	response.OK(c, gin.H{"deleted_material_id": materialID})
}

func (h *MaterialHandler) Review(c *gin.Context) {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}
	materialID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req ReviewMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	material, err := h.materialService.Review(materialID, req.Decision, adminID)
	if err != nil {
		h.writeLifecycleError(c, err, "review material failed")
		return
	}
	response.OK(c, material)
}

func (h *MaterialHandler) Convert(c *gin.Context) {
	materialID, ok := parseIDParam(c)
	if !ok {
		return
	}

	fragment, err := h.materialService.Convert(materialID)
	if err != nil {
		h.writeLifecycleError(c, err, "convert material failed")
		return
	}
	response.OK(c, fragment)
}

func (h *MaterialHandler) writeLifecycleError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, app.ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
	case errors.Is(err, app.ErrInvalidTransition):
		response.Error(c, http.StatusConflict, response.CodeInvalidTransition, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallbackMsg)
	}
}
