package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"unihelp/internal/app"
	"unihelp/internal/transport/http/response"
)

type KnowledgeHandler struct {
	knowledgeService *app.KnowledgeService
}

func NewKnowledgeHandler(knowledgeService *app.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{knowledgeService: knowledgeService}
}

type FragmentRequest struct {
	Title   string `json:"title" binding:"required,max=256"`
	Content string `json:"content" binding:"required"`
}

func (h *KnowledgeHandler) List(c *gin.Context) {
	fragments, err := h.knowledgeService.ListFragments()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list fragments failed")
		return
	}
	response.OK(c, fragments)
}

func (h *KnowledgeHandler) Create(c *gin.Context) {
	var req FragmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	fragment, err := h.knowledgeService.CreateFragment(req.Title, req.Content)
	if err != nil {
		h.writeError(c, err, "create fragment failed")
		return
	}
	response.OK(c, fragment)
}

func (h *KnowledgeHandler) Edit(c *gin.Context) {
	fragmentID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req FragmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	fragment, err := h.knowledgeService.EditFragment(fragmentID, req.Title, req.Content)
	if err != nil {
		h.writeError(c, err, "edit fragment failed")
		return
	}
	response.OK(c, fragment)
}

func (h *KnowledgeHandler) Delete(c *gin.Context) {
	fragmentID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.knowledgeService.DeleteFragment(fragmentID); err != nil {
		h.writeError(c, err, "delete fragment failed")
		return
	}
	response.OK(c, gin.H{"deleted_fragment_id": fragmentID})
}

// Preview shows the system instruction the assistant would currently be
// seeded with, so admins can sanity-check the knowledge base.
func (h *KnowledgeHandler) Preview(c *gin.Context) {
	instruction, err := h.knowledgeService.PreviewInstruction()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "preview instruction failed")
		return
	}
	response.OK(c, gin.H{"instruction": instruction})
}

func (h *KnowledgeHandler) writeError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallbackMsg)
	}
}
