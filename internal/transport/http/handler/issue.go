package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"unihelp/internal/app"
	"unihelp/internal/model"
	"unihelp/internal/transport/http/middleware"
	"unihelp/internal/transport/http/response"
)

type IssueHandler struct {
	issueService *app.IssueService
}

func NewIssueHandler(issueService *app.IssueService) *IssueHandler {
	return &IssueHandler{issueService: issueService}
}

type CreateIssueRequest struct {
	Title string `json:"title" binding:"required,max=256"`
	Body  string `json:"body"`
}

type UpdateIssueStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open in_progress resolved"`
}

func (h *IssueHandler) Create(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	issue, err := h.issueService.Create(app.CreateIssueInput{
		UserID: userID,
		Title:  req.Title,
		Body:   req.Body,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create issue failed")
		return
	}
	response.OK(c, issue)
}

// List returns the caller's issues; admins see everyone's.
func (h *IssueHandler) List(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	role, _ := c.Get(middleware.ContextRoleKey)
	var issues []model.Issue
	var err error
	if role == model.RoleAdmin {
		issues, err = h.issueService.ListAll()
	} else {
		issues, err = h.issueService.ListMine(userID)
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list issues failed")
		return
	}
	response.OK(c, issues)
}

func (h *IssueHandler) UpdateStatus(c *gin.Context) {
	issueID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateIssueStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	issue, err := h.issueService.UpdateStatus(issueID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update issue failed")
		}
		return
	}
	response.OK(c, issue)
}
