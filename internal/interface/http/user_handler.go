package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-user-api/internal/application"
	"github.com/oksasatya/go-user-api/internal/interface/middleware"
	"github.com/oksasatya/go-user-api/pkg/response"
	"github.com/oksasatya/go-user-api/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type userRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

func (r userRequest) input() userapp.UserInput {
	return userapp.UserInput{Email: r.Email, Password: r.Password, FirstName: r.FirstName, LastName: r.LastName, Phone: r.Phone}
}

type deleteRequest struct {
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

const msgInvalidJSON = "invalid json payload"

// bindPayload decodes an optional JSON body; an empty body is an empty payload.
func bindPayload(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// statusFor maps service error kinds onto the API's status codes.
// Only the admin check answers 401; everything else is 500.
func statusFor(err error) int {
	if userapp.KindOf(err) == userapp.KindAuthorization {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	if h.Logger != nil {
		h.Logger.WithFields(logrus.Fields{
			"kind":       userapp.KindOf(err).String(),
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		}).Debug(err.Error())
	}
	response.Error(c, statusFor(err), err.Error())
}

// Register POST /user-api/register
func (h *UserHandler) Register(c *gin.Context) {
	var req userRequest
	if err := bindPayload(c, &req); err != nil {
		response.Error(c, http.StatusInternalServerError, msgInvalidJSON)
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, fmt.Sprintf("User %s registered successfully", u.Username))
}

// Edit POST /user-api/edit (bearer token)
func (h *UserHandler) Edit(c *gin.Context) {
	var req userRequest
	if err := bindPayload(c, &req); err != nil {
		response.Error(c, http.StatusInternalServerError, msgInvalidJSON)
		return
	}
	u, err := h.Svc.Edit(c.Request.Context(), middleware.CurrentUser(c), req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, fmt.Sprintf("User %s updated successfully", u.Username))
}

// List GET /user-api/list
func (h *UserHandler) List(c *gin.Context) {
	out, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, out)
}

// Delete DELETE /user-api/delete (bearer token, admin)
func (h *UserHandler) Delete(c *gin.Context) {
	var req deleteRequest
	// a malformed body reads as a missing email; the role check still comes first
	_ = bindPayload(c, &req)

	if err := h.Svc.Delete(c.Request.Context(), middleware.CurrentUser(c), req.Email); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, fmt.Sprintf("User %s deleted successfully", req.Email))
}

// Login POST /user-api/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, detailsMessage(validation.ToDetails(err)))
		return
	}
	tok, exp, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userapp.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to issue token")
		return
	}
	response.JSON(c, http.StatusOK, loginResponse{Token: tok, ExpiresAt: exp.UTC().Format(time.RFC3339)})
}

// Search GET /user-api/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	out, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, out)
}

func detailsMessage(details map[string]string) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+details[k])
	}
	return strings.Join(parts, "; ")
}
