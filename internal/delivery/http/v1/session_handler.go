package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-profile-builder/internal/delivery/http/middleware"
	"go-profile-builder/internal/delivery/http/response"
	"go-profile-builder/internal/domain"
)

type SessionHandler struct {
	sessionUC domain.SessionUsecase
}

// NewSessionHandler registers the login route on the public group and logout
// on the protected group.
func NewSessionHandler(public, protected *gin.RouterGroup, sessionUC domain.SessionUsecase, loginLimit int) {
	handler := &SessionHandler{sessionUC: sessionUC}

	public.POST("/session/login", middleware.RateLimitMiddleware(middleware.LoginRateLimitConfig(loginLimit)), handler.Login)
	protected.POST("/session/logout", handler.Logout)
}

type loginRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	ProfileID string `json:"profile_id"`
	Email     string `json:"email" binding:"required,email"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Session *domain.Session `json:"session"`
}

// Login godoc
// @Summary      Issue a session token
// @Description  Record a session for an already-authenticated user and return a signed token. The upstream system owns credential verification.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        request  body      loginRequest  true  "Authenticated identity"
// @Success      200      {object}  response.Response{data=loginResponse}
// @Failure      400      {object}  response.Response
// @Router       /session/login [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}

	token, session, err := h.sessionUC.Login(c, req.UserID, req.ProfileID, req.Email)
	if err != nil {
		c.Error(err)
		return
	}

	// Cookie mirrors the token for browser clients that do not attach the
	// Authorization header themselves.
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token, int(domain.SessionTTL.Seconds()), "/", "", true, true)

	response.Success(c, http.StatusOK, "Session created", loginResponse{
		Token:   token,
		Session: session,
	})
}

// Logout godoc
// @Summary      End the session
// @Description  Clear the stored session and expire the session cookie
// @Tags         session
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /session/logout [post]
// @Security     BearerAuth
func (h *SessionHandler) Logout(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	if err := h.sessionUC.Logout(c, userID); err != nil {
		c.Error(err)
		return
	}

	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", true, true)
	response.Success(c, http.StatusOK, "Logged out", nil)
}
