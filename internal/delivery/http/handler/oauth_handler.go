package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"taskboard/internal/config"
	"taskboard/internal/logger"
	"taskboard/internal/middleware"
	"taskboard/internal/oauth"
	"taskboard/internal/usecase/user"
	"taskboard/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const oauthStateCookie = "oauth_state"

type OAuthHandler struct {
	service *user.Service
	google  *oauth.GoogleClient
	cfg     *config.Config
}

func NewOAuthHandler(service *user.Service, google *oauth.GoogleClient, cfg *config.Config) *OAuthHandler {
	return &OAuthHandler{
		service: service,
		google:  google,
		cfg:     cfg,
	}
}

func (h *OAuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/google-login", h.GoogleLogin)
		users.GET("/google-callback", h.GoogleCallback)
	}
}

func (h *OAuthHandler) GoogleLogin(c *gin.Context) {
	state, err := utils.GenerateStateToken()
	if err != nil {
		respondWithError(c, fmt.Errorf("failed to generate state token: %w", err))
		return
	}

	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.google.AuthURL(state))
}

// GoogleCallback completes the OAuth flow and redirects to the frontend with
// the issued token pair appended as query parameters.
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid OAuth state")
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Missing authorization code")
		return
	}

	profile, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		logger.Error("OAuth code exchange failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusUnauthorized, "OAuth login failed")
		return
	}

	pair, err := h.service.OAuthSignIn(c.Request.Context(), user.OAuthSignInInput{
		Email:      profile.Email,
		GivenName:  profile.GivenName,
		FamilyName: profile.FamilyName,
		SubjectID:  profile.SubjectID,
		Picture:    profile.Picture,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	redirect := fmt.Sprintf("%s/?accessToken=%s&refreshToken=%s",
		h.cfg.Frontend.URL,
		url.QueryEscape(pair.AccessToken),
		url.QueryEscape(pair.RefreshToken),
	)
	c.Redirect(http.StatusFound, redirect)
}
