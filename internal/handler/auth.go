package handler

import (
	"net/http"
	"strings"
	"time"

	"pdftools-backend/internal/config"
	"pdftools-backend/internal/session"
	"pdftools-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	cfg    *config.Config
	signer *session.Signer
}

func NewAuthHandler(cfg *config.Config, signer *session.Signer) *AuthHandler {
	return &AuthHandler{
		cfg:    cfg,
		signer: signer,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if username != h.cfg.Auth.Username || password != h.cfg.Auth.Password {
		logger.Warnf("failed login attempt for user %q", username)
		c.Data(http.StatusUnauthorized, "text/html; charset=utf-8",
			[]byte(renderLoginPage("Invalid username or password.")))
		return
	}

	token := h.signer.Issue(username, time.Now())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Session.CookieName, token, int(h.cfg.Session.TTL.Seconds()), "/", "", h.cookieSecure(c), true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Session.CookieName, "", -1, "/", "", h.cookieSecure(c), true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) Index(c *gin.Context) {
	if _, ok := h.currentUser(c); ok {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(renderAppPage()))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(renderLoginPage("")))
}

func (h *AuthHandler) Healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// RequireSession API 路由的会话校验中间件
func (h *AuthHandler) RequireSession(c *gin.Context) {
	if _, ok := h.currentUser(c); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.Next()
}

func (h *AuthHandler) currentUser(c *gin.Context) (string, bool) {
	token, err := c.Cookie(h.cfg.Session.CookieName)
	if err != nil {
		return "", false
	}
	return h.signer.Verify(token, time.Now())
}

func (h *AuthHandler) cookieSecure(c *gin.Context) bool {
	switch h.cfg.Cookie.Secure {
	case "always":
		return true
	case "never":
		return false
	}
	// auto: 只有信任代理头且转发协议是 https 时才置 Secure
	return h.cfg.Cookie.TrustProxyHeaders && forwardedProtoIsHTTPS(c.Request.Header)
}

func forwardedProtoIsHTTPS(header http.Header) bool {
	if v := header.Get("X-Forwarded-Proto"); v != "" {
		first := strings.TrimSpace(strings.Split(v, ",")[0])
		if strings.EqualFold(first, "https") {
			return true
		}
	}
	if v := header.Get("Forwarded"); v != "" {
		if strings.Contains(strings.ToLower(v), "proto=https") {
			return true
		}
	}
	return false
}
