package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio/internal/apperr"
	"portfolio/internal/auth"
)

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json") ||
		c.ContentType() == "application/json"
}

func (s *Server) authPage(c *gin.Context) {
	mode := "signin"
	if c.Query("mode") == "signup" {
		mode = "signup"
	}
	c.HTML(http.StatusOK, "auth.html", gin.H{"Mode": mode})
}

func (s *Server) signIn(c *gin.Context) {
	s.authenticate(c, "signin", s.Auth.SignIn)
}

func (s *Server) signUp(c *gin.Context) {
	s.authenticate(c, "signup", s.Auth.SignUp)
}

type authFunc func(ctx context.Context, creds auth.Credentials) (auth.Principal, error)

func (s *Server) authenticate(c *gin.Context, mode string, fn authFunc) {
	var creds auth.Credentials
	if err := c.ShouldBind(&creds); err != nil {
		if wantsJSON(c) {
			badPayload(c)
			return
		}
		c.HTML(http.StatusBadRequest, "auth.html", gin.H{"Mode": mode, "Error": "invalid payload"})
		return
	}

	p, err := fn(c.Request.Context(), creds)
	if err != nil {
		if wantsJSON(c) {
			respondErr(c, err)
			return
		}
		c.HTML(apperr.HTTPStatus(err), "auth.html", gin.H{"Mode": mode, "Email": creds.Email, "Error": apperr.Message(err)})
		return
	}

	s.setSessionCookie(c, p.Token, int(s.SessionTTL.Seconds()))
	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"principal": p, "token": p.Token})
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (s *Server) signOut(c *gin.Context) {
	token := auth.TokenFromRequest(c)
	if err := s.Auth.SignOut(c.Request.Context(), token); err != nil {
		respondErr(c, err)
		return
	}
	if token != "" {
		s.Drafts.Forget(token)
	}
	s.setSessionCookie(c, "", -1)
	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, maxAge, "/", "", s.SecureCookies, true)
}
