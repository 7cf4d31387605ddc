package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"

	"github.com/noah-isme/arqon-study-api/internal/models"
)

const (
	rememberCookieName   = "arqon_remember_me"
	rememberCookieMaxAge = 30 * 24 * time.Hour
)

// RememberCookie signs the remember-me preference into a browser cookie.
type RememberCookie struct {
	codec  *securecookie.SecureCookie
	secure bool
}

// NewRememberCookie builds a signed, unencrypted cookie codec.
func NewRememberCookie(hashKey []byte, secure bool) *RememberCookie {
	codec := securecookie.New(hashKey, nil)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(int(rememberCookieMaxAge.Seconds()))
	return &RememberCookie{codec: codec, secure: secure}
}

// Write stores the preference, or expires the cookie when remember is off.
func (r *RememberCookie) Write(c *gin.Context, pref models.RememberMe) error {
	if !pref.Remember {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(rememberCookieName, "", -1, "/", "", r.secure, true)
		return nil
	}
	encoded, err := r.codec.Encode(rememberCookieName, pref)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(rememberCookieName, encoded, int(rememberCookieMaxAge.Seconds()), "/", "", r.secure, true)
	return nil
}

// Read returns the preference carried by a valid cookie.
func (r *RememberCookie) Read(c *gin.Context) (models.RememberMe, bool) {
	raw, err := c.Cookie(rememberCookieName)
	if err != nil || raw == "" {
		return models.RememberMe{}, false
	}
	var pref models.RememberMe
	if err := r.codec.Decode(rememberCookieName, raw, &pref); err != nil {
		return models.RememberMe{}, false
	}
	return pref, pref.Remember
}
