package auth

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	log "github.com/sirupsen/logrus"

	"github.com/zirius/linkcloak/models"
)

const SessionName = "linkcloak-session"

// AdminStore is the credential lookup the login handler needs.
type AdminStore interface {
	GetAdmin(username string) (*models.Admin, error)
}

// Handler gates the dashboard: the link API's write path and the visit
// read path sit behind the admin session it issues.
type Handler struct {
	store        AdminStore
	sessionStore sessions.Store
}

func NewHandler(store AdminStore, sessionStore sessions.Store) *Handler {
	return &Handler{
		store:        store,
		sessionStore: sessionStore,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the posted credentials against the stored admin record and
// opens a session. Anything that does not match comes back as the same
// 401 so the endpoint leaks nothing about which half was wrong.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	admin, err := h.store.GetAdmin(req.Username)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithField("username", req.Username).WithError(err).Error("error loading admin")
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := models.VerifyPassword(admin.Password, req.Password); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	session, err := h.sessionStore.Get(c.Request, SessionName)
	if err != nil {
		log.WithError(err).Error("error opening session")
	}
	session.Values["username"] = admin.Username
	if err := session.Save(c.Request, c.Writer); err != nil {
		log.WithError(err).Error("error saving session")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"username": admin.Username,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	session, err := h.sessionStore.Get(c.Request, SessionName)
	if err != nil {
		log.WithError(err).Error("error opening session")
	}
	session.Values["username"] = ""
	session.Options.MaxAge = -1
	if err := session.Save(c.Request, c.Writer); err != nil {
		log.WithError(err).Error("error clearing session")
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RequireAdmin aborts with 401 unless the request carries a live admin
// session.
func (h *Handler) RequireAdmin(c *gin.Context) {
	session, err := h.sessionStore.Get(c.Request, SessionName)
	if err != nil {
		log.WithError(err).Error("error opening session")
	}

	username, found := session.Values["username"].(string)
	if !found || username == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	c.Next()
}
