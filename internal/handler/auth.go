package handler

import (
	"errors"
	"net/http"
	"time"

	"csss-site/internal/auth"
	"csss-site/internal/middleware"
	"csss-site/internal/models"
	"csss-site/internal/perms"
	"csss-site/internal/session"
	"csss-site/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// AuthHandler exchanges CAS tickets for sessions.
type AuthHandler struct {
	DB       *gorm.DB
	Sessions *session.Store
	CAS      *auth.CASClient
	Perms    *perms.Evaluator
	Log      zerolog.Logger

	ServiceURL   string // configured override for the CAS service URL
	SecureCookie bool
}

func NewAuthHandler(db *gorm.DB, sessions *session.Store, cas *auth.CASClient, ev *perms.Evaluator, log zerolog.Logger, serviceURL string, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		DB:           db,
		Sessions:     sessions,
		CAS:          cas,
		Perms:        ev,
		Log:          log,
		ServiceURL:   serviceURL,
		SecureCookie: secureCookie,
	}
}

type loginReq struct {
	Ticket      string `json:"ticket" binding:"required"`
	ServiceURL  string `json:"service_url" binding:"required"`
	RedirectURL string `json:"redirect_url"`
}

type userResp struct {
	ComputingID string `json:"computing_id"`
	DisplayName string `json:"display_name"`
	FirstSeenAt string `json:"first_seen_at"`
	LastSeenAt  string `json:"last_seen_at"`
}

func toUserResp(u *models.User) userResp {
	return userResp{
		ComputingID: u.ComputingID,
		DisplayName: u.DisplayName,
		FirstSeenAt: u.FirstSeenAt.Format(time.RFC3339),
		LastSeenAt:  u.LastSeenAt.Format(time.RFC3339),
	}
}

// Login validates the CAS ticket, upserts the user record and issues
// a session cookie. Failed CAS validation is reported as 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	serviceURL := req.ServiceURL
	if h.ServiceURL != "" {
		serviceURL = h.ServiceURL
	}

	computingID, err := h.CAS.ValidateTicket(c.Request.Context(), req.Ticket, serviceURL)
	if err != nil {
		if errors.Is(err, auth.ErrTicketInvalid) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "CAS ticket validation failed")
		} else {
			h.Log.Error().Err(err).Msg("CAS validation")
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not reach CAS")
		}
		return
	}

	now := time.Now()
	var user models.User
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "computing_id = ?", computingID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			user = models.User{
				ComputingID: computingID,
				FirstSeenAt: now,
				LastSeenAt:  now,
			}
			return tx.Create(&user).Error
		}
		user.LastSeenAt = now
		return tx.Save(&user).Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not record login")
		return
	}

	token, err := h.Sessions.Create(user.ComputingID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not create session")
		return
	}

	// opportunistic cleanup: the login after the TTL sweeps old rows
	if n, err := h.Sessions.Sweep(h.Sessions.TTL); err != nil {
		h.Log.Warn().Err(err).Msg("session sweep")
	} else if n > 0 {
		h.Log.Info().Int64("removed", n).Msg("session sweep")
	}

	c.SetCookie(middleware.SessionCookie, token,
		int(h.Sessions.TTL/time.Second), "/", "", h.SecureCookie, true)

	util.Success(c, util.Response{
		"user":         toUserResp(&user),
		"redirect_url": req.RedirectURL,
	})
}

// Logout revokes the current session. Always success-shaped, even for
// anonymous callers, so it is safe to call unconditionally.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.SessionCookie); err == nil {
		if err := h.Sessions.Revoke(token); err != nil {
			h.Log.Warn().Err(err).Msg("revoke session")
		}
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.SecureCookie, true)
	util.Success(c, util.Response{"message": "logged out"})
}

// Me reports the current identity and its permission tiers.
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	siteAdmin, err := h.Perms.IsSiteAdmin(user.ComputingID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "permission check failed")
		return
	}
	electionAdmin, err := h.Perms.IsElectionAdmin(user.ComputingID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "permission check failed")
		return
	}

	util.Success(c, util.Response{
		"user":              toUserResp(user),
		"is_site_admin":     siteAdmin,
		"is_election_admin": electionAdmin,
	})
}
