package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rizkypratama/go-accounts/config"
	"github.com/rizkypratama/go-accounts/internal/application"
	"github.com/rizkypratama/go-accounts/internal/auth"
	"github.com/rizkypratama/go-accounts/internal/domain/repository"
	"github.com/rizkypratama/go-accounts/internal/interface/middleware"
	"github.com/rizkypratama/go-accounts/internal/view"
	"github.com/rizkypratama/go-accounts/pkg/flash"
	"github.com/rizkypratama/go-accounts/pkg/mailer"
	"github.com/rizkypratama/go-accounts/pkg/validation"
)

const resetTokenTTL = 30 * time.Minute

// EmailEnqueuer publishes email jobs; satisfied by helpers.RabbitPublisher
// and faked in tests.
type EmailEnqueuer interface {
	PublishJSON(ctx context.Context, body any) error
}

// PasswordResetHandler serves the reset-request flow. The POST response is
// identical whether or not the submitted address is registered, so the
// endpoint cannot be used to enumerate accounts.
type PasswordResetHandler struct {
	Svc    *application.AccountService
	Tokens auth.TokenStore
	Pub    EmailEnqueuer
	Audit  repository.AuditRepository
	Logger *logrus.Logger
	Cfg    *config.Config
	Flash  *flash.Manager
	View   *view.Renderer
}

func NewPasswordResetHandler(svc *application.AccountService, tokens auth.TokenStore, pub EmailEnqueuer, audit repository.AuditRepository, logger *logrus.Logger, cfg *config.Config, fm *flash.Manager, v *view.Renderer) *PasswordResetHandler {
	return &PasswordResetHandler{Svc: svc, Tokens: tokens, Pub: pub, Audit: audit, Logger: logger, Cfg: cfg, Flash: fm, View: v}
}

type resetRequestForm struct {
	Email string `form:"email" binding:"required,email"`
}

type resetConfirmForm struct {
	Token       string `form:"token" binding:"required"`
	NewPassword string `form:"new_password" binding:"required,pwd"`
}

// Form GET /password-reset/
func (h *PasswordResetHandler) Form(c *gin.Context) {
	page := view.Page{Title: "Reset Your Password", Flashes: h.Flash.Pop(c), Form: map[string]string{}}
	renderPage(c, h.View, h.Logger, h.Flash, http.StatusOK, "password_reset.html", page, "/login/")
}

// Request POST /password-reset/
func (h *PasswordResetHandler) Request(c *gin.Context) {
	var f resetRequestForm
	if err := c.ShouldBind(&f); err != nil {
		page := view.Page{
			Title:  "Reset Your Password",
			Notice: "Please correct the errors below.",
			Errors: validation.ToDetails(err),
			Form:   map[string]string{"email": c.PostForm("email")},
		}
		renderPage(c, h.View, h.Logger, h.Flash, http.StatusOK, "password_reset.html", page, "/login/")
		return
	}

	if u, err := h.Svc.GetUserByEmail(c.Request.Context(), f.Email); err == nil {
		h.dispatchResetEmail(c, u.ID, u.Email, u.ShortName())
		h.audit(c, u.ID, u.Email, "reset_init", nil)
	} else {
		h.audit(c, "", f.Email, "reset_init_unknown", nil)
	}

	// Identical redirect in both branches.
	c.Redirect(http.StatusSeeOther, "/password-reset/done/")
}

func (h *PasswordResetHandler) dispatchResetEmail(c *gin.Context, userID, email, name string) {
	tok, err := auth.GenerateToken(32)
	if err != nil {
		h.Logger.WithError(err).Error("reset token generation failed")
		return
	}
	if err := h.Tokens.Save(c.Request.Context(), tok, userID, resetTokenTTL); err != nil {
		h.Logger.WithError(err).WithField("user_id", userID).Error("reset token store failed")
		return
	}
	if h.Pub == nil || !h.Cfg.MailSendEnabled {
		return
	}
	link := h.Cfg.BaseURL + "/password-reset/confirm/?token=" + tok
	job := mailer.EmailJob{
		To:       email,
		Template: mailer.TemplatePasswordReset,
		Data:     mailer.NewPasswordResetData(h.Cfg.SiteName, name, link, resetTokenTTL, middleware.IPFromCtx(c)),
	}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
		h.Logger.WithError(err).WithField("user_id", userID).Error("reset email enqueue failed")
	}
}

// Done GET /password-reset/done/
func (h *PasswordResetHandler) Done(c *gin.Context) {
	page := view.Page{Title: "Check your email", Flashes: h.Flash.Pop(c)}
	renderPage(c, h.View, h.Logger, h.Flash, http.StatusOK, "password_reset_done.html", page, "/login/")
}

// ConfirmForm GET /password-reset/confirm/?token=...
func (h *PasswordResetHandler) ConfirmForm(c *gin.Context) {
	page := view.Page{Title: "Choose a new password", Flashes: h.Flash.Pop(c), Token: c.Query("token")}
	renderPage(c, h.View, h.Logger, h.Flash, http.StatusOK, "password_reset_confirm.html", page, "/login/")
}

// Confirm POST /password-reset/confirm/
func (h *PasswordResetHandler) Confirm(c *gin.Context) {
	var f resetConfirmForm
	if err := c.ShouldBind(&f); err != nil {
		page := view.Page{
			Title:  "Choose a new password",
			Notice: "Please correct the errors below.",
			Errors: validation.ToDetails(err),
			Token:  c.PostForm("token"),
		}
		renderPage(c, h.View, h.Logger, h.Flash, http.StatusOK, "password_reset_confirm.html", page, "/login/")
		return
	}

	uid, err := h.Tokens.Get(c.Request.Context(), f.Token)
	if err != nil {
		page := view.Page{
			Title:  "Choose a new password",
			Notice: "This reset link is invalid or has expired. Please request a new one.",
		}
		renderPage(c, h.View, h.Logger, h.Flash, http.StatusOK, "password_reset_confirm.html", page, "/login/")
		return
	}

	if err := h.Svc.ChangePassword(c.Request.Context(), uid, f.NewPassword); err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("password update failed")
		page := view.Page{
			Title:  "Choose a new password",
			Notice: "Something went wrong. Please try again.",
			Token:  f.Token,
		}
		renderPage(c, h.View, h.Logger, h.Flash, http.StatusOK, "password_reset_confirm.html", page, "/login/")
		return
	}
	_ = h.Tokens.Delete(c.Request.Context(), f.Token)
	h.audit(c, uid, "", "reset_confirm", nil)
	h.Flash.Add(c, flash.LevelSuccess, "Your password has been updated. Please log in.")
	c.Redirect(http.StatusSeeOther, "/login/")
}

func (h *PasswordResetHandler) audit(c *gin.Context, userID, email, action string, md map[string]any) {
	if h.Audit == nil {
		return
	}
	_ = h.Audit.Record(c.Request.Context(), repository.AuditEvent{
		UserID:    userID,
		Email:     email,
		Action:    action,
		IP:        middleware.IPFromCtx(c),
		UserAgent: c.GetHeader("User-Agent"),
		Metadata:  md,
	})
}
