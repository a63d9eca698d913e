package handlers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rizkypratama/go-accounts/internal/application"
	"github.com/rizkypratama/go-accounts/internal/auth"
	"github.com/rizkypratama/go-accounts/internal/domain/repository"
	"github.com/rizkypratama/go-accounts/internal/interface/middleware"
	"github.com/rizkypratama/go-accounts/internal/view"
	"github.com/rizkypratama/go-accounts/pkg/flash"
	"github.com/rizkypratama/go-accounts/pkg/helpers"
	"github.com/rizkypratama/go-accounts/pkg/validation"
)

// AccountHandler serves the registration, login, logout, and dashboard
// pages. All flows reduce internal failures to a flash notice plus a safe
// redirect or re-render; no raw error ever reaches the user.
type AccountHandler struct {
	Svc     *application.AccountService
	Gateway auth.Gateway
	Audit   repository.AuditRepository
	Logger  *logrus.Logger
	Cookies *helpers.Manager
	Flash   *flash.Manager
	View    *view.Renderer
}

func NewAccountHandler(svc *application.AccountService, gw auth.Gateway, audit repository.AuditRepository, logger *logrus.Logger, cookies *helpers.Manager, fm *flash.Manager, v *view.Renderer) *AccountHandler {
	return &AccountHandler{Svc: svc, Gateway: gw, Audit: audit, Logger: logger, Cookies: cookies, Flash: fm, View: v}
}

type registerForm struct {
	Username  string `form:"username" binding:"required,alphanum,min=3,max=30"`
	FirstName string `form:"first_name" binding:"required,max=30"`
	LastName  string `form:"last_name" binding:"required,max=30"`
	Email     string `form:"email" binding:"required,email"`
	Password1 string `form:"password1" binding:"required,pwd"`
	Password2 string `form:"password2" binding:"required,eqfield=Password1"`
}

type loginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// registerFormValues echoes the submitted non-secret fields back into the
// re-rendered form. Passwords are deliberately not sticky.
func registerFormValues(c *gin.Context) map[string]string {
	return map[string]string{
		"username":   c.PostForm("username"),
		"first_name": c.PostForm("first_name"),
		"last_name":  c.PostForm("last_name"),
		"email":      c.PostForm("email"),
	}
}

// fieldNames lists the failing field names in stable order for diagnostic
// records. Field values are never included.
func fieldNames(details map[string]string) []string {
	names := make([]string, 0, len(details))
	for name := range details {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterForm GET /register/
func (h *AccountHandler) RegisterForm(c *gin.Context) {
	page := view.Page{Title: "Register", Flashes: h.Flash.Pop(c), Form: map[string]string{}}
	renderPage(c, h.View, h.Logger, h.Flash, http.StatusOK, "register.html", page, "/register/")
}

// Register POST /register/
func (h *AccountHandler) Register(c *gin.Context) {
	var f registerForm
	if err := c.ShouldBind(&f); err != nil {
		details := validation.ToDetails(err)
		fields := fieldNames(details)
		// Record the rejected attempt with the failing fields; the
		// submitted passwords stay out of logs and audit alike.
		h.Logger.WithFields(logrus.Fields{
			"username": c.PostForm("username"),
			"fields":   fields,
		}).Warn("registration rejected: validation errors")
		h.audit(c, "", c.PostForm("email"), "register_invalid", map[string]any{
			"username": c.PostForm("username"),
			"fields":   fields,
		})
		page := view.Page{
			Title:  "Register",
			Notice: "Please correct the errors below.",
			Errors: details,
			Form:   registerFormValues(c),
		}
		renderPage(c, h.View, h.Logger, h.Flash, http.StatusOK, "register.html", page, "/register/")
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Username:  f.Username,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Password:  f.Password1,
	})
	if err != nil {
		var notice string
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			notice = "A user with that username already exists."
		case errors.Is(err, repository.ErrDuplicateEmail):
			notice = "A user with that email address already exists."
		case errors.Is(err, repository.ErrInvalidData):
			notice = "Invalid data submitted. Please check your details."
		default:
			notice = "Registration failed due to an unexpected error. Please try again."
		}
		h.audit(c, "", f.Email, "register_failed", map[string]any{"username": f.Username})
		page := view.Page{Title: "Register", Notice: notice, Form: registerFormValues(c)}
		renderPage(c, h.View, h.Logger, h.Flash, http.StatusOK, "register.html", page, "/register/")
		return
	}

	pair, err := h.Gateway.Establish(c.Request.Context(), u)
	if err != nil {
		// The account exists but the session could not be started; send the
		// user to the login form rather than failing the whole registration.
		h.Logger.WithError(err).WithField("user_id", u.ID).Error("session establish failed after registration")
		h.Flash.Add(c, flash.LevelInfo, "Your account was created. Please log in.")
		c.Redirect(http.StatusSeeOther, "/login/")
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	h.audit(c, u.ID, u.Email, "register", map[string]any{"username": u.Username})
	h.Flash.Add(c, flash.LevelSuccess, "Welcome, "+u.Username+"! Your account has been created.")
	c.Redirect(http.StatusSeeOther, "/dashboard/")
}

// LoginForm GET /login/
func (h *AccountHandler) LoginForm(c *gin.Context) {
	page := view.Page{Title: "Login", Flashes: h.Flash.Pop(c), Form: map[string]string{}}
	renderPage(c, h.View, h.Logger, h.Flash, http.StatusOK, "login.html", page, "/login/")
}

// Login POST /login/
func (h *AccountHandler) Login(c *gin.Context) {
	var f loginForm
	if err := c.ShouldBind(&f); err != nil {
		page := view.Page{
			Title:  "Login",
			Notice: "Please correct the errors below.",
			Errors: validation.ToDetails(err),
			Form:   map[string]string{"email": c.PostForm("email")},
		}
		renderPage(c, h.View, h.Logger, h.Flash, http.StatusOK, "login.html", page, "/login/")
		return
	}

	u, err := h.Svc.Authenticate(c.Request.Context(), f.Email, f.Password)
	if err != nil {
		// Same response for unknown email and wrong password.
		h.audit(c, "", f.Email, "login_failed", nil)
		page := view.Page{
			Title:  "Login",
			Notice: "Invalid email or password.",
			Form:   map[string]string{"email": f.Email},
		}
		renderPage(c, h.View, h.Logger, h.Flash, http.StatusOK, "login.html", page, "/login/")
		return
	}

	pair, err := h.Gateway.Establish(c.Request.Context(), u)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", u.ID).Error("session establish failed")
		page := view.Page{
			Title:  "Login",
			Notice: "Login failed due to an unexpected error. Please try again.",
			Form:   map[string]string{"email": f.Email},
		}
		renderPage(c, h.View, h.Logger, h.Flash, http.StatusOK, "login.html", page, "/login/")
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	h.audit(c, u.ID, u.Email, "login", nil)
	c.Redirect(http.StatusSeeOther, "/dashboard/")
}

// LogoutConfirm GET /logout/confirm/
func (h *AccountHandler) LogoutConfirm(c *gin.Context) {
	id := middleware.CurrentIdentity(c, h.Gateway)
	if id == nil {
		h.Flash.Add(c, flash.LevelInfo, "You are not logged in.")
		c.Redirect(http.StatusSeeOther, "/login/")
		return
	}
	page := view.Page{Title: "Log out", Flashes: h.Flash.Pop(c), User: id}
	renderPage(c, h.View, h.Logger, h.Flash, http.StatusOK, "logout_confirm.html", page, "/login/")
}

// Logout POST /logout/
//
// Fail-safe: whatever happens during session destruction, the user ends up
// at the login page. A double submit with no remaining session is not an
// error.
func (h *AccountHandler) Logout(c *gin.Context) {
	id := middleware.CurrentIdentity(c, h.Gateway)
	if id == nil {
		h.Flash.Add(c, flash.LevelInfo, "You are not logged in.")
		c.Redirect(http.StatusSeeOther, "/login/")
		return
	}

	h.Logger.WithFields(logrus.Fields{
		"user_id":  id.UserID,
		"username": id.Username,
	}).Info("user logging out")

	if err := h.Gateway.Destroy(c.Request.Context(), id.UserID); err != nil {
		h.Logger.WithError(err).WithField("user_id", id.UserID).Error("session destroy failed")
		h.Flash.Add(c, flash.LevelError, "Something went wrong during logout, but you have been signed out.")
	} else {
		h.Flash.Add(c, flash.LevelSuccess, "You have been logged out.")
	}
	h.Cookies.Clear(c)
	h.audit(c, id.UserID, id.Email, "logout", nil)
	c.Redirect(http.StatusSeeOther, "/login/")
}

// Dashboard GET /dashboard/ (behind SessionGuard)
func (h *AccountHandler) Dashboard(c *gin.Context) {
	id := &auth.Identity{
		UserID:   c.GetString(middleware.CtxUserIDKey),
		Email:    c.GetString(middleware.CtxEmailKey),
		Username: c.GetString(middleware.CtxUsernameKey),
	}
	h.Logger.WithFields(logrus.Fields{
		"user_id":    id.UserID,
		"request_id": c.GetString("request_id"),
	}).Info("dashboard accessed")
	h.audit(c, id.UserID, id.Email, "dashboard_view", nil)

	page := view.Page{Title: "Dashboard", Flashes: h.Flash.Pop(c), User: id}
	renderPage(c, h.View, h.Logger, h.Flash, http.StatusOK, "dashboard.html", page, "/login/")
}

func (h *AccountHandler) audit(c *gin.Context, userID, email, action string, md map[string]any) {
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
