package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rizkypratama/go-accounts/internal/view"
	"github.com/rizkypratama/go-accounts/pkg/flash"
)

const htmlContentType = "text/html; charset=utf-8"

// renderPage writes the named template, or falls back to a flash notice and
// a redirect when rendering fails. A template error must never reach the
// user as a broken page.
func renderPage(c *gin.Context, v *view.Renderer, logger *logrus.Logger, fm *flash.Manager, status int, name string, page view.Page, fallback string) {
	b, err := v.Render(name, page)
	if err != nil {
		if logger != nil {
			logger.WithError(err).WithField("template", name).Error("template render failed")
		}
		if fm != nil {
			fm.Add(c, flash.LevelError, "Something went wrong. Please try again.")
		}
		c.Redirect(http.StatusSeeOther, fallback)
		c.Abort()
		return
	}
	c.Data(status, htmlContentType, b)
}
