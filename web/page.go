// ABOUTME: Server-rendered HTML dashboard from embedded templates
// ABOUTME: Shows the date window picker, headline figures, board columns, and recent activity
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/pipeline"
	"github.com/harperreed/crmboard/viz"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

type pageRenderer = *template.Template

type pageData struct {
	Title     string
	Window    analytics.Window
	Windows   []analytics.Window
	Dashboard analytics.Dashboard
	Board     []pipeline.Column
	Names     map[int64]string
}

func parsePage() (*template.Template, error) {
	funcMap := template.FuncMap{
		"money":   viz.FormatMoney,
		"change":  viz.FormatChange,
		"variant": viz.StageVariant,
		"hint":    viz.ActivityHint,
		"contact": func(names map[int64]string, id int64) string {
			return names[id]
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

func (h *httpHandler) handleDashboardPage(c *gin.Context) {
	d, err := h.dashboard(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	snap, err := h.svc.Snapshot(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	board, err := pipeline.Summarize(snap.Deals)
	if err != nil {
		h.writeError(c, err)
		return
	}

	data := pageData{
		Title:     "Dashboard",
		Window:    d.Window,
		Windows:   analytics.Windows,
		Dashboard: d,
		Board:     board,
		Names:     crm.ContactNames(snap.Contacts),
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := h.page.ExecuteTemplate(c.Writer, "dashboard.html", data); err != nil {
		h.logger.Error("template error", zap.String("template", "dashboard.html"), zap.Error(err))
	}
}
