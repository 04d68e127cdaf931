// templates.go
package main

import (
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"formatSize": func(size int64) string {
		const unit = 1024
		if size < unit {
			return fmt.Sprintf("%d B", size)
		}
		div, exp := int64(unit), 0
		for n := size / unit; n >= unit; n /= unit {
			div *= unit
			exp++
		}
		return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
	},
	"formatNumber": func(f float64) string {
		return fmt.Sprintf("%.2f", f)
	},
	"formatTime": func(t time.Time) string {
		return t.Format("January 2, 2006 at 3:04 PM")
	},
}

var dashboardTemplate = template.Must(template.New("dashboard.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/dashboard.html"))
