// types.go
package main

import (
	"time"

	"signalmap/internal/summary"
)

// Section is one chart sheet on the dashboard: a line chart and its map.
type Section struct {
	Sheet    string                 `json:"sheet"`
	Title    string                 `json:"title"`
	LineID   string                 `json:"line_id"`
	MapID    string                 `json:"map_id"`
	RowCount int                    `json:"rows"`
	Line     map[string]interface{} `json:"line"`
	Map      map[string]interface{} `json:"map"`
	Stats    []summary.Stats        `json:"stats,omitempty"`
}

// DashboardPage is the data behind the dashboard template.
type DashboardPage struct {
	Prompt     string
	FileName   string
	FileSize   int64
	UploadedAt time.Time
	Sections   []Section
	AssetsHost string
}

type uploadRequest struct {
	Filename string `json:"filename"`
	Contents string `json:"contents"`
}

type hoverRequest struct {
	Hovers map[string]*string `json:"hovers"`
}

type hoverResponse struct {
	Maps map[string]map[string]interface{} `json:"maps"`
}

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
