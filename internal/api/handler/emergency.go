package handler

import "github.com/kiranshivaraju/yaktalk/pkg/models"

var levelColors = map[int]string{
	0: "#6c757d",
	1: "#28a745",
	2: "#ffc107",
	3: "#fd7e14",
	4: "#dc3545",
	5: "#8b0000",
}

// LevelColor returns the display color for an emergency level. Unknown
// levels get the level 0 gray.
func LevelColor(level int) string {
	if c, ok := levelColors[level]; ok {
		return c
	}
	return levelColors[0]
}

type emergencyView struct {
	Level       int    `json:"level"`
	Description string `json:"description"`
	Action      string `json:"action"`
	Color       string `json:"color"`
}

func newEmergencyView(rec models.EmergencyRecord) emergencyView {
	return emergencyView{
		Level:       rec.Level,
		Description: rec.Description,
		Action:      rec.Action,
		Color:       LevelColor(rec.Level),
	}
}
