package models

// SafetyLevel buckets a 0-100 safety score
type SafetyLevel string

const (
	SafetyGreen  SafetyLevel = "green"
	SafetyYellow SafetyLevel = "yellow"
	SafetyOrange SafetyLevel = "orange"
	SafetyRed    SafetyLevel = "red"
)

// LevelForScore maps a safety score (higher is safer) to a level
func LevelForScore(score int) SafetyLevel {
	switch {
	case score >= 80:
		return SafetyGreen
	case score >= 60:
		return SafetyYellow
	case score >= 40:
		return SafetyOrange
	default:
		return SafetyRed
	}
}

// RiskPrediction is the server's risk assessment for a location
type RiskPrediction struct {
	RiskScore   float64  `json:"risk_score"`
	RiskLevel   string   `json:"risk_level"`
	SafetyColor string   `json:"safety_color"`
	Suggestions []string `json:"suggestions"`
}

// RoutePoint is one waypoint of a suggested route
type RoutePoint struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Safety int     `json:"safety"`
}

// SafeRoute is a suggested route with its safety assessment
type SafeRoute struct {
	Points        []RoutePoint `json:"route"`
	SafetyScore   int          `json:"safety_score"`
	EstimatedTime string       `json:"estimated_time"`
	Distance      string       `json:"distance"`
	Warnings      []string     `json:"warnings"`
}

// Level is the route's safety level
func (r *SafeRoute) Level() SafetyLevel {
	return LevelForScore(r.SafetyScore)
}
