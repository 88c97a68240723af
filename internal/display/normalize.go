package display

import "github.com/kjannette/mnm-price/internal/models"

// Normalize splits a history response into its usable points and, for the
// wrapped shape, the error and message to show instead of a chart. A wrapped
// response carrying an error never yields points.
func Normalize(r models.HistoryResult) (points []models.HistoryPoint, errText, message string) {
	points = r.Points
	if u := r.Unavailable; u != nil {
		errText, message = u.Error, u.Message
		if errText != "" {
			points = nil
		}
	}
	if points == nil {
		points = []models.HistoryPoint{}
	}
	return points, errText, message
}
