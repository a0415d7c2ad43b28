package handlers

import (
	"net/http"
	"strings"

	"github.com/wonny/seasonality/internal/calendar"
)

// AnchorResponse is the result of anchoring one date
type AnchorResponse struct {
	Day    string `json:"day"`
	Date   string `json:"date"`
	Anchor string `json:"anchor"`
}

// Anchor returns the start of the week containing date
// GET /api/anchor?day=MON&date=03/01/2024
func Anchor(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	day, date := q.Get("day"), q.Get("date")

	anchor, err := calendar.ConvertDate(day, date)
	if err != nil {
		respondFailure(w, err)
		return
	}

	respondJSON(w, http.StatusOK, AnchorResponse{
		Day:    strings.ToUpper(day),
		Date:   date,
		Anchor: anchor,
	})
}
