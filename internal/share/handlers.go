package share

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sadopc/kiosk/internal/kiosk"
)

type meetingJSON struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Time string `json:"time"`
}

type categoryJSON struct {
	Category kiosk.MeetingCategory `json:"category"`
	Label    string                `json:"label"`
	Meetings []meetingJSON         `json:"meetings"`
}

type scheduleJSON struct {
	Title       string         `json:"title"`
	Month       string         `json:"month"`
	Year        int            `json:"year"`
	Instruction string         `json:"instruction"`
	Categories  []categoryJSON `json:"categories"`
	UpdatedAt   string         `json:"updated_at"`
}

func toScheduleJSON(sc kiosk.SafetySchedule) scheduleJSON {
	out := scheduleJSON{
		Title:       sc.Title,
		Month:       sc.Month,
		Year:        sc.Year,
		Instruction: sc.Instruction,
		Categories:  []categoryJSON{},
		UpdatedAt:   sc.UpdatedAt.UTC().Format(time.RFC3339),
	}
	for _, c := range kiosk.MeetingCategories {
		ms := kiosk.MeetingsByCategory(sc, c)
		if len(ms) == 0 {
			continue
		}
		cat := categoryJSON{Category: c, Label: c.Label()}
		for _, m := range ms {
			cat.Meetings = append(cat.Meetings, meetingJSON{ID: m.ID, Date: m.Date, Time: m.Time})
		}
		out.Categories = append(out.Categories, cat)
	}
	return out
}

// lookup resolves the {token} URL parameter, writing the error response
// itself when it returns false.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*kiosk.SafetySchedule, bool) {
	token := chi.URLParam(r, "token")
	sc, err := s.schedules.SafetyScheduleByShareToken(r.Context(), token)
	if errors.Is(err, kiosk.ErrNotFound) {
		s.scheduleNotFound(w, r)
		return nil, false
	}
	if err != nil {
		s.serverError(w, r, err)
		return nil, false
	}
	return sc, true
}

func (s *Server) handleScheduleText(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(kiosk.ScheduleText(*sc)))
}

func (s *Server) handleScheduleJSON(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, r, http.StatusOK, toScheduleJSON(*sc))
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (s *Server) scheduleNotFound(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, NotFoundText, http.StatusNotFound)
}

func (s *Server) notFound(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.WithError(err).WithField("path", r.URL.Path).Error("share lookup failed")
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
