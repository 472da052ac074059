package internal

import (
	"chat-feed/domain/chat"
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed inspect.html
var templatesFS embed.FS

const defaultInspectRows = 200

// Inspectable is the read side of the message container.
type Inspectable interface {
	ID() uuid.UUID
	Count() int
	Snapshot(limit int) []chat.Message
	MessagesFromUser(userID string) []chat.Message
}

type InspectRow struct {
	No     uint64 `json:"no"`
	UserID string `json:"userId,omitempty"`
	Date   string `json:"date,omitempty"`
	Text   string `json:"text"`
	First  bool   `json:"first,omitempty"`
	Class  string `json:"-"`
}

type PageData struct {
	Session uuid.UUID
	Count   int
	Rows    []InspectRow
}

// NewDebugServer serves the filtered view at /inspect, a user's full history at
// /users/{userID} and the Prometheus registry at /metrics.
func NewDebugServer(addr string, store Inspectable, gatherer prometheus.Gatherer, log *slog.Logger) *http.Server {
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	r := chi.NewRouter()
	r.Get("/inspect", func(w http.ResponseWriter, req *http.Request) {
		limit := defaultInspectRows
		if raw := req.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				http.Error(w, "limit must be an integer", http.StatusBadRequest)
				return
			}
			limit = n
		}

		data := PageData{Session: store.ID(), Count: store.Count()}
		for _, m := range store.Snapshot(limit) {
			data.Rows = append(data.Rows, ToInspectRow(m))
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			log.Warn("Rendering inspect page failed", "error", err)
		}
	})

	r.Get("/users/{userID}", func(w http.ResponseWriter, req *http.Request) {
		messages := store.MessagesFromUser(chi.URLParam(req, "userID"))
		rows := make([]InspectRow, 0, len(messages))
		for _, m := range messages {
			rows = append(rows, ToInspectRow(m))
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rows); err != nil {
			log.Warn("Encoding user messages failed", "error", err)
		}
	})

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
}

func ToInspectRow(m chat.Message) InspectRow {
	if m.IsSystem() {
		return InspectRow{No: m.No, Text: m.Text, Class: "system"}
	}
	row := InspectRow{No: m.No, UserID: m.UserID(), Text: m.Chat.Comment, First: m.FirstChat}
	if d := m.Date(); !d.IsZero() {
		row.Date = d.Format("15:04:05")
	}
	if m.FirstChat {
		row.Class = "first"
	}
	return row
}
