package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yumyum-pos/orderdesk/internal/adapter/logger"
	"github.com/yumyum-pos/orderdesk/internal/interfaces"
)

type ReportingHandler struct {
	service interfaces.ReportingService
	logger  logger.Logger
}

func NewReportingHandler(service interfaces.ReportingService, logger logger.Logger) *ReportingHandler {
	return &ReportingHandler{
		service: service,
		logger:  logger,
	}
}

// HandleReports dispatches /reports/{kind}?from=YYYY-MM-DD&to=YYYY-MM-DD.
// The to date is inclusive.
func (h *ReportingHandler) HandleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 2 {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	from, to, err := parseRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var payload any
	switch parts[1] {
	case "summary":
		payload, err = h.service.Summary(r.Context(), from, to)
	case "daily":
		payload, err = h.service.DailySales(r.Context(), from, to)
	case "hourly":
		payload, err = h.service.HourlySales(r.Context(), from, to)
	case "items":
		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			limit, err = strconv.Atoi(v)
			if err != nil || limit < 1 {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
		}
		payload, err = h.service.BestItems(r.Context(), from, to, limit)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	if err != nil {
		h.logger.Error("report_query_failed", "Failed to build report", "", map[string]interface{}{
			"report": parts[1],
		}, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func parseRange(r *http.Request) (time.Time, time.Time, error) {
	const layout = "2006-01-02"

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.ParseInLocation(layout, v, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.ParseInLocation(layout, v, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed.AddDate(0, 0, 1)
	}

	return from, to, nil
}
