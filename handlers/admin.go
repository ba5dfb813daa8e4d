package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"colliss.co.uk/intake/models"
)

// ListSubmissions returns every submission newest-first, each with its
// media ordered by display_order. Backs the admin review panel.
func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.Store.ListSubmissions(r.Context())
	if err != nil {
		log.Println("Error fetching submissions:", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch submissions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    subs,
	})
}

func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid submission id")
		return
	}

	sub, err := h.Store.GetSubmission(r.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Submission not found")
			return
		}
		log.Println("Error fetching submission:", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch submission")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    sub,
	})
}

// ListEmailLogs exposes the notifier audit trail.
func (h *Handler) ListEmailLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.Store.ListEmailLogs(r.Context())
	if err != nil {
		log.Println("Error fetching email logs:", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch email logs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    logs,
	})
}

var exportHeader = []string{
	"ID", "Created", "Status", "Owner", "Email", "Phone",
	"Year", "Make", "Model", "Trim", "Mileage", "VIN",
	"Exterior", "Interior", "Condition", "Accidents", "Photos", "Videos",
}

// ExportSubmissions downloads the full submission list as a spreadsheet.
// Defaults to xlsx; ?format=csv streams CSV instead.
func (h *Handler) ExportSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.Store.ListSubmissions(r.Context())
	if err != nil {
		log.Println("Error fetching submissions for export:", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch submissions")
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		exportCSV(w, subs)
		return
	}
	exportExcel(w, subs)
}

func exportRow(sub *models.VehicleSubmission) []interface{} {
	photos, videos := 0, 0
	for _, m := range sub.Media {
		if m.MediaType == models.MediaPhoto {
			photos++
		} else {
			videos++
		}
	}

	return []interface{}{
		sub.ID.String(),
		sub.CreatedAt.Format("2006-01-02 15:04"),
		string(sub.Status),
		sub.OwnerName,
		sub.OwnerEmail,
		sub.OwnerPhone,
		sub.Year,
		sub.Make,
		sub.Model,
		sub.Trim,
		sub.Mileage,
		sub.VIN,
		sub.ColourExterior,
		sub.ColourInterior,
		string(sub.Condition),
		sub.AccidentHistory,
		photos,
		videos,
	}
}

func exportExcel(w http.ResponseWriter, subs []models.VehicleSubmission) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Submissions"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}
	for row, sub := range subs {
		for col, value := range exportRow(&sub) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("submissions_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

func exportCSV(w http.ResponseWriter, subs []models.VehicleSubmission) {
	filename := fmt.Sprintf("submissions_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	cw := csv.NewWriter(w)
	defer cw.Flush()

	cw.Write(exportHeader)
	for _, sub := range subs {
		row := make([]string, 0, len(exportHeader))
		for _, value := range exportRow(&sub) {
			row = append(row, fmt.Sprint(value))
		}
		cw.Write(row)
	}
}
