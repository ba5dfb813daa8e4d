package handlers

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"colliss.co.uk/intake/models"
	"colliss.co.uk/intake/utils"
)

// MinPhotos is the smallest photo set a submission is accepted with.
const MinPhotos = 6

const maxUploadBytes = 200 << 20

// CreateSubmission handles the intake form: validates the payload and
// consents, persists the submission, uploads each photo and video in
// selection order, and fires the notification emails.
func (h *Handler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
		return
	}

	photos := r.MultipartForm.File["photos"]
	videos := r.MultipartForm.File["videos"]

	// Preconditions come before any write so a rejected submission leaves
	// no partial state behind.
	if len(photos) < MinPhotos {
		writeError(w, http.StatusBadRequest, "Please upload at least 6 photos of your vehicle")
		return
	}
	if !parseBool(r.FormValue("agree_vehicle_info")) {
		writeError(w, http.StatusBadRequest, "Please agree to share your vehicle information with potential buyers")
		return
	}
	if !parseBool(r.FormValue("agree_personal_info")) {
		writeError(w, http.StatusBadRequest, "Please agree to share your personal details with buyers after payment")
		return
	}

	sub, err := submissionFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := utils.GetValidator().Struct(sub); err != nil {
		writeError(w, http.StatusBadRequest, strings.Join(utils.ParseErrors(err), "; "))
		return
	}

	ctx := r.Context()
	if err := h.Store.CreateSubmission(ctx, sub); err != nil {
		log.Println("Failed to create submission:", err)
		writeError(w, http.StatusInternalServerError, "Failed to save your submission. Please try again.")
		return
	}

	if err := h.saveAllMedia(ctx, sub, photos, videos); err != nil {
		log.Println("Failed to store submission media:", err)
		// Compensate: drop the submission row so no orphan survives a
		// partial upload. The FK cascade removes any media rows written
		// so far.
		if derr := h.Store.DeleteSubmission(ctx, sub.ID); derr != nil {
			log.Println("Failed to clean up submission after media error:", derr)
		}
		writeError(w, http.StatusInternalServerError, "Failed to save your submission. Please try again.")
		return
	}

	// Notification failures never fail the submission; they are logged and
	// recorded in email_logs.
	if h.Notifier != nil {
		if err := h.Notifier.NotifySubmission(ctx, sub); err != nil {
			log.Println("Failed to send submission emails:", err)
		}
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    sub,
	})
}

func (h *Handler) saveAllMedia(ctx context.Context, sub *models.VehicleSubmission, photos, videos []*multipart.FileHeader) error {
	if err := h.saveMediaBatch(ctx, sub, models.MediaPhoto, photos); err != nil {
		return err
	}
	return h.saveMediaBatch(ctx, sub, models.MediaVideo, videos)
}

// saveMediaBatch uploads one type group sequentially in selection order;
// display_order is the index within the group.
func (h *Handler) saveMediaBatch(ctx context.Context, sub *models.VehicleSubmission, mediaType models.MediaType, files []*multipart.FileHeader) error {
	for i, header := range files {
		file, err := header.Open()
		if err != nil {
			return err
		}

		key := objectKey(sub.ID.String(), header.Filename)
		url, err := h.Media.Upload(ctx, key, header.Header.Get("Content-Type"), file, header.Size)
		file.Close()
		if err != nil {
			return err
		}

		media := &models.VehicleMedia{
			SubmissionID: sub.ID,
			MediaType:    mediaType,
			FileURL:      url,
			FileName:     header.Filename,
			FileSize:     header.Size,
			DisplayOrder: i,
		}
		if err := h.Store.CreateMedia(ctx, media); err != nil {
			return err
		}
		sub.Media = append(sub.Media, *media)
	}
	return nil
}

// objectKey namespaces an upload under its submission id:
// {submissionId}/{timestamp}-{random}.{ext}
func objectKey(submissionID, filename string) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	return fmt.Sprintf("%s/%d-%s.%s", submissionID, time.Now().UnixMilli(), randString(6), ext)
}

const randChars = "abcdefghijklmnopqrstuvwxyz0123456789"

func randString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = randChars[rand.Intn(len(randChars))]
	}
	return string(b)
}

// submissionFromForm assembles the model from form fields, coercing the
// numeric ones. Status is always pending on creation regardless of input.
func submissionFromForm(r *http.Request) (*models.VehicleSubmission, error) {
	year, err := strconv.Atoi(r.FormValue("year"))
	if err != nil {
		return nil, fmt.Errorf("year must be a number")
	}
	mileage, err := strconv.Atoi(r.FormValue("mileage"))
	if err != nil {
		return nil, fmt.Errorf("mileage must be a number")
	}

	return &models.VehicleSubmission{
		Status: models.StatusPending,

		OwnerName:  r.FormValue("owner_name"),
		OwnerEmail: r.FormValue("owner_email"),
		OwnerPhone: r.FormValue("owner_phone"),

		Year:           year,
		Make:           r.FormValue("make"),
		Model:          r.FormValue("model"),
		Trim:           r.FormValue("trim"),
		Mileage:        mileage,
		VIN:            r.FormValue("vin"),
		ColourExterior: r.FormValue("colour_exterior"),
		ColourInterior: r.FormValue("colour_interior"),

		Condition:       models.VehicleCondition(r.FormValue("condition")),
		AccidentHistory: parseBool(r.FormValue("accident_history")),
		ServiceHistory:  r.FormValue("service_history"),
		Modifications:   r.FormValue("modifications"),
		Issues:          r.FormValue("issues"),
		AdditionalNotes: r.FormValue("additional_notes"),
	}, nil
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "true", "1", "on", "yes":
		return true
	}
	return false
}
