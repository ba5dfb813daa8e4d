package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"colliss.co.uk/intake/handlers"
	"colliss.co.uk/intake/models"
	"colliss.co.uk/intake/pkg/resend"
)

// mockStore implements handlers.Store in memory
type mockStore struct {
	mu          sync.Mutex
	submissions []*models.VehicleSubmission
	media       []*models.VehicleMedia
	emailLogs   []*models.EmailLog
	deleted     []uuid.UUID

	createSubmissionErr error
	createMediaErr      error
	statusCalls         int
}

func (m *mockStore) CreateSubmission(ctx context.Context, sub *models.VehicleSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createSubmissionErr != nil {
		return m.createSubmissionErr
	}
	sub.ID = uuid.New()
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = sub.CreatedAt
	copied := *sub
	m.submissions = append(m.submissions, &copied)
	return nil
}

func (m *mockStore) DeleteSubmission(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	kept := m.submissions[:0]
	for _, sub := range m.submissions {
		if sub.ID != id {
			kept = append(kept, sub)
		}
	}
	m.submissions = kept
	return nil
}

func (m *mockStore) GetSubmission(ctx context.Context, id uuid.UUID) (*models.VehicleSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.submissions {
		if sub.ID == id {
			copied := *sub
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ListSubmissions mirrors the repository contract: newest first.
func (m *mockStore) ListSubmissions(ctx context.Context) ([]models.VehicleSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.VehicleSubmission, 0, len(m.submissions))
	for _, sub := range m.submissions {
		out = append(out, *sub)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *mockStore) UpdateSubmissionStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus) (*models.VehicleSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusCalls++
	for _, sub := range m.submissions {
		if sub.ID == id {
			sub.Status = status
			sub.UpdatedAt = time.Now()
			copied := *sub
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStore) CreateMedia(ctx context.Context, media *models.VehicleMedia) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createMediaErr != nil {
		return m.createMediaErr
	}
	media.ID = uuid.New()
	media.UploadedAt = time.Now()
	copied := *media
	m.media = append(m.media, &copied)
	return nil
}

func (m *mockStore) CreateEmailLog(ctx context.Context, entry *models.EmailLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = uuid.New()
	copied := *entry
	m.emailLogs = append(m.emailLogs, &copied)
	return nil
}

func (m *mockStore) ListEmailLogs(ctx context.Context) ([]models.EmailLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.EmailLog, 0, len(m.emailLogs))
	for _, entry := range m.emailLogs {
		out = append(out, *entry)
	}
	return out, nil
}

// mockMediaStore records uploads and returns deterministic URLs
type mockMediaStore struct {
	mu        sync.Mutex
	keys      []string
	uploadErr error
	failAfter int // fail on the nth upload when > 0
}

func (m *mockMediaStore) Upload(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil && (m.failAfter == 0 || len(m.keys) >= m.failAfter) {
		return "", m.uploadErr
	}
	m.keys = append(m.keys, key)
	return "https://cdn.test/vehicle-media/" + key, nil
}

// mockMail captures outgoing emails
type mockMail struct {
	mu      sync.Mutex
	sent    []resend.Email
	sendErr error
	failOn  int // 1-based index of the send that errors; 0 = all
}

func (m *mockMail) Send(ctx context.Context, email resend.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := len(m.sent) + 1
	if m.sendErr != nil && (m.failOn == 0 || call == m.failOn) {
		return m.sendErr
	}
	m.sent = append(m.sent, email)
	return nil
}

func newTestHandler(store *mockStore, media *mockMediaStore, mail *mockMail) *handlers.Handler {
	notifier := handlers.NewNotifier(mail, store, "Vehicle Submissions <onboarding@resend.dev>", "info@business.test")
	return handlers.NewHandler(store, media, notifier)
}

func validFields() map[string]string {
	return map[string]string{
		"owner_name":          "Jordan Smith",
		"owner_email":         "jordan@example.com",
		"owner_phone":         "07700900123",
		"year":                "2020",
		"make":                "Toyota",
		"model":               "Corolla",
		"mileage":             "45000",
		"colour_exterior":     "White",
		"colour_interior":     "Black",
		"condition":           "good",
		"accident_history":    "false",
		"service_history":     "Full service history, main dealer",
		"agree_vehicle_info":  "true",
		"agree_personal_info": "true",
	}
}

func newIntakeRequest(t *testing.T, fields map[string]string, photos, videos int) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for i := 0; i < photos; i++ {
		fw, err := mw.CreateFormFile("photos", fmt.Sprintf("photo-%d.jpg", i))
		require.NoError(t, err)
		fw.Write([]byte("jpeg-bytes"))
	}
	for i := 0; i < videos; i++ {
		fw, err := mw.CreateFormFile("videos", fmt.Sprintf("video-%d.mp4", i))
		require.NoError(t, err)
		fw.Write([]byte("mp4-bytes"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCreateSubmissionForcesPendingStatus(t *testing.T) {
	store := &mockStore{}
	h := newTestHandler(store, &mockMediaStore{}, &mockMail{})

	rec := httptest.NewRecorder()
	h.CreateSubmission(rec, newIntakeRequest(t, validFields(), 6, 0))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.submissions, 1)
	require.Equal(t, models.StatusPending, store.submissions[0].Status)
}

func TestCreateSubmissionRejectsTooFewPhotos(t *testing.T) {
	for _, photos := range []int{0, 5} {
		t.Run(fmt.Sprintf("%d_photos", photos), func(t *testing.T) {
			store := &mockStore{}
			media := &mockMediaStore{}
			h := newTestHandler(store, media, &mockMail{})

			rec := httptest.NewRecorder()
			h.CreateSubmission(rec, newIntakeRequest(t, validFields(), photos, 0))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, rec.Body.String(), "at least 6 photos")
			require.Empty(t, store.submissions, "no rows may be written on rejection")
			require.Empty(t, media.keys)
		})
	}

	for _, photos := range []int{6, 7} {
		t.Run(fmt.Sprintf("%d_photos_accepted", photos), func(t *testing.T) {
			store := &mockStore{}
			h := newTestHandler(store, &mockMediaStore{}, &mockMail{})

			rec := httptest.NewRecorder()
			h.CreateSubmission(rec, newIntakeRequest(t, validFields(), photos, 0))

			require.Equal(t, http.StatusCreated, rec.Code)
			require.Len(t, store.media, photos)
		})
	}
}

func TestCreateSubmissionRequiresBothConsents(t *testing.T) {
	cases := []struct {
		name     string
		vehicle  string
		personal string
		ok       bool
	}{
		{"both_true", "true", "true", true},
		{"vehicle_only", "true", "false", false},
		{"personal_only", "false", "true", false},
		{"both_false", "false", "false", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := validFields()
			fields["agree_vehicle_info"] = tc.vehicle
			fields["agree_personal_info"] = tc.personal

			store := &mockStore{}
			media := &mockMediaStore{}
			h := newTestHandler(store, media, &mockMail{})

			rec := httptest.NewRecorder()
			h.CreateSubmission(rec, newIntakeRequest(t, fields, 6, 0))

			if tc.ok {
				require.Equal(t, http.StatusCreated, rec.Code)
				return
			}
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, rec.Body.String(), "agree")
			require.Empty(t, store.submissions)
			require.Empty(t, media.keys)
		})
	}
}

func TestCreateSubmissionValidatesFields(t *testing.T) {
	fields := validFields()
	fields["owner_email"] = "not-an-email"
	fields["vin"] = "TOOSHORT"

	store := &mockStore{}
	h := newTestHandler(store, &mockMediaStore{}, &mockMail{})

	rec := httptest.NewRecorder()
	h.CreateSubmission(rec, newIntakeRequest(t, fields, 6, 0))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "email")
	require.Contains(t, rec.Body.String(), "17 characters")
	require.Empty(t, store.submissions)
}

func TestMediaDisplayOrderPerType(t *testing.T) {
	store := &mockStore{}
	media := &mockMediaStore{}
	h := newTestHandler(store, media, &mockMail{})

	rec := httptest.NewRecorder()
	h.CreateSubmission(rec, newIntakeRequest(t, validFields(), 6, 2))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, media.keys, 8, "every file hits the media store exactly once")
	require.Len(t, store.media, 8)

	var photoOrders, videoOrders []int
	subID := store.submissions[0].ID
	for _, m := range store.media {
		require.Equal(t, subID, m.SubmissionID)
		require.NotEmpty(t, m.FileURL)
		switch m.MediaType {
		case models.MediaPhoto:
			photoOrders = append(photoOrders, m.DisplayOrder)
		case models.MediaVideo:
			videoOrders = append(videoOrders, m.DisplayOrder)
		}
	}
	require.Equal(t, []int{0, 1, 2, 3, 4, 5}, photoOrders, "photo order is the selection index")
	require.Equal(t, []int{0, 1}, videoOrders, "video order restarts at zero")
}

func TestMediaObjectKeysNamespacedBySubmission(t *testing.T) {
	store := &mockStore{}
	media := &mockMediaStore{}
	h := newTestHandler(store, media, &mockMail{})

	rec := httptest.NewRecorder()
	h.CreateSubmission(rec, newIntakeRequest(t, validFields(), 6, 0))

	require.Equal(t, http.StatusCreated, rec.Code)
	prefix := store.submissions[0].ID.String() + "/"
	for _, key := range media.keys {
		require.True(t, strings.HasPrefix(key, prefix), "key %q not namespaced by submission id", key)
		require.True(t, strings.HasSuffix(key, ".jpg"))
	}
}

func TestCreateSubmissionCompensatesOnUploadFailure(t *testing.T) {
	store := &mockStore{}
	media := &mockMediaStore{uploadErr: errors.New("bucket unavailable"), failAfter: 3}
	h := newTestHandler(store, media, &mockMail{})

	rec := httptest.NewRecorder()
	h.CreateSubmission(rec, newIntakeRequest(t, validFields(), 6, 0))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, store.submissions, "orphaned submission must be removed")
	require.Len(t, store.deleted, 1)
}

func TestNotificationFailureDoesNotFailSubmission(t *testing.T) {
	store := &mockStore{}
	mail := &mockMail{sendErr: errors.New("resend: status 500")}
	h := newTestHandler(store, &mockMediaStore{}, mail)

	rec := httptest.NewRecorder()
	h.CreateSubmission(rec, newIntakeRequest(t, validFields(), 6, 0))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.submissions, 1)
}

func TestIntakeEndToEnd(t *testing.T) {
	store := &mockStore{}
	media := &mockMediaStore{}
	mail := &mockMail{}
	h := newTestHandler(store, media, mail)

	rec := httptest.NewRecorder()
	h.CreateSubmission(rec, newIntakeRequest(t, validFields(), 6, 0))

	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, store.submissions, 1)
	sub := store.submissions[0]
	require.Equal(t, models.StatusPending, sub.Status)
	require.Equal(t, 2020, sub.Year)
	require.Equal(t, "Toyota", sub.Make)
	require.Equal(t, "Corolla", sub.Model)
	require.Equal(t, 45000, sub.Mileage)
	require.Equal(t, models.ConditionGood, sub.Condition)

	require.Len(t, store.media, 6)
	for i, m := range store.media {
		require.Equal(t, models.MediaPhoto, m.MediaType)
		require.Equal(t, i, m.DisplayOrder)
	}

	// one notification, both emails, carrying the vehicle details
	require.Len(t, mail.sent, 2)
	require.Contains(t, mail.sent[0].Subject, "Toyota")
	require.Contains(t, mail.sent[0].HTML, "Toyota")
	require.Equal(t, []string{"info@business.test"}, mail.sent[0].To)
	require.Equal(t, []string{"jordan@example.com"}, mail.sent[1].To)
}
