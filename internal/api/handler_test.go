package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/zourte2486/school-platform-test/internal/config"
	"github.com/zourte2486/school-platform-test/internal/model"
	"github.com/zourte2486/school-platform-test/internal/school"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Doubles
// ==========================

type memRepo struct {
	nextID  int64
	records []model.School
}

func (r *memRepo) Insert(ctx context.Context, sub model.SchoolSubmission, imageLocator string) (int64, error) {
	r.nextID++
	r.records = append(r.records, model.School{
		ID: r.nextID, Name: sub.Name, Address: sub.Address, City: sub.City,
		State: sub.State, Contact: sub.Contact, Image: imageLocator,
		EmailID: sub.EmailID, CreatedAt: time.Now(),
	})
	return r.nextID, nil
}

func (r *memRepo) ListAll(ctx context.Context) ([]model.School, error) {
	out := make([]model.School, 0, len(r.records))
	for i := len(r.records) - 1; i >= 0; i-- {
		out = append(out, r.records[i])
	}
	return out, nil
}

func (r *memRepo) GetByID(ctx context.Context, id int64) (*model.School, error) {
	for _, rec := range r.records {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memRepo) DeleteByID(ctx context.Context, id int64) (int64, error) {
	for i, rec := range r.records {
		if rec.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *memRepo) ExistsByImage(ctx context.Context, imageLocator string) (bool, error) {
	for _, rec := range r.records {
		if rec.Image == imageLocator {
			return true, nil
		}
	}
	return false, nil
}

type memBlobStore struct {
	uploads int
}

func (b *memBlobStore) Upload(ctx context.Context, img model.ImagePayload) (string, error) {
	b.uploads++
	return "https://blobs.example.com/school-platform/uploaded.jpg", nil
}

func (b *memBlobStore) Delete(ctx context.Context, locator string) error {
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *memRepo, *memBlobStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &memRepo{}
	blobs := &memBlobStore{}
	service := school.NewService(repo, blobs, nil)

	cfg := &config.Config{}
	cfg.App.Name = "school-platform"
	cfg.App.Version = "test"

	router := gin.New()
	SetupRoutes(router, NewHandler(service, cfg))
	return router, repo, blobs
}

type multipartBody struct {
	buf         *bytes.Buffer
	contentType string
}

func buildSubmission(t *testing.T, fields map[string]string, imageName, imageType string, imageSize int) multipartBody {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}

	if imageName != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="`+imageName+`"`)
		header.Set("Content-Type", imageType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(make([]byte, imageSize))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	return multipartBody{buf: buf, contentType: writer.FormDataContentType()}
}

func validFields() map[string]string {
	return map[string]string{
		"name":     "Lotus High",
		"address":  "12 Palm Street",
		"city":     "Springfield",
		"state":    "IL",
		"contact":  "9876543210",
		"email_id": "admin@lotus.edu",
	}
}

func doRequest(router *gin.Engine, method, target string, body multipartBody) *httptest.ResponseRecorder {
	var req *http.Request
	if body.buf != nil {
		req = httptest.NewRequest(method, target, body.buf)
		req.Header.Set("Content-Type", body.contentType)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// ==========================
// Handler Tests
// ==========================

func TestCreateSchool_Success(t *testing.T) {
	router, _, blobs := newTestRouter(t)

	body := buildSubmission(t, validFields(), "school.jpg", "image/jpeg", 2*1024*1024)
	rec := doRequest(router, http.MethodPost, "/api/v1/schools", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody(t, rec)
	assert.Equal(t, true, resp["success"])

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["id"])
	assert.Equal(t, "https://blobs.example.com/school-platform/uploaded.jpg", data["image"])
	assert.Equal(t, 1, blobs.uploads)

	// The freshly ingested record is listed first.
	rec = doRequest(router, http.MethodGet, "/api/v1/schools", multipartBody{})
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody(t, rec)["data"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "Lotus High", list[0].(map[string]interface{})["name"])
}

func TestCreateSchool_ShortContact(t *testing.T) {
	router, _, blobs := newTestRouter(t)

	fields := validFields()
	fields["contact"] = "98765"
	body := buildSubmission(t, fields, "school.jpg", "image/jpeg", 1024)
	rec := doRequest(router, http.MethodPost, "/api/v1/schools", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["error"].(string), "contact")
	assert.Zero(t, blobs.uploads)
}

func TestCreateSchool_MissingField(t *testing.T) {
	router, _, _ := newTestRouter(t)

	fields := validFields()
	delete(fields, "email_id")
	body := buildSubmission(t, fields, "school.jpg", "image/jpeg", 1024)
	rec := doRequest(router, http.MethodPost, "/api/v1/schools", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "all fields are required", decodeBody(t, rec)["error"])
}

func TestCreateSchool_MissingImage(t *testing.T) {
	router, _, _ := newTestRouter(t)

	body := buildSubmission(t, validFields(), "", "", 0)
	rec := doRequest(router, http.MethodPost, "/api/v1/schools", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "all fields are required", decodeBody(t, rec)["error"])
}

func TestCreateSchool_BadImageType(t *testing.T) {
	router, _, blobs := newTestRouter(t)

	body := buildSubmission(t, validFields(), "school.gif", "image/gif", 1024)
	rec := doRequest(router, http.MethodPost, "/api/v1/schools", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"].(string), "Invalid image type")
	assert.Zero(t, blobs.uploads)
}

func TestListSchools_EmptyTable(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/schools", multipartBody{})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody(t, rec)
	assert.Equal(t, true, resp["success"])
	assert.Empty(t, resp["data"])
	assert.NotNil(t, resp["data"], "empty listing serializes as [], not null")
}

func TestGetSchool(t *testing.T) {
	router, _, _ := newTestRouter(t)

	body := buildSubmission(t, validFields(), "school.jpg", "image/jpeg", 1024)
	require.Equal(t, http.StatusOK, doRequest(router, http.MethodPost, "/api/v1/schools", body).Code)

	rec := doRequest(router, http.MethodGet, "/api/v1/schools/1", multipartBody{})
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "Lotus High", data["name"])

	rec = doRequest(router, http.MethodGet, "/api/v1/schools/99", multipartBody{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSchool_TwiceYieldsNotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)

	body := buildSubmission(t, validFields(), "school.jpg", "image/jpeg", 1024)
	require.Equal(t, http.StatusOK, doRequest(router, http.MethodPost, "/api/v1/schools", body).Code)

	rec := doRequest(router, http.MethodDelete, "/api/v1/schools/1", multipartBody{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])

	rec = doRequest(router, http.MethodDelete, "/api/v1/schools/1", multipartBody{})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "School not found", decodeBody(t, rec)["error"])
}

func TestDeleteSchool_InvalidID(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodDelete, "/api/v1/schools/abc", multipartBody{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid school ID", decodeBody(t, rec)["error"])
}

func TestExportSchools(t *testing.T) {
	router, _, _ := newTestRouter(t)

	body := buildSubmission(t, validFields(), "school.jpg", "image/jpeg", 1024)
	require.Equal(t, http.StatusOK, doRequest(router, http.MethodPost, "/api/v1/schools", body).Code)

	rec := doRequest(router, http.MethodGet, "/api/v1/export/schools", multipartBody{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestHealthCheck(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/health", multipartBody{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
}
