package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/zourte2486/school-platform-test/internal/config"
	"github.com/zourte2486/school-platform-test/internal/excel"
	"github.com/zourte2486/school-platform-test/internal/logger"
	"github.com/zourte2486/school-platform-test/internal/model"
	"github.com/zourte2486/school-platform-test/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SchoolService is the pipeline surface the handlers depend on.
type SchoolService interface {
	Ingest(ctx context.Context, sub model.SchoolSubmission) (*model.IngestResult, error)
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]model.School, error)
	GetByID(ctx context.Context, id int64) (*model.School, error)
}

type Handler struct {
	schools  SchoolService
	exporter *excel.Exporter
	cfg      *config.Config
	log      zerolog.Logger
}

func NewHandler(schools SchoolService, cfg *config.Config) *Handler {
	return &Handler{
		schools:  schools,
		exporter: excel.NewExporter(),
		cfg:      cfg,
		log:      logger.Get(),
	}
}

// CreateSchool handles the multipart submission form.
func (h *Handler) CreateSchool(c *gin.Context) {
	sub := model.SchoolSubmission{
		Name:    c.PostForm("name"),
		Address: c.PostForm("address"),
		City:    c.PostForm("city"),
		State:   c.PostForm("state"),
		Contact: c.PostForm("contact"),
		EmailID: c.PostForm("email_id"),
	}

	fileHeader, err := c.FormFile("image")
	if err == nil {
		file, openErr := fileHeader.Open()
		if openErr != nil {
			h.log.Error().Err(openErr).Msg("Failed to open uploaded image")
			fail(c, http.StatusInternalServerError, "failed to read uploaded image")
			return
		}
		defer file.Close()

		data, readErr := io.ReadAll(file)
		if readErr != nil {
			h.log.Error().Err(readErr).Msg("Failed to read uploaded image")
			fail(c, http.StatusInternalServerError, "failed to read uploaded image")
			return
		}

		sub.Image = model.ImagePayload{
			Data:        data,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Filename:    fileHeader.Filename,
			Size:        fileHeader.Size,
		}
	}

	result, err := h.schools.Ingest(c.Request.Context(), sub)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "School added successfully",
		"data":    result,
	})
}

func (h *Handler) ListSchools(c *gin.Context) {
	schools, err := h.schools.ListAll(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list schools")
		fail(c, http.StatusInternalServerError, "Failed to fetch schools")
		return
	}

	if schools == nil {
		schools = []model.School{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": schools})
}

func (h *Handler) GetSchool(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	school, err := h.schools.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": school})
}

func (h *Handler) DeleteSchool(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.schools.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "School deleted successfully",
	})
}

// ExportSchools streams the listing as an XLSX workbook.
func (h *Handler) ExportSchools(c *gin.Context) {
	schools, err := h.schools.ListAll(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list schools for export")
		fail(c, http.StatusInternalServerError, "Failed to fetch schools")
		return
	}

	data, err := h.exporter.Export(schools)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build export workbook")
		fail(c, http.StatusInternalServerError, "Failed to export schools")
		return
	}

	filename := fmt.Sprintf("schools-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}

func (h *Handler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid school ID")
		return 0, false
	}
	return id, true
}

// respondError maps the closed error taxonomy onto HTTP statuses. Unknown
// errors never leak their cause to the client.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch errors.KindOf(err) {
	case errors.KindValidation, errors.KindInvalidImage:
		fail(c, http.StatusBadRequest, err.Error())
	case errors.KindNotFound:
		fail(c, http.StatusNotFound, "School not found")
	case errors.KindStorageUnavailable, errors.KindPersistenceFailed:
		h.log.Error().Err(err).Msg("Pipeline failure")
		fail(c, http.StatusInternalServerError, errors.MessageOf(err))
	default:
		h.log.Error().Err(err).Msg("Unclassified failure")
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}
