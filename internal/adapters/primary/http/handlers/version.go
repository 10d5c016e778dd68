package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"artifact-registry-service/internal/adapters/primary/http/dto"
	"artifact-registry-service/internal/core/domain"
	"artifact-registry-service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListVersions(c *gin.Context) {
	_, modelID, ok := modelScope(c)
	if !ok {
		return
	}

	versions, err := h.versionSvc.List(c.Request.Context(), modelID)
	if err != nil {
		log.WithError(err).Error("list versions failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.VersionResponse, 0, len(versions))
	for _, v := range versions {
		items = append(items, dto.ToVersionResponse(v))
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetVersion(c *gin.Context) {
	_, modelID, versionID, ok := versionScope(c)
	if !ok {
		return
	}

	version, err := h.versionSvc.Get(c.Request.Context(), modelID, versionID)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToVersionResponse(version))
}

func (h *Handler) CreateVersion(c *gin.Context) {
	algorithmID, modelID, ok := modelScope(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}

	metrics, err := metricsFromForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	params, err := paramsFromForm(c)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidParams) {
			mapDomainError(c, err)
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	in := services.VersionInput{
		Note:    c.PostForm("note"),
		Metrics: metrics,
		Params:  params,
		Files:   uploadsFromForm(form),
	}

	version, err := h.versionSvc.Create(c.Request.Context(), algorithmID, modelID, in)
	if err != nil {
		log.WithError(err).Error("create version failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToVersionResponse(version))
}

func (h *Handler) EditVersion(c *gin.Context) {
	_, modelID, versionID, ok := versionScope(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}

	metrics, err := metricsFromForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	params, err := paramsFromForm(c)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidParams) {
			mapDomainError(c, err)
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	datasetMode, err := services.ParseEditMode(c.PostForm("dataset_mode"))
	if err != nil {
		mapDomainError(c, err)
		return
	}
	labelMode, err := services.ParseEditMode(c.PostForm("label_mode"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	in := services.EditInput{
		Metrics:     metrics,
		Params:      params,
		Files:       uploadsFromForm(form),
		DatasetMode: datasetMode,
		LabelMode:   labelMode,
	}
	if note, ok := c.GetPostForm("note"); ok {
		in.Note = &note
	}

	version, err := h.versionSvc.Edit(c.Request.Context(), modelID, versionID, in)
	if err != nil {
		log.WithError(err).Error("edit version failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToVersionResponse(version))
}

func (h *Handler) DeleteVersion(c *gin.Context) {
	_, modelID, versionID, ok := versionScope(c)
	if !ok {
		return
	}

	if err := h.versionSvc.Delete(c.Request.Context(), modelID, versionID); err != nil {
		log.WithError(err).Error("delete version failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) CheckoutVersion(c *gin.Context) {
	_, modelID, versionID, ok := versionScope(c)
	if !ok {
		return
	}

	version, err := h.versionSvc.Checkout(c.Request.Context(), modelID, versionID)
	if err != nil {
		log.WithError(err).Error("checkout version failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToVersionResponse(version))
}

func (h *Handler) GetVersionDelta(c *gin.Context) {
	_, modelID, versionID, ok := versionScope(c)
	if !ok {
		return
	}

	delta, err := h.versionSvc.GetDelta(c.Request.Context(), modelID, versionID)
	if err != nil {
		log.WithError(err).Error("get version delta failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDeltaResponse(delta))
}

func (h *Handler) UploadChunk(c *gin.Context) {
	_, modelID, versionID, ok := versionScope(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}

	category, err := domain.ParseCategory(c.DefaultPostForm("category", string(domain.CategoryDataset)))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files in chunk"})
		return
	}

	uploaded, err := h.versionSvc.AppendChunk(c.Request.Context(), modelID, versionID, category, headersToUploads(headers))
	if err != nil {
		log.WithError(err).Error("upload chunk failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ChunkResponse{Uploaded: uploaded})
}

// DownloadVersion streams a zip bundle of the version's artifacts. Boolean
// query parameters dataset, labels, model and code select the categories to
// include; asking for nothing is a bad request.
func (h *Handler) DownloadVersion(c *gin.Context) {
	_, modelID, versionID, ok := versionScope(c)
	if !ok {
		return
	}

	sel := services.ArchiveSelection{
		Dataset: boolQuery(c, "dataset"),
		Label:   boolQuery(c, "labels"),
		Model:   boolQuery(c, "model"),
		Code:    boolQuery(c, "code"),
	}

	archive, err := h.versionSvc.Archive(c.Request.Context(), modelID, versionID, sel)
	if err != nil {
		log.WithError(err).Error("download version failed")
		mapDomainError(c, err)
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archive.Filename()))
	c.Status(http.StatusOK)
	if err := archive.Stream(c.Writer); err != nil {
		// Headers are gone already; all we can do is log and cut the stream.
		log.WithError(err).Error("stream version archive failed")
	}
}

func boolQuery(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}

func (h *Handler) ListVersionArtifacts(c *gin.Context) {
	_, modelID, versionID, ok := versionScope(c)
	if !ok {
		return
	}

	artifacts, err := h.versionSvc.ListArtifacts(c.Request.Context(), modelID, versionID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ArtifactResponse, 0, len(artifacts))
	for _, a := range artifacts {
		items = append(items, dto.ToArtifactResponse(a))
	}
	c.JSON(http.StatusOK, items)
}

func versionScope(c *gin.Context) (algorithmID, modelID, versionID uuid.UUID, ok bool) {
	algorithmID, modelID, ok = modelScope(c)
	if !ok {
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}
	versionID, err := uuid.Parse(c.Param("version_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version id"})
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}
	return algorithmID, modelID, versionID, true
}
