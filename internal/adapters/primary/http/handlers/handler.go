package handlers

import (
	"artifact-registry-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	factorySvc   *services.FactoryService
	algorithmSvc *services.AlgorithmService
	modelSvc     *services.ModelService
	versionSvc   *services.VersionService
	artifactSvc  *services.ArtifactService
}

func New(
	factorySvc *services.FactoryService,
	algorithmSvc *services.AlgorithmService,
	modelSvc *services.ModelService,
	versionSvc *services.VersionService,
	artifactSvc *services.ArtifactService,
) *Handler {
	return &Handler{
		factorySvc:   factorySvc,
		algorithmSvc: algorithmSvc,
		modelSvc:     modelSvc,
		versionSvc:   versionSvc,
		artifactSvc:  artifactSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Factories
	r.GET("/factories", h.ListFactories)
	r.GET("/factories/:factory_id", h.GetFactory)
	r.POST("/factories", h.CreateFactory)
	r.PATCH("/factories/:factory_id", h.UpdateFactory)
	r.DELETE("/factories/:factory_id", h.DeleteFactory)

	// Algorithms (nested under factory)
	algorithms := r.Group("/factories/:factory_id/algorithms")
	algorithms.GET("", h.ListAlgorithms)
	algorithms.GET("/:algorithm_id", h.GetAlgorithm)
	algorithms.POST("", h.CreateAlgorithm)
	algorithms.PATCH("/:algorithm_id", h.UpdateAlgorithm)
	algorithms.DELETE("/:algorithm_id", h.DeleteAlgorithm)

	// Models (nested under algorithm)
	models := algorithms.Group("/:algorithm_id/models")
	models.GET("", h.ListModels)
	models.GET("/:model_id", h.GetModel)
	models.POST("", h.CreateModel)
	models.PATCH("/:model_id", h.UpdateModel)
	models.DELETE("/:model_id", h.DeleteModel)

	// Versions (nested under model)
	versions := models.Group("/:model_id/versions")
	versions.GET("", h.ListVersions)
	versions.GET("/:version_id", h.GetVersion)
	versions.POST("", h.CreateVersion)
	versions.PATCH("/:version_id", h.EditVersion)
	versions.DELETE("/:version_id", h.DeleteVersion)
	versions.POST("/:version_id/checkout", h.CheckoutVersion)
	versions.GET("/:version_id/delta", h.GetVersionDelta)
	versions.POST("/:version_id/chunks", h.UploadChunk)
	versions.GET("/:version_id/artifacts", h.ListVersionArtifacts)
	versions.GET("/:version_id/download", h.DownloadVersion)

	// Artifacts (direct access)
	r.GET("/artifacts/:artifact_id", h.GetArtifact)
	r.GET("/artifacts/:artifact_id/download", h.DownloadArtifact)
}
