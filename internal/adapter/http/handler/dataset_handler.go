package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/sentiment-lab/internal/usecase"
)

// DatasetHandler handles dataset listing and uploads
type DatasetHandler struct {
	datasetUC   usecase.DatasetUsecase
	maxBytes    int64
	defaultName string
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(datasetUC usecase.DatasetUsecase, maxBytes int64, defaultName string) *DatasetHandler {
	return &DatasetHandler{
		datasetUC:   datasetUC,
		maxBytes:    maxBytes,
		defaultName: defaultName,
	}
}

// ListDatasets handles GET /datasets
func (h *DatasetHandler) ListDatasets(c *gin.Context) {
	output, err := h.datasetUC.List(c.Request.Context())
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// UploadDataset handles POST /upload_dataset?name=
func (h *DatasetHandler) UploadDataset(c *gin.Context) {
	file, err := ReadUpload(c, h.maxBytes)
	if err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.datasetUC.Upload(c.Request.Context(), &usecase.UploadDatasetInput{
		Name:     DatasetName(c, h.defaultName),
		Filename: file.Filename,
		Content:  file.Content,
	})
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}
