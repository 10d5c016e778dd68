package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"

	"artifact-registry-service/internal/core/domain"
	"artifact-registry-service/internal/core/services"
)

// Version metadata and files arrive as one multipart form. These helpers turn
// the optional scalar fields into pointers and the file parts into uploads
// the ingestion pipeline can open independently.

var formFileKeys = map[string]domain.Category{
	"dataset_files": domain.CategoryDataset,
	"label_files":   domain.CategoryLabel,
	"model_files":   domain.CategoryModel,
	"code_files":    domain.CategoryCode,
}

func uploadsFromForm(form *multipart.Form) map[domain.Category][]services.Upload {
	files := make(map[domain.Category][]services.Upload)
	for key, category := range formFileKeys {
		headers := form.File[key]
		if len(headers) == 0 {
			continue
		}
		files[category] = headersToUploads(headers)
	}
	return files
}

func headersToUploads(headers []*multipart.FileHeader) []services.Upload {
	uploads := make([]services.Upload, 0, len(headers))
	for _, fh := range headers {
		uploads = append(uploads, services.Upload{
			Name: fh.Filename,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return uploads
}

func formFloat(c *gin.Context, key string) (*float64, error) {
	raw, ok := c.GetPostForm(key)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("field %s: not a number", key)
	}
	return &v, nil
}

func formInt(c *gin.Context, key string) (*int, error) {
	raw, ok := c.GetPostForm(key)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("field %s: not an integer", key)
	}
	return &v, nil
}

func metricsFromForm(c *gin.Context) (domain.Metrics, error) {
	var m domain.Metrics
	var err error
	if m.Accuracy, err = formFloat(c, "accuracy"); err != nil {
		return m, err
	}
	if m.Precision, err = formFloat(c, "precision"); err != nil {
		return m, err
	}
	if m.Recall, err = formFloat(c, "recall"); err != nil {
		return m, err
	}
	if m.F1Score, err = formFloat(c, "f1_score"); err != nil {
		return m, err
	}
	if m.TP, err = formInt(c, "tp"); err != nil {
		return m, err
	}
	if m.TN, err = formInt(c, "tn"); err != nil {
		return m, err
	}
	if m.FP, err = formInt(c, "fp"); err != nil {
		return m, err
	}
	if m.FN, err = formInt(c, "fn"); err != nil {
		return m, err
	}
	return m, nil
}

func paramsFromForm(c *gin.Context) (domain.Params, error) {
	var p domain.Params
	var err error
	if p.BatchSize, err = formInt(c, "batch_size"); err != nil {
		return p, err
	}
	if p.Epochs, err = formInt(c, "epochs"); err != nil {
		return p, err
	}
	if p.LearningRate, err = formFloat(c, "learning_rate"); err != nil {
		return p, err
	}
	if p.ImageSize, err = formInt(c, "image_size"); err != nil {
		return p, err
	}
	p.Optimizer = c.PostForm("optimizer")

	extra, err := domain.ParseCustomParams(c.PostForm("custom_params"))
	if err != nil {
		return p, err
	}
	p.Extra = extra
	return p, nil
}
