package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ressKim-io/sentiment-lab/internal/usecase"
)

type MockPredictionUsecase struct {
	mock.Mock
}

func (m *MockPredictionUsecase) Predict(ctx context.Context, input *usecase.PredictInput) (*usecase.PredictOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.PredictOutput), args.Error(1)
}

type MockDatasetUsecase struct {
	mock.Mock
}

func (m *MockDatasetUsecase) List(ctx context.Context) (*usecase.DatasetListOutput, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DatasetListOutput), args.Error(1)
}

func (m *MockDatasetUsecase) Upload(ctx context.Context, input *usecase.UploadDatasetInput) (*usecase.UploadDatasetOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UploadDatasetOutput), args.Error(1)
}

func (m *MockDatasetUsecase) LoadBuiltins(ctx context.Context) {
	m.Called(ctx)
}

type stubReadiness struct {
	ready, datasets, classifier bool
}

func (s stubReadiness) Ready() bool            { return s.ready }
func (s stubReadiness) DatasetsLoaded() bool   { return s.datasets }
func (s stubReadiness) ClassifierLoaded() bool { return s.classifier }

// newMultipartRequest builds a request carrying content in the "file" form field
func newMultipartRequest(t *testing.T, target, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(UploadField, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, target, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
