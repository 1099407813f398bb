package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ressKim-io/sentiment-lab/internal/domain/entity"
	"github.com/ressKim-io/sentiment-lab/internal/domain/service"
)

func newTestPredictionUsecase(repo *MockDatasetRepository, classifier service.Classifier) PredictionUsecase {
	slot := NewClassifierSlot()
	if classifier != nil {
		slot.Set(classifier)
	}
	return NewPredictionUsecase(repo, slot, nil, zap.NewNop())
}

func imdbCorpus() *entity.Corpus {
	return entity.NewCorpus("IMDB Reviews", []entity.Row{
		{Text: "a great movie", Label: "1"},
		{Text: "worst film ever", Label: "0"},
	})
}

func TestNormalizeInput(t *testing.T) {
	tests := []struct {
		name     string
		input    *PredictInput
		expected entity.TextInput
		err      error
	}{
		{
			name:     "single text",
			input:    &PredictInput{Text: "hello"},
			expected: entity.SingleText("hello"),
		},
		{
			name:     "text wins over texts",
			input:    &PredictInput{Text: "hello", Texts: []string{"a", "b"}},
			expected: entity.SingleText("hello"),
		},
		{
			name:     "texts verbatim with duplicates",
			input:    &PredictInput{Texts: []string{" B ", "a", " B "}},
			expected: entity.BatchText{" B ", "a", " B "},
		},
		{
			name:     "empty text falls through to texts",
			input:    &PredictInput{Text: "", Texts: []string{"x"}},
			expected: entity.BatchText{"x"},
		},
		{
			name:  "neither provided",
			input: &PredictInput{},
			err:   ErrMissingInput,
		},
		{
			name:  "both empty",
			input: &PredictInput{Text: "", Texts: []string{}},
			err:   ErrMissingInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeInput(tt.input)

			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPredictionUsecase_Predict(t *testing.T) {
	t.Run("missing input", func(t *testing.T) {
		repo := new(MockDatasetRepository)
		uc := newTestPredictionUsecase(repo, new(MockClassifier))

		output, err := uc.Predict(context.Background(), &PredictInput{Dataset: "IMDB Reviews", ValidateInDataset: true})

		assert.ErrorIs(t, err, ErrMissingInput)
		assert.Nil(t, output)
		repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("validation matches regardless of case and whitespace", func(t *testing.T) {
		repo := new(MockDatasetRepository)
		classifier := new(MockClassifier)
		uc := newTestPredictionUsecase(repo, classifier)

		repo.On("Get", mock.Anything, "IMDB Reviews").Return(imdbCorpus(), nil)
		classifier.On("Classify", mock.Anything, "  A Great Movie ").Return(sentimentScores(0.98), nil)

		output, err := uc.Predict(context.Background(), &PredictInput{
			Dataset:           "IMDB Reviews",
			Text:              "  A Great Movie ",
			ValidateInDataset: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "IMDB Reviews", output.DatasetUsed)
		assert.Equal(t, "mock-sentiment-v1", output.Model)
		require.Len(t, output.Results, 1)

		result := output.Results[0]
		assert.Equal(t, "  A Great Movie ", result.Text)
		assert.Equal(t, 16, result.TextLength)
		assert.Equal(t, "POSITIVE", result.Prediction)
		assert.Equal(t, 0.98, result.Confidence)
		assert.Len(t, result.Scores, 2)
		assert.Empty(t, result.Error)
		repo.AssertExpectations(t)
		classifier.AssertExpectations(t)
	})

	t.Run("validation reports missing text", func(t *testing.T) {
		repo := new(MockDatasetRepository)
		classifier := new(MockClassifier)
		uc := newTestPredictionUsecase(repo, classifier)

		repo.On("Get", mock.Anything, "IMDB Reviews").Return(imdbCorpus(), nil)

		output, err := uc.Predict(context.Background(), &PredictInput{
			Dataset:           "IMDB Reviews",
			Texts:             []string{"zzz_not_present"},
			ValidateInDataset: true,
		})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, ErrValidationFailed)

		var vErr *ValidationFailedError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, 1, vErr.MissingCount)
		assert.Equal(t, []string{"zzz_not_present"}, vErr.MissingExamples)
		classifier.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
	})

	t.Run("validation caps examples and keeps duplicates in order", func(t *testing.T) {
		repo := new(MockDatasetRepository)
		uc := newTestPredictionUsecase(repo, new(MockClassifier))

		repo.On("Get", mock.Anything, "IMDB Reviews").Return(imdbCorpus(), nil)

		output, err := uc.Predict(context.Background(), &PredictInput{
			Dataset:           "IMDB Reviews",
			Texts:             []string{"m1", "A GREAT MOVIE", "m1", "m2", "m3", "m4", "m5", "m6"},
			ValidateInDataset: true,
		})

		assert.Nil(t, output)
		var vErr *ValidationFailedError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, 7, vErr.MissingCount)
		assert.Equal(t, []string{"m1", "m1", "m2", "m3", "m4"}, vErr.MissingExamples)
	})

	t.Run("validation against unknown dataset", func(t *testing.T) {
		repo := new(MockDatasetRepository)
		uc := newTestPredictionUsecase(repo, new(MockClassifier))

		repo.On("Get", mock.Anything, "Nope").Return(nil, nil)

		output, err := uc.Predict(context.Background(), &PredictInput{
			Dataset:           "Nope",
			Text:              "a great movie",
			ValidateInDataset: true,
		})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, ErrDatasetNotFound)
		var nfErr *DatasetNotFoundError
		require.True(t, errors.As(err, &nfErr))
		assert.Equal(t, "Nope", nfErr.Name)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockDatasetRepository)
		uc := newTestPredictionUsecase(repo, new(MockClassifier))

		repo.On("Get", mock.Anything, "IMDB Reviews").Return(nil, errors.New("store unavailable"))

		_, err := uc.Predict(context.Background(), &PredictInput{
			Dataset:           "IMDB Reviews",
			Text:              "x",
			ValidateInDataset: true,
		})

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrDatasetNotFound)
	})

	t.Run("dataset is not checked when validation is off", func(t *testing.T) {
		repo := new(MockDatasetRepository)
		classifier := new(MockClassifier)
		uc := newTestPredictionUsecase(repo, classifier)

		classifier.On("Classify", mock.Anything, "I love this!").Return(sentimentScores(0.99), nil)

		output, err := uc.Predict(context.Background(), &PredictInput{
			Dataset: "does not exist",
			Text:    "I love this!",
		})

		require.NoError(t, err)
		assert.Equal(t, "does not exist", output.DatasetUsed)
		assert.Equal(t, 12, output.Results[0].TextLength)
		repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("model not ready", func(t *testing.T) {
		repo := new(MockDatasetRepository)
		uc := newTestPredictionUsecase(repo, nil)

		output, err := uc.Predict(context.Background(), &PredictInput{Dataset: "x", Text: "hello"})

		assert.ErrorIs(t, err, ErrModelNotReady)
		assert.Nil(t, output)
	})

	t.Run("model not ready wins over invalid input", func(t *testing.T) {
		repo := new(MockDatasetRepository)
		uc := newTestPredictionUsecase(repo, nil)

		_, err := uc.Predict(context.Background(), &PredictInput{
			Dataset:           "Nope",
			Texts:             []string{},
			ValidateInDataset: true,
		})

		assert.ErrorIs(t, err, ErrModelNotReady)
		repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("nil input", func(t *testing.T) {
		uc := newTestPredictionUsecase(new(MockDatasetRepository), new(MockClassifier))

		_, err := uc.Predict(context.Background(), nil)

		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestPredictionUsecase_Classification(t *testing.T) {
	t.Run("per-item calls without batch support", func(t *testing.T) {
		classifier := new(MockClassifier)
		uc := newTestPredictionUsecase(new(MockDatasetRepository), classifier)

		classifier.On("Classify", mock.Anything, "good").Return(sentimentScores(0.9), nil).Once()
		classifier.On("Classify", mock.Anything, "bad").Return(sentimentScores(0.1), nil).Once()

		output, err := uc.Predict(context.Background(), &PredictInput{Dataset: "d", Texts: []string{"good", "bad"}})

		require.NoError(t, err)
		require.Len(t, output.Results, 2)
		assert.Equal(t, "POSITIVE", output.Results[0].Prediction)
		assert.Equal(t, "NEGATIVE", output.Results[1].Prediction)
		classifier.AssertExpectations(t)
	})

	t.Run("batch call preserves order and duplicates", func(t *testing.T) {
		classifier := new(MockBatchClassifier)
		uc := newTestPredictionUsecase(new(MockDatasetRepository), classifier)

		texts := []string{"b", "a", "b", "c"}
		classifier.On("ClassifyBatch", mock.Anything, texts).Return([][]entity.LabelScore{
			sentimentScores(0.2),
			sentimentScores(0.9),
			sentimentScores(0.2),
			sentimentScores(0.6),
		}, nil)

		output, err := uc.Predict(context.Background(), &PredictInput{Dataset: "d", Texts: texts})

		require.NoError(t, err)
		require.Len(t, output.Results, len(texts))
		for i, text := range texts {
			assert.Equal(t, text, output.Results[i].Text)
		}
		assert.Equal(t, "NEGATIVE", output.Results[0].Prediction)
		assert.Equal(t, "POSITIVE", output.Results[1].Prediction)
		classifier.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
	})

	t.Run("batch failure falls back to per-item calls", func(t *testing.T) {
		classifier := new(MockBatchClassifier)
		uc := newTestPredictionUsecase(new(MockDatasetRepository), classifier)

		texts := []string{"one", "two"}
		classifier.On("ClassifyBatch", mock.Anything, texts).Return(nil, errors.New("batch rejected"))
		classifier.On("Classify", mock.Anything, "one").Return(sentimentScores(0.8), nil)
		classifier.On("Classify", mock.Anything, "two").Return(sentimentScores(0.3), nil)

		output, err := uc.Predict(context.Background(), &PredictInput{Dataset: "d", Texts: texts})

		require.NoError(t, err)
		require.Len(t, output.Results, 2)
		assert.Equal(t, "POSITIVE", output.Results[0].Prediction)
		assert.Equal(t, "NEGATIVE", output.Results[1].Prediction)
		classifier.AssertExpectations(t)
	})

	t.Run("batch with wrong length falls back", func(t *testing.T) {
		classifier := new(MockBatchClassifier)
		uc := newTestPredictionUsecase(new(MockDatasetRepository), classifier)

		texts := []string{"one", "two"}
		classifier.On("ClassifyBatch", mock.Anything, texts).Return([][]entity.LabelScore{sentimentScores(0.8)}, nil)
		classifier.On("Classify", mock.Anything, "one").Return(sentimentScores(0.8), nil)
		classifier.On("Classify", mock.Anything, "two").Return(sentimentScores(0.7), nil)

		output, err := uc.Predict(context.Background(), &PredictInput{Dataset: "d", Texts: texts})

		require.NoError(t, err)
		assert.Len(t, output.Results, 2)
		classifier.AssertExpectations(t)
	})

	t.Run("item failing after fallback is marked in place", func(t *testing.T) {
		classifier := new(MockBatchClassifier)
		uc := newTestPredictionUsecase(new(MockDatasetRepository), classifier)

		texts := []string{"ok", "malformed", "fine"}
		classifier.On("ClassifyBatch", mock.Anything, texts).Return(nil, errors.New("batch rejected"))
		classifier.On("Classify", mock.Anything, "ok").Return(sentimentScores(0.9), nil)
		classifier.On("Classify", mock.Anything, "malformed").Return(nil, errors.New("input too long"))
		classifier.On("Classify", mock.Anything, "fine").Return(sentimentScores(0.6), nil)

		output, err := uc.Predict(context.Background(), &PredictInput{Dataset: "d", Texts: texts})

		require.NoError(t, err)
		require.Len(t, output.Results, 3)

		failed := output.Results[1]
		assert.Equal(t, "malformed", failed.Text)
		assert.Equal(t, 9, failed.TextLength)
		assert.Empty(t, failed.Prediction)
		assert.Zero(t, failed.Confidence)
		assert.NotNil(t, failed.Scores)
		assert.Empty(t, failed.Scores)
		assert.Contains(t, failed.Error, "input too long")

		assert.Equal(t, "POSITIVE", output.Results[0].Prediction)
		assert.Equal(t, "POSITIVE", output.Results[2].Prediction)
	})

	t.Run("empty distribution counts as item failure", func(t *testing.T) {
		classifier := new(MockClassifier)
		uc := newTestPredictionUsecase(new(MockDatasetRepository), classifier)

		classifier.On("Classify", mock.Anything, "a").Return([]entity.LabelScore{}, nil)
		classifier.On("Classify", mock.Anything, "b").Return(sentimentScores(0.7), nil)

		output, err := uc.Predict(context.Background(), &PredictInput{Dataset: "d", Texts: []string{"a", "b"}})

		require.NoError(t, err)
		assert.NotEmpty(t, output.Results[0].Error)
		assert.Empty(t, output.Results[1].Error)
	})

	t.Run("every item failing fails the request", func(t *testing.T) {
		classifier := new(MockBatchClassifier)
		uc := newTestPredictionUsecase(new(MockDatasetRepository), classifier)

		classifier.On("ClassifyBatch", mock.Anything, []string{"x"}).Return(nil, errors.New("down"))
		classifier.On("Classify", mock.Anything, "x").Return(nil, errors.New("still down"))

		output, err := uc.Predict(context.Background(), &PredictInput{Dataset: "d", Text: "x"})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, ErrClassificationFailed)
		assert.Contains(t, err.Error(), "still down")
	})

	t.Run("repeated calls are identical", func(t *testing.T) {
		classifier := new(MockClassifier)
		uc := newTestPredictionUsecase(new(MockDatasetRepository), classifier)

		classifier.On("Classify", mock.Anything, "same").Return(sentimentScores(0.75), nil)

		input := &PredictInput{Dataset: "d", Text: "same"}
		first, err := uc.Predict(context.Background(), input)
		require.NoError(t, err)
		second, err := uc.Predict(context.Background(), input)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}
