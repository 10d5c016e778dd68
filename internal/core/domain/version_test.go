package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Validate(t *testing.T) {
	ok := 97.5
	assert.NoError(t, Metrics{Accuracy: &ok}.Validate())

	zero, hundred := 0.0, 100.0
	assert.NoError(t, Metrics{Precision: &zero, Recall: &hundred}.Validate())

	low, high := -0.1, 100.1
	assert.ErrorIs(t, Metrics{F1Score: &low}.Validate(), ErrMetricOutOfRange)
	assert.ErrorIs(t, Metrics{Accuracy: &high}.Validate(), ErrMetricOutOfRange)

	assert.NoError(t, Metrics{}.Validate())
}

func TestParams_Merge(t *testing.T) {
	batch, epochs := 16, 10
	base := Params{
		BatchSize: &batch,
		Epochs:    &epochs,
		Optimizer: "sgd",
		Extra:     map[string]any{"aug": "flip", "seed": 1},
	}

	newEpochs := 50
	merged := base.Merge(Params{
		Epochs:    &newEpochs,
		Optimizer: "adam",
		Extra:     map[string]any{"seed": 2},
	})

	assert.Equal(t, 16, *merged.BatchSize)
	assert.Equal(t, 50, *merged.Epochs)
	assert.Equal(t, "adam", merged.Optimizer)
	assert.Equal(t, map[string]any{"seed": 2}, merged.Extra)
}

func TestParams_MergeEmptyInputKeepsExisting(t *testing.T) {
	lr := 0.001
	base := Params{LearningRate: &lr, Extra: map[string]any{"aug": "flip"}}

	merged := base.Merge(Params{})
	assert.Equal(t, 0.001, *merged.LearningRate)
	assert.Equal(t, map[string]any{"aug": "flip"}, merged.Extra)
}

func TestParseCustomParams(t *testing.T) {
	extra, err := ParseCustomParams(`{"augmentation": "mosaic", "folds": 5}`)
	require.NoError(t, err)
	assert.Equal(t, "mosaic", extra["augmentation"])

	extra, err = ParseCustomParams("")
	require.NoError(t, err)
	assert.Nil(t, extra)

	_, err = ParseCustomParams(`[1, 2, 3]`)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = ParseCustomParams(`not json`)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestParseCategory(t *testing.T) {
	for _, s := range []string{"dataset", "label", "model", "code"} {
		c, err := ParseCategory(s)
		assert.NoError(t, err)
		assert.Equal(t, Category(s), c)
	}

	_, err := ParseCategory("weights")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}
