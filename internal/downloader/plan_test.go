package downloader

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"testing"

	"cardfetch/pkg/catalog"
	"cardfetch/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanFor(t *testing.T) {
	item := catalog.Item{Index: 3, ID: "46986414", ImageURL: "https://images.example/46986414.jpg"}

	target, err := PlanFor(item, "./CardImages")
	require.NoError(t, err)
	assert.Equal(t, Target{
		ID:        "46986414",
		SourceURL: "https://images.example/46986414.jpg",
		Key:       "46986414.jpg",
		Path:      filepath.Join("CardImages", "46986414.jpg"),
	}, target)
}

func TestPlanForBucketLocation(t *testing.T) {
	item := catalog.Item{ID: "7", ImageURL: "https://images.example/7.png"}

	target, err := PlanFor(item, "mem://cards/")
	require.NoError(t, err)
	assert.Equal(t, "7.jpg", target.Key, "extension is fixed regardless of source")
	assert.Equal(t, "mem://cards/7.jpg", target.Path)
}

func TestPlanForSameIDSharesTarget(t *testing.T) {
	a, err := PlanFor(catalog.Item{Index: 0, ID: "1", ImageURL: "https://a.example/1.jpg"}, "out")
	require.NoError(t, err)
	b, err := PlanFor(catalog.Item{Index: 9, ID: "1", ImageURL: "https://b.example/1.jpg"}, "out")
	require.NoError(t, err)

	assert.Equal(t, a.Key, b.Key)
	assert.Equal(t, a.Path, b.Path)
}

func TestPlanForInvalidItem(t *testing.T) {
	tests := []struct {
		name string
		item catalog.Item
	}{
		{"problem from catalog", catalog.Item{Index: 2, Problem: errors.New(errors.ErrorTypeInvalidItem, 0, "missing id")}},
		{"untyped problem", catalog.Item{Index: 2, Problem: fmt.Errorf("bad")}},
		{"empty fields", catalog.Item{Index: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanFor(tt.item, "out")
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.ErrInvalidItem))
		})
	}
}

func TestDisplayID(t *testing.T) {
	assert.Equal(t, "12345", DisplayID(catalog.Item{ID: "12345", Index: 1}))
	assert.Equal(t, "data[4]", DisplayID(catalog.Item{Index: 4}))
}
