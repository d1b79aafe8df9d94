package catalog

import (
	stderrors "errors"
	"testing"

	"cardfetch/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidCatalog(t *testing.T) {
	body := `{"data":[
		{"id": 46986414, "name": "Dark Magician", "card_images": [{"image_url": "https://images.example/46986414.jpg"}, {"image_url": "https://images.example/alt.jpg"}]},
		{"id": "89631139", "card_images": [{"image_url": "https://images.example/89631139.jpg"}]}
	]}`

	cat, err := Parse([]byte(body))
	require.NoError(t, err)
	require.Equal(t, 2, cat.Len())
	assert.Equal(t, 0, cat.InvalidCount())

	assert.Equal(t, Item{Index: 0, ID: "46986414", ImageURL: "https://images.example/46986414.jpg"}, cat.Items[0])
	assert.Equal(t, Item{Index: 1, ID: "89631139", ImageURL: "https://images.example/89631139.jpg"}, cat.Items[1])
}

func TestParseEmptyData(t *testing.T) {
	cat, err := Parse([]byte(`{"data":[]}`))
	require.NoError(t, err)
	assert.Equal(t, 0, cat.Len())
}

func TestParseMalformedShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"top level array", `[{"id":1}]`},
		{"missing data", `{"error":"no cards"}`},
		{"data is a string", `{"data":"not-an-array"}`},
		{"data is null", `{"data":null}`},
		{"element is not an object", `{"data":[1,2,3]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := Parse([]byte(tt.body))
			assert.Nil(t, cat)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.ErrCatalogMalformed))
		})
	}
}

func TestParseItemProblemsAreNotFatal(t *testing.T) {
	body := `{"data":[
		{"card_images": [{"image_url": "https://images.example/a.jpg"}]},
		{"id": 1.5, "card_images": [{"image_url": "https://images.example/b.jpg"}]},
		{"id": "../etc", "card_images": [{"image_url": "https://images.example/c.jpg"}]},
		{"id": 4},
		{"id": 5, "card_images": []},
		{"id": 6, "card_images": [{"image_url_small": "https://images.example/f.jpg"}]},
		{"id": 7, "card_images": [{"image_url": "images/7.jpg"}]},
		{"id": 8, "card_images": "nope"},
		{"id": 9, "card_images": [{"image_url": "https://images.example/9.jpg"}]}
	]}`

	cat, err := Parse([]byte(body))
	require.NoError(t, err)
	require.Equal(t, 9, cat.Len())
	assert.Equal(t, 8, cat.InvalidCount())

	for _, item := range cat.Items[:8] {
		assert.False(t, item.Valid(), "item %d should carry a problem", item.Index)
		assert.True(t, stderrors.Is(item.Problem, errors.ErrInvalidItem))
	}

	last := cat.Items[8]
	assert.True(t, last.Valid())
	assert.Equal(t, "9", last.ID)
	assert.Equal(t, 8, last.Index)
}

func TestParseIDRejectsPathSegments(t *testing.T) {
	for _, raw := range []string{`"a/b"`, `"a\\b"`, `".."`, `"."`, `""`, `"   "`, `null`, `true`, `{}`} {
		_, err := parseID([]byte(raw))
		assert.Error(t, err, raw)
	}

	id, err := parseID([]byte(`"  12345 "`))
	require.NoError(t, err)
	assert.Equal(t, "12345", id)

	id, err = parseID([]byte(`-7`))
	require.NoError(t, err)
	assert.Equal(t, "-7", id)
}
