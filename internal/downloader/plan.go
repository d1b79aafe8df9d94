package downloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"cardfetch/pkg/catalog"
	errs "cardfetch/pkg/errors"
)

// Extension is appended to every asset key regardless of the source format
const Extension = ".jpg"

// Target is where one catalog item's image comes from and where it goes
type Target struct {
	ID        string
	SourceURL string
	// Key is the storage key, <id>.jpg
	Key string
	// Path is Key under the image folder, for display
	Path string
}

// PlanFor derives the download target of item. It fails only when the item
// itself was unusable in the catalog.
func PlanFor(item catalog.Item, imageFolder string) (Target, error) {
	if item.Problem != nil {
		if errs.TypeOf(item.Problem) == errs.ErrorTypeInvalidItem {
			return Target{}, item.Problem
		}
		return Target{}, errs.Wrap(errs.ErrorTypeInvalidItem, item.Problem, fmt.Sprintf("data[%d]", item.Index))
	}
	if item.ID == "" || item.ImageURL == "" {
		return Target{}, errs.New(errs.ErrorTypeInvalidItem, 0, "data[%d] has no id or image url", item.Index)
	}

	key := item.ID + Extension
	return Target{
		ID:        item.ID,
		SourceURL: item.ImageURL,
		Key:       key,
		Path:      joinLocation(imageFolder, key),
	}, nil
}

// DisplayID names an item in reports, falling back to its catalog position
// when it has no usable id
func DisplayID(item catalog.Item) string {
	if item.ID != "" {
		return item.ID
	}
	return fmt.Sprintf("data[%d]", item.Index)
}

func joinLocation(folder, key string) string {
	if strings.Contains(folder, "://") {
		return strings.TrimSuffix(folder, "/") + "/" + key
	}
	return filepath.Join(folder, key)
}
