package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	errs "cardfetch/pkg/errors"
)

// Parse decodes a catalog payload of the form
//
//	{"data": [{"id": 123, "card_images": [{"image_url": "https://..."}]}]}
//
// A payload that is not a JSON object with a "data" array of objects is a
// catalog_malformed error. Problems inside a single object only mark that item.
func Parse(body []byte) (*Catalog, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeCatalogMalformed, err, "response is not a JSON object")
	}

	rawData, ok := envelope["data"]
	if !ok {
		return nil, errs.New(errs.ErrorTypeCatalogMalformed, 0, "response has no data field")
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(rawData, &entries); err != nil || isNull(rawData) {
		return nil, errs.New(errs.ErrorTypeCatalogMalformed, 0, "data is not an array")
	}

	cat := &Catalog{Items: make([]Item, 0, len(entries))}
	for i, raw := range entries {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
			return nil, errs.New(errs.ErrorTypeCatalogMalformed, 0, "data[%d] is not an object", i)
		}
		cat.Items = append(cat.Items, parseItem(i, fields))
	}

	return cat, nil
}

func parseItem(index int, fields map[string]json.RawMessage) Item {
	item := Item{Index: index}

	id, err := parseID(fields["id"])
	if err != nil {
		item.Problem = invalid(index, err)
		return item
	}
	item.ID = id

	imageURL, err := parseImageURL(fields["card_images"])
	if err != nil {
		item.Problem = invalid(index, err)
		return item
	}
	item.ImageURL = imageURL

	return item
}

func invalid(index int, err error) error {
	return errs.Wrap(errs.ErrorTypeInvalidItem, err, fmt.Sprintf("data[%d]", index))
}

// parseID accepts a JSON string or integer. The result is used as a file
// name, so path separators and dot segments are rejected.
func parseID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || isNull(raw) {
		return "", fmt.Errorf("missing id")
	}

	var id string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &id); err != nil {
			return "", fmt.Errorf("malformed id: %w", err)
		}
		id = strings.TrimSpace(id)
	} else {
		if _, err := strconv.ParseInt(string(raw), 10, 64); err != nil {
			return "", fmt.Errorf("id %s is not a string or integer", raw)
		}
		id = string(raw)
	}

	switch {
	case id == "":
		return "", fmt.Errorf("empty id")
	case id == "." || id == "..", strings.ContainsAny(id, `/\`), strings.ContainsRune(id, 0):
		return "", fmt.Errorf("id %q is not usable as a file name", id)
	}
	return id, nil
}

// parseImageURL returns the image_url of the first card_images entry
func parseImageURL(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || isNull(raw) {
		return "", fmt.Errorf("missing card_images")
	}

	var images []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &images); err != nil {
		return "", fmt.Errorf("malformed card_images: %w", err)
	}
	if len(images) == 0 {
		return "", fmt.Errorf("card_images is empty")
	}

	var imageURL string
	if err := json.Unmarshal(images[0]["image_url"], &imageURL); err != nil || imageURL == "" {
		return "", fmt.Errorf("card_images[0] has no image_url")
	}

	u, err := url.Parse(imageURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("image_url %q is not an absolute URL", imageURL)
	}
	return imageURL, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
