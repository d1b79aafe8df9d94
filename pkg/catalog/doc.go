// Package catalog fetches the card catalog and the image bytes it references.
//
// The catalog endpoint returns a single JSON document whose "data" array lists
// every card. Only the id and the first card_images[].image_url of each entry
// are kept. Entries with unusable fields are returned as Items with a Problem
// rather than failing the whole fetch:
//
//	client := catalog.NewClient(catalog.Options{
//		Endpoint:       catalog.DefaultEndpoint,
//		CatalogTimeout: 2 * time.Minute,
//		AssetTimeout:   30 * time.Second,
//	}, log)
//	defer client.Close()
//
//	cat, err := client.FetchCatalog(ctx)
//	if err != nil {
//		// errors.Is(err, errors.ErrCatalogUnavailable) or ErrCatalogMalformed
//	}
//	for _, item := range cat.Items {
//		if item.Valid() {
//			data, err := client.FetchAsset(ctx, item.ImageURL)
//			...
//		}
//	}
package catalog
