// Package storage is the byte sink for downloaded images.
//
// Assets are stored by key (<id>.jpg) in a gocloud.dev blob bucket. For a local
// folder the bucket is a fileblob rooted at that folder that writes each asset
// to a temp file next to its destination and renames it into place, so an
// interrupted write never leaves a truncated image. Any other bucket URL
// supported by a linked driver (file://, mem://) can be used instead.
//
//	store, err := storage.NewManager(ctx, "./CardImages")
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	err = store.Save(ctx, "46986414.jpg", data)
package storage
