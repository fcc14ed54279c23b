package userbot

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	"github.com/botlistbot/botlistd/internal/biz/domain"
)

// PhotoStore downloads profile photos and keeps the stored copies
// up to date. The single lock serializes every download-compare-replace
// sequence process-wide: concurrent downloads would race on the
// temporary file. Constructed once and injected into the client.
type PhotoStore struct {
	mu sync.Mutex
}

// NewPhotoStore creates a new photo store
func NewPhotoStore() *PhotoStore {
	return &PhotoStore{}
}

// fetch downloads the peer's highest-resolution profile photo and
// replaces the file at path when the content differs. Reports whether
// the stored file changed. A flood wait means "no photo this time",
// never a failed check.
func (s *PhotoStore) fetch(ctx context.Context, api *tg.Client, peer *domain.Peer, path string) (bool, error) {
	res, err := api.PhotosGetUserPhotos(ctx, &tg.PhotosGetUserPhotosRequest{
		UserID: &tg.InputUser{UserID: peer.UserID, AccessHash: peer.AccessHash},
		Limit:  1,
	})
	if err != nil {
		if wait, ok := tgerr.AsFloodWait(err); ok {
			fmt.Printf("[UserBot] Flood wait listing photos (%s), skipping\n", wait)
			return false, nil
		}
		return false, fmt.Errorf("failed to list profile photos: %w", err)
	}

	var photos []tg.PhotoClass
	switch p := res.(type) {
	case *tg.PhotosPhotos:
		photos = p.Photos
	case *tg.PhotosPhotosSlice:
		photos = p.Photos
	}
	if len(photos) == 0 {
		return false, nil
	}
	photo, ok := photos[0].(*tg.Photo)
	if !ok {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := path + ".tmp"
	defer os.Remove(tmp)

	loc := &tg.InputPhotoFileLocation{
		ID:            photo.ID,
		AccessHash:    photo.AccessHash,
		FileReference: photo.FileReference,
		ThumbSize:     largestSizeType(photo.Sizes),
	}
	if _, err := downloader.NewDownloader().Download(api, loc).ToPath(ctx, tmp); err != nil {
		if wait, ok := tgerr.AsFloodWait(err); ok {
			fmt.Printf("[UserBot] Flood wait downloading photo (%s), skipping\n", wait)
			return false, nil
		}
		return false, fmt.Errorf("failed to download profile photo: %w", err)
	}

	fresh, err := os.ReadFile(tmp)
	if err != nil {
		return false, fmt.Errorf("failed to read downloaded photo: %w", err)
	}
	stored, err := os.ReadFile(path)
	if err == nil && bytes.Equal(stored, fresh) {
		return false, nil
	}

	if err := os.WriteFile(path, fresh, 0644); err != nil {
		return false, fmt.Errorf("failed to store profile photo: %w", err)
	}
	return true, nil
}

// largestSizeType picks the thumb type of the biggest available size.
// Telegram orders sizes small to large.
func largestSizeType(sizes []tg.PhotoSizeClass) string {
	t := ""
	for _, s := range sizes {
		switch size := s.(type) {
		case *tg.PhotoSize:
			t = size.Type
		case *tg.PhotoSizeProgressive:
			t = size.Type
		}
	}
	return t
}
