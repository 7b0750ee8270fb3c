package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/disintegration/imaging"

	"imagecreator/internal/domain"
)

func TestCollectionLifecycle(t *testing.T) {
	svc, _ := newTestService(t, &stubAdapter{name: "gpt-image"})
	first := seedAsset(t, svc, 64, 64)
	second := seedAsset(t, svc, 64, 64)

	c, err := svc.CreateCollection(context.Background(), "  Spring Campaign  ")
	if err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	if c.Name != "Spring Campaign" {
		t.Fatalf("name = %q, want trimmed", c.Name)
	}

	if _, err := svc.AddToCollection(context.Background(), c.ID, first.ID); err != nil {
		t.Fatalf("AddToCollection: %v", err)
	}
	if _, err := svc.AddToCollection(context.Background(), c.ID, second.ID); err != nil {
		t.Fatalf("AddToCollection: %v", err)
	}
	// Adding the same member twice stays a single entry.
	updated, err := svc.AddToCollection(context.Background(), c.ID, first.ID)
	if err != nil {
		t.Fatalf("AddToCollection repeat: %v", err)
	}
	if len(updated.ImageIDs) != 2 {
		t.Fatalf("image ids = %v, want 2 entries", updated.ImageIDs)
	}

	detail, err := svc.Collection(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Collection: %v", err)
	}
	if detail.ImageCount != 2 || len(detail.Images) != 2 {
		t.Fatalf("detail count = %d images = %d, want 2", detail.ImageCount, len(detail.Images))
	}
	if detail.Images[0].ID != first.ID || detail.Images[1].ID != second.ID {
		t.Fatal("members should come back in membership order")
	}

	trimmed, err := svc.RemoveFromCollection(context.Background(), c.ID, first.ID)
	if err != nil {
		t.Fatalf("RemoveFromCollection: %v", err)
	}
	if len(trimmed.ImageIDs) != 1 || trimmed.ImageIDs[0] != second.ID {
		t.Fatalf("image ids after remove = %v", trimmed.ImageIDs)
	}
}

func TestCollectionValidation(t *testing.T) {
	svc, _ := newTestService(t, &stubAdapter{name: "gpt-image"})

	if _, err := svc.CreateCollection(context.Background(), "   "); !domain.IsValidation(err) {
		t.Fatalf("blank name: err = %v, want validation", err)
	}

	c, err := svc.CreateCollection(context.Background(), "portfolio")
	if err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	if _, err := svc.AddToCollection(context.Background(), c.ID, "no-such-asset"); !errors.Is(err, domain.ErrAssetNotFound) {
		t.Fatalf("unknown asset: err = %v, want ErrAssetNotFound", err)
	}
	if _, err := svc.AddToCollection(context.Background(), "no-such-collection", seedAsset(t, svc, 32, 32).ID); !errors.Is(err, domain.ErrCollectionNotFound) {
		t.Fatalf("unknown collection: err = %v, want ErrCollectionNotFound", err)
	}
}

func TestCollectionsListNewestFirst(t *testing.T) {
	svc, _ := newTestService(t, &stubAdapter{name: "gpt-image"})
	if _, err := svc.CreateCollection(context.Background(), "older"); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	if _, err := svc.CreateCollection(context.Background(), "newer"); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}

	list, err := svc.Collections(context.Background())
	if err != nil {
		t.Fatalf("Collections: %v", err)
	}
	if len(list) != 2 || list[0].Name != "newer" || list[1].Name != "older" {
		t.Fatalf("unexpected listing order: %+v", list)
	}
}

func TestAssetFileAsFormats(t *testing.T) {
	svc, _ := newTestService(t, &stubAdapter{name: "gpt-image"})
	asset := seedAsset(t, svc, 48, 32)

	png, ctype, err := svc.AssetFileAs(context.Background(), asset.ID, "")
	if err != nil {
		t.Fatalf("AssetFileAs png: %v", err)
	}
	if ctype != "image/png" {
		t.Fatalf("content type = %q, want image/png", ctype)
	}
	if rawBytes, err := svc.AssetFile(context.Background(), asset.ID); err != nil || !bytes.Equal(png, rawBytes) {
		t.Fatalf("default format should serve stored bytes (err = %v)", err)
	}

	jpg, ctype, err := svc.AssetFileAs(context.Background(), asset.ID, "jpg")
	if err != nil {
		t.Fatalf("AssetFileAs jpg: %v", err)
	}
	if ctype != "image/jpeg" {
		t.Fatalf("content type = %q, want image/jpeg", ctype)
	}
	img, err := imaging.Decode(bytes.NewReader(jpg))
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	if img.Bounds().Dx() != 48 || img.Bounds().Dy() != 32 {
		t.Fatalf("jpeg dims %dx%d, want 48x32", img.Bounds().Dx(), img.Bounds().Dy())
	}

	if _, _, err := svc.AssetFileAs(context.Background(), asset.ID, "webp"); !domain.IsValidation(err) {
		t.Fatalf("webp: err = %v, want validation", err)
	}
}
