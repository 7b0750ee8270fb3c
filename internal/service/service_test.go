package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"imagecreator/internal/domain"
	"imagecreator/internal/infra"
	imgprov "imagecreator/internal/providers/image"
	"imagecreator/internal/providers/prompt"
	"imagecreator/internal/storage"
)

type memRepo struct {
	mu     sync.Mutex
	assets []domain.ImageAsset
}

func (m *memRepo) Append(ctx context.Context, a *domain.ImageAsset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets = append(m.assets, *a)
	return nil
}

func (m *memRepo) All(ctx context.Context) ([]domain.ImageAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ImageAsset, len(m.assets))
	copy(out, m.assets)
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id string) (*domain.ImageAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.assets {
		if m.assets[i].ID == id {
			a := m.assets[i]
			return &a, nil
		}
	}
	return nil, domain.ErrAssetNotFound
}

func (m *memRepo) Update(ctx context.Context, id string, mutate func(*domain.ImageAsset) error) (*domain.ImageAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.assets {
		if m.assets[i].ID == id {
			if err := mutate(&m.assets[i]); err != nil {
				return nil, err
			}
			a := m.assets[i]
			return &a, nil
		}
	}
	return nil, domain.ErrAssetNotFound
}

type editCall struct {
	hasMask bool
}

type stubAdapter struct {
	name     string
	synthErr error
	editErr  error
	maskErr  error

	mu         sync.Mutex
	synthCalls int
	editCalls  []editCall
}

func (a *stubAdapter) Name() string { return a.name }

func (a *stubAdapter) Synthesize(ctx context.Context, p, size string) ([]byte, error) {
	a.mu.Lock()
	a.synthCalls++
	a.mu.Unlock()
	if a.synthErr != nil {
		return nil, a.synthErr
	}
	return testPNG(640, 640), nil
}

func (a *stubAdapter) Edit(ctx context.Context, src, mask []byte, p, size string) ([]byte, error) {
	a.mu.Lock()
	a.editCalls = append(a.editCalls, editCall{hasMask: len(mask) > 0})
	a.mu.Unlock()
	if len(mask) > 0 {
		if a.maskErr != nil {
			return nil, a.maskErr
		}
	} else if a.editErr != nil {
		return nil, a.editErr
	}
	return testPNG(640, 640), nil
}

func testPNG(w, h int) []byte {
	var buf bytes.Buffer
	img := imaging.New(w, h, color.NRGBA{R: 40, G: 80, B: 120, A: 255})
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func newTestService(t *testing.T, adapters ...imgprov.Adapter) (*Service, *memRepo) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	l := infra.Logger(zerolog.New(io.Discard))
	mem := &memRepo{}
	svc := New(Options{
		Logger:   &l,
		Repo:     mem,
		Store:    store,
		Adapters: adapters,
		Enricher: prompt.NewStaticEnricher(),
		Merger:   prompt.NewStaticEnricher(),
	})
	return svc, mem
}

func seedAsset(t *testing.T, svc *Service, w, h int) *domain.ImageAsset {
	t.Helper()
	asset, err := svc.saveRaw(context.Background(), testPNG(w, h), w, h, domain.ImageAsset{
		Prompt: "a lighthouse",
		Kind:   domain.OpOriginal,
	})
	if err != nil {
		t.Fatalf("seed asset: %v", err)
	}
	return asset
}

func TestGenerateNormalizesToRequestedSize(t *testing.T) {
	svc, _ := newTestService(t, &stubAdapter{name: "gpt-image"})
	assets, _, err := svc.Generate(context.Background(), GenerateRequest{Prompt: "a cat", Size: "1024x1536"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("assets = %d, want 1", len(assets))
	}
	a := assets[0]
	if a.Width != 1024 || a.Height != 1536 {
		t.Fatalf("asset dims %dx%d, want 1024x1536", a.Width, a.Height)
	}
	data, err := svc.AssetFile(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("AssetFile: %v", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode stored file: %v", err)
	}
	if img.Bounds().Dx() != 1024 || img.Bounds().Dy() != 1536 {
		t.Fatalf("stored file %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestGenerateFallsBackToNextAdapter(t *testing.T) {
	broken := &stubAdapter{name: "gpt-image", synthErr: errors.New("rate limited")}
	working := &stubAdapter{name: "gemini-image"}
	svc, _ := newTestService(t, broken, working)

	assets, _, err := svc.Generate(context.Background(), GenerateRequest{Prompt: "a cat"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if assets[0].Model != "gemini-image" {
		t.Fatalf("model = %q, want gemini-image", assets[0].Model)
	}
	if broken.synthCalls != 1 {
		t.Fatalf("broken adapter calls = %d, want 1", broken.synthCalls)
	}
}

func TestGenerateValidation(t *testing.T) {
	svc, _ := newTestService(t, &stubAdapter{name: "gpt-image"})
	ctx := context.Background()

	if _, _, err := svc.Generate(ctx, GenerateRequest{Prompt: "  "}); !domain.IsValidation(err) {
		t.Fatalf("empty prompt: %v", err)
	}
	if _, _, err := svc.Generate(ctx, GenerateRequest{Prompt: "x", Size: "640x480"}); !domain.IsValidation(err) {
		t.Fatalf("bad size: %v", err)
	}
	if _, _, err := svc.Generate(ctx, GenerateRequest{Prompt: "x", Count: 9}); !domain.IsValidation(err) {
		t.Fatalf("bad count: %v", err)
	}
}

func TestGenerateGroupsMultipleImages(t *testing.T) {
	svc, _ := newTestService(t, &stubAdapter{name: "gpt-image"})
	assets, _, err := svc.Generate(context.Background(), GenerateRequest{Prompt: "a cat", Count: 3})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(assets) != 3 {
		t.Fatalf("assets = %d, want 3", len(assets))
	}
	if assets[0].GroupID == "" {
		t.Fatal("multi-image generation should set a group id")
	}
	for _, a := range assets[1:] {
		if a.GroupID != assets[0].GroupID {
			t.Fatal("assets should share the group id")
		}
	}
}

// blockingAdapter holds every Synthesize call briefly and records how many
// ran at the same time.
type blockingAdapter struct {
	name   string
	active int32
	peak   int32
}

func (a *blockingAdapter) Name() string { return a.name }

func (a *blockingAdapter) Synthesize(ctx context.Context, p, size string) ([]byte, error) {
	n := atomic.AddInt32(&a.active, 1)
	for {
		old := atomic.LoadInt32(&a.peak)
		if n <= old || atomic.CompareAndSwapInt32(&a.peak, old, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	atomic.AddInt32(&a.active, -1)
	return testPNG(640, 640), nil
}

func (a *blockingAdapter) Edit(ctx context.Context, src, mask []byte, p, size string) ([]byte, error) {
	return testPNG(640, 640), nil
}

// everyOtherAdapter fails each even-numbered Synthesize call.
type everyOtherAdapter struct {
	name  string
	calls int32
}

func (a *everyOtherAdapter) Name() string { return a.name }

func (a *everyOtherAdapter) Synthesize(ctx context.Context, p, size string) ([]byte, error) {
	if atomic.AddInt32(&a.calls, 1)%2 == 0 {
		return nil, errors.New("capacity exhausted")
	}
	return testPNG(640, 640), nil
}

func (a *everyOtherAdapter) Edit(ctx context.Context, src, mask []byte, p, size string) ([]byte, error) {
	return testPNG(640, 640), nil
}

func TestGenerateRunsVariantsConcurrently(t *testing.T) {
	adapter := &blockingAdapter{name: "gpt-image"}
	svc, _ := newTestService(t, adapter)

	assets, failures, err := svc.Generate(context.Background(), GenerateRequest{Prompt: "a cat", Count: 4})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(assets) != 4 || len(failures) != 0 {
		t.Fatalf("assets=%d failures=%d", len(assets), len(failures))
	}
	if peak := atomic.LoadInt32(&adapter.peak); peak < 2 {
		t.Fatalf("peak concurrent synthesize calls = %d, want >= 2", peak)
	}
}

func TestGenerateReportsFailedVariants(t *testing.T) {
	svc, _ := newTestService(t, &everyOtherAdapter{name: "gpt-image"})

	assets, failures, err := svc.Generate(context.Background(), GenerateRequest{Prompt: "a cat", Count: 4})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("assets = %d, want 2", len(assets))
	}
	if len(failures) != 2 {
		t.Fatalf("failures = %d, want 2", len(failures))
	}

	broken := &stubAdapter{name: "gpt-image", synthErr: errors.New("down")}
	svc2, _ := newTestService(t, broken)
	if _, failures, err := svc2.Generate(context.Background(), GenerateRequest{Prompt: "a cat", Count: 2}); err == nil || len(failures) != 2 {
		t.Fatalf("all-fail run should error with per-variant messages, got err=%v failures=%d", err, len(failures))
	}
}

func TestCompareReportsPerModelFailures(t *testing.T) {
	broken := &stubAdapter{name: "gpt-image", synthErr: errors.New("quota exceeded")}
	working := &stubAdapter{name: "gemini-image"}
	svc, _ := newTestService(t, broken, working)

	results, err := svc.Compare(context.Background(), "a cat", "", "")
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Error == "" || results[0].Asset != nil {
		t.Fatalf("broken model should report its error: %+v", results[0])
	}
	if results[1].Asset == nil {
		t.Fatalf("working model should carry an asset: %+v", results[1])
	}
}

func TestRefineCreatesChildWithMergedPrompt(t *testing.T) {
	svc, _ := newTestService(t, &stubAdapter{name: "gpt-image"})
	parent := seedAsset(t, svc, 1024, 1024)

	child, err := svc.Refine(context.Background(), parent.ID, "make it night time")
	if err != nil {
		t.Fatalf("Refine: %v", err)
	}
	if child.ParentID != parent.ID {
		t.Fatalf("parent id = %q", child.ParentID)
	}
	if child.Kind != domain.OpRefine {
		t.Fatalf("kind = %s", child.Kind)
	}
	if child.EnhancedPrompt != "a lighthouse, make it night time" {
		t.Fatalf("merged prompt = %q", child.EnhancedPrompt)
	}
	meta := child.Metadata.Refine
	if meta == nil || meta.Instruction != "make it night time" {
		t.Fatalf("refine metadata = %+v", meta)
	}
}

func TestInpaintChainFallsThroughStages(t *testing.T) {
	a := &stubAdapter{
		name:    "gpt-image",
		maskErr: errors.New("mask unsupported"),
		editErr: errors.New("edit unsupported"),
	}
	svc, _ := newTestService(t, a)
	parent := seedAsset(t, svc, 1024, 1024)

	mask := testPNG(1024, 1024)
	child, err := svc.Inpaint(context.Background(), parent.ID, mask, "replace the sky")
	if err != nil {
		t.Fatalf("Inpaint: %v", err)
	}
	if child.Kind != domain.OpInpaint {
		t.Fatalf("kind = %s", child.Kind)
	}
	// Masked attempt, then maskless attempt, then regeneration.
	if len(a.editCalls) != 2 {
		t.Fatalf("edit calls = %d, want 2", len(a.editCalls))
	}
	if !a.editCalls[0].hasMask || a.editCalls[1].hasMask {
		t.Fatalf("unexpected edit sequence: %+v", a.editCalls)
	}
	if a.synthCalls != 1 {
		t.Fatalf("regenerate calls = %d, want 1", a.synthCalls)
	}
}

func TestUpscale(t *testing.T) {
	svc, _ := newTestService(t, &stubAdapter{name: "gpt-image"})
	parent := seedAsset(t, svc, 200, 100)

	child, err := svc.Upscale(context.Background(), parent.ID, 2)
	if err != nil {
		t.Fatalf("Upscale: %v", err)
	}
	if child.Width != 400 || child.Height != 200 {
		t.Fatalf("dims %dx%d, want 400x200", child.Width, child.Height)
	}
	if _, err := svc.Upscale(context.Background(), parent.ID, 3); !domain.IsValidation(err) {
		t.Fatalf("factor 3 should be rejected: %v", err)
	}
}

func TestWatermarkValidation(t *testing.T) {
	svc, _ := newTestService(t, &stubAdapter{name: "gpt-image"})
	parent := seedAsset(t, svc, 256, 256)
	ctx := context.Background()

	if _, err := svc.Watermark(ctx, parent.ID, WatermarkRequest{Text: "", Position: "center", Opacity: 0.5, FontSize: 48}); !domain.IsValidation(err) {
		t.Fatalf("empty text: %v", err)
	}
	if _, err := svc.Watermark(ctx, parent.ID, WatermarkRequest{Text: "x", Position: "middle", Opacity: 0.5, FontSize: 48}); !domain.IsValidation(err) {
		t.Fatalf("bad position: %v", err)
	}
	if _, err := svc.Watermark(ctx, parent.ID, WatermarkRequest{Text: "x", Position: "center", Opacity: 0.05, FontSize: 48}); !domain.IsValidation(err) {
		t.Fatalf("bad opacity: %v", err)
	}

	child, err := svc.Watermark(ctx, parent.ID, WatermarkRequest{Text: "demo", Position: "center", Opacity: 0.3, FontSize: 48})
	if err != nil {
		t.Fatalf("Watermark: %v", err)
	}
	if child.Kind != domain.OpWatermark {
		t.Fatalf("kind = %s", child.Kind)
	}
}

func TestAnimateAttachesExportToAsset(t *testing.T) {
	svc, _ := newTestService(t, &stubAdapter{name: "gpt-image"})
	asset := seedAsset(t, svc, 256, 256)

	updated, err := svc.Animate(context.Background(), asset.ID, AnimateRequest{Effect: "zoom", Duration: 1.0, FPS: 10})
	if err != nil {
		t.Fatalf("Animate: %v", err)
	}
	anim := updated.Metadata.Animation
	if anim == nil || anim.Effect != "zoom" {
		t.Fatalf("animation metadata = %+v", anim)
	}

	gif, err := svc.AnimationFile(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("AnimationFile: %v", err)
	}
	if len(gif) == 0 {
		t.Fatal("gif file is empty")
	}
}

func TestToggleFavorite(t *testing.T) {
	svc, _ := newTestService(t, &stubAdapter{name: "gpt-image"})
	asset := seedAsset(t, svc, 64, 64)

	on, err := svc.ToggleFavorite(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	if !on.Favorited {
		t.Fatal("first toggle should favorite")
	}
	off, err := svc.ToggleFavorite(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	if off.Favorited {
		t.Fatal("second toggle should unfavorite")
	}

	favs, err := svc.Favorites(context.Background())
	if err != nil {
		t.Fatalf("Favorites: %v", err)
	}
	if len(favs) != 0 {
		t.Fatalf("favorites = %d, want 0", len(favs))
	}
}

func TestSourceFileMissing(t *testing.T) {
	svc, mem := newTestService(t, &stubAdapter{name: "gpt-image"})
	mem.assets = append(mem.assets, domain.ImageAsset{
		ID:        "ghost",
		Filename:  "images/ghost.png",
		Width:     64,
		Height:    64,
		CreatedAt: time.Now().UTC(),
	})

	if _, err := svc.Upscale(context.Background(), "ghost", 2); !errors.Is(err, domain.ErrSourceFileMissing) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBatchGenerateCollectsFailures(t *testing.T) {
	flaky := &flakyAdapter{name: "gpt-image", failOn: map[string]bool{"bad one": true, "bad two": true}}
	svc, _ := newTestService(t, flaky)

	assets, failures, err := svc.BatchGenerate(context.Background(), BatchRequest{
		Prompts: []string{"good one", "bad one", "good two", "bad two", "good three"},
	})
	if err != nil {
		t.Fatalf("BatchGenerate: %v", err)
	}
	if len(assets) != 3 {
		t.Fatalf("assets = %d, want 3", len(assets))
	}
	if len(failures) != 2 {
		t.Fatalf("failures = %d, want 2", len(failures))
	}
	for _, a := range assets {
		if a.Kind != domain.OpBatchItem {
			t.Fatalf("kind = %s", a.Kind)
		}
		if a.GroupID == "" {
			t.Fatal("batch assets should share a group")
		}
	}
}

type flakyAdapter struct {
	name   string
	failOn map[string]bool
}

func (a *flakyAdapter) Name() string { return a.name }

func (a *flakyAdapter) Synthesize(ctx context.Context, p, size string) ([]byte, error) {
	if a.failOn[p] {
		return nil, errors.New("refused")
	}
	return testPNG(512, 512), nil
}

func (a *flakyAdapter) Edit(ctx context.Context, src, mask []byte, p, size string) ([]byte, error) {
	return testPNG(512, 512), nil
}

func TestPromptHistoryRecordsGenerations(t *testing.T) {
	svc, _ := newTestService(t, &stubAdapter{name: "gpt-image"})
	if _, _, err := svc.Generate(context.Background(), GenerateRequest{Prompt: "a fox"}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	entries := svc.PromptHistory(context.Background())
	if len(entries) != 1 || entries[0].Prompt != "a fox" {
		t.Fatalf("history = %+v", entries)
	}
}


func TestValidateBatchPromptsCap(t *testing.T) {
	prompts := make([]string, maxBatchPrompts+1)
	for i := range prompts {
		prompts[i] = "prompt"
	}
	_, err := validateBatchPrompts(prompts)
	if !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation", err)
	}
	want := fmt.Sprintf("prompts: at most %d prompts per batch", maxBatchPrompts)
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
}
