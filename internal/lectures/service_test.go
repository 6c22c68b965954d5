package lectures

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
)

// memStore implements Store in memory.
type memStore struct {
	mu       sync.Mutex
	lectures map[uuid.UUID]Lecture
	images   map[uuid.UUID][]LectureImage
	seq      int

	imageCreated chan LectureImage // optional observer for upload tests
}

func newMemStore() *memStore {
	return &memStore{
		lectures: make(map[uuid.UUID]Lecture),
		images:   make(map[uuid.UUID][]LectureImage),
	}
}

func (m *memStore) List(ctx context.Context) ([]Lecture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Lecture, 0, len(m.lectures))
	for id, l := range m.lectures {
		l.Images = append([]LectureImage(nil), m.images[id]...)
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memStore) Create(ctx context.Context, lecture *Lecture) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lecture.ID = uuid.New()
	m.seq++
	lecture.CreatedAt = lecture.CreatedAt.AddDate(0, 0, m.seq)
	m.lectures[lecture.ID] = *lecture
	return nil
}

func (m *memStore) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lecture, ok := m.lectures[id]
	if !ok {
		return errors.New("not found")
	}
	if v, ok := fields["city"].(string); ok {
		lecture.City = v
	}
	m.lectures[id] = lecture
	return nil
}

func (m *memStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lectures, id)
	delete(m.images, id)
	return nil
}

func (m *memStore) FindBySlug(ctx context.Context, slug string) (*Lecture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.lectures {
		if strings.TrimSpace(l.Slug) == slug {
			lecture := l
			return &lecture, nil
		}
	}
	return nil, nil
}

func (m *memStore) ImagesFor(ctx context.Context, lectureID uuid.UUID) ([]LectureImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LectureImage(nil), m.images[lectureID]...), nil
}

func (m *memStore) CreateImage(ctx context.Context, image *LectureImage) error {
	m.mu.Lock()
	image.ID = uuid.New()
	m.images[image.LectureID] = append(m.images[image.LectureID], *image)
	observer := m.imageCreated
	m.mu.Unlock()

	if observer != nil {
		observer <- *image
	}
	return nil
}

func (m *memStore) imageCount(lectureID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.images[lectureID])
}

// scriptedBucket runs one scripted step per uploaded object index.
type scriptedBucket struct {
	mu         sync.Mutex
	steps      map[int]func(ctx context.Context) error // non-nil error fails the upload
	stored     []string
	removed    []string
	removeErrs map[string]error
}

func newScriptedBucket() *scriptedBucket {
	return &scriptedBucket{
		steps:      make(map[int]func(ctx context.Context) error),
		removeErrs: make(map[string]error),
	}
}

// indexOf extracts the file index from names of the form <parent>-<i>-<ts><ext>.
func indexOf(name string) int {
	parts := strings.Split(name, "-")
	if len(parts) < 2 {
		return -1
	}
	idx := parts[len(parts)-2]
	switch idx {
	case "0":
		return 0
	case "1":
		return 1
	case "2":
		return 2
	}
	return -1
}

func (b *scriptedBucket) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if step, ok := b.steps[indexOf(name)]; ok {
		if err := step(ctx); err != nil {
			return "", err
		}
	}
	b.mu.Lock()
	b.stored = append(b.stored, name)
	b.mu.Unlock()
	return "http://cdn.local/lecture-images/" + name, nil
}

func (b *scriptedBucket) Remove(ctx context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.removeErrs[name]; err != nil {
		return err
	}
	b.removed = append(b.removed, name)
	return nil
}

func (b *scriptedBucket) storedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.stored)
}

func validInput() CreateInput {
	return CreateInput{
		TitleEN: "Keynote in Singapore",
		Country: "Singapore",
		Topics:  []string{"minimally invasive surgery"},
	}
}

// TestCreate_DerivesSlugAndDefaults verifies slug derivation and optional
// Nepali fields.
func TestCreate_DerivesSlugAndDefaults(t *testing.T) {
	s := NewService(newMemStore(), newScriptedBucket())

	lecture, err := s.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if lecture.Slug != "keynote-in-singapore" {
		t.Errorf("slug = %q", lecture.Slug)
	}
	if lecture.TitleNP != "" {
		t.Errorf("title_np not defaulted to empty")
	}
}

// TestCreate_Validation verifies the required-field checks.
func TestCreate_Validation(t *testing.T) {
	s := NewService(newMemStore(), newScriptedBucket())

	in := validInput()
	in.TitleEN = ""
	if _, err := s.Create(context.Background(), in); !errors.Is(err, ErrValidation) {
		t.Errorf("missing title: err = %v, want ErrValidation", err)
	}

	in = validInput()
	in.Country = "  "
	if _, err := s.Create(context.Background(), in); !errors.Is(err, ErrValidation) {
		t.Errorf("missing country: err = %v, want ErrValidation", err)
	}
}

// TestGetBySlug_Trimmed verifies whitespace-tolerant slug lookup and the
// non-error miss.
func TestGetBySlug_Trimmed(t *testing.T) {
	store := newMemStore()
	s := NewService(store, newScriptedBucket())

	lecture, err := s.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Simulate a stored slug with a trailing space
	store.mu.Lock()
	l := store.lectures[lecture.ID]
	l.Slug = l.Slug + " "
	store.lectures[lecture.ID] = l
	store.mu.Unlock()

	got, err := s.GetBySlug(context.Background(), "keynote-in-singapore")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got == nil {
		t.Fatal("lecture not found despite trimmed match")
	}

	missing, err := s.GetBySlug(context.Background(), "never-happened")
	if err != nil {
		t.Fatalf("GetBySlug miss: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing slug")
	}
}

// TestUploadImages_AllSucceed verifies the happy path: one row per file, in
// display order, each referencing its public URL.
func TestUploadImages_AllSucceed(t *testing.T) {
	store := newMemStore()
	bucket := newScriptedBucket()
	s := NewService(store, bucket)

	lecture, err := s.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	files := []File{
		{Name: "a.jpg", AltEN: "stage", Reader: strings.NewReader("a")},
		{Name: "b.jpg", Reader: strings.NewReader("b")},
		{Name: "c.png", Reader: strings.NewReader("c")},
	}
	images, err := s.UploadImages(context.Background(), lecture.ID, files)
	if err != nil {
		t.Fatalf("UploadImages: %v", err)
	}

	if len(images) != 3 {
		t.Fatalf("got %d images, want 3", len(images))
	}
	for i, img := range images {
		if img.DisplayOrder != i {
			t.Errorf("image %d has display_order %d", i, img.DisplayOrder)
		}
		if !strings.HasPrefix(img.URL, "http://cdn.local/lecture-images/") {
			t.Errorf("image %d URL = %q", i, img.URL)
		}
	}
	if images[0].AltEN != "stage" {
		t.Errorf("alt text lost: %+v", images[0])
	}
	if store.imageCount(lecture.ID) != 3 {
		t.Errorf("store has %d rows, want 3", store.imageCount(lecture.ID))
	}
}

// TestUploadImages_MidBatchFailure verifies partial-upload visibility: with
// three files where the 2nd fails, exactly the 1st row exists afterwards, the
// 3rd is never stored, and the caller receives the failure.
func TestUploadImages_MidBatchFailure(t *testing.T) {
	store := newMemStore()
	bucket := newScriptedBucket()
	s := NewService(store, bucket)

	lecture, err := s.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	firstRowDone := make(chan LectureImage, 1)
	store.mu.Lock()
	store.imageCreated = firstRowDone
	store.mu.Unlock()

	// 1st: succeeds. 2nd: fails once the 1st row is committed. 3rd: blocks
	// until the batch is canceled, so its result is discarded.
	bucket.steps[1] = func(ctx context.Context) error {
		select {
		case <-firstRowDone:
			return errors.New("storage rejected object")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	bucket.steps[2] = func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}

	files := []File{
		{Name: "a.jpg", Reader: strings.NewReader("a")},
		{Name: "b.jpg", Reader: strings.NewReader("b")},
		{Name: "c.jpg", Reader: strings.NewReader("c")},
	}
	if _, err := s.UploadImages(context.Background(), lecture.ID, files); err == nil {
		t.Fatal("UploadImages succeeded, want failure")
	}

	if got := store.imageCount(lecture.ID); got != 1 {
		t.Errorf("image rows = %d, want exactly 1", got)
	}
	if got := bucket.storedCount(); got != 1 {
		t.Errorf("stored objects = %d, want 1 (the already-uploaded file stays, nothing rolled back)", got)
	}
}

// TestDelete_BestEffortStorageCleanup verifies the database delete succeeds
// even when removing a stored object fails, and that the other objects are
// still removed.
func TestDelete_BestEffortStorageCleanup(t *testing.T) {
	store := newMemStore()
	bucket := newScriptedBucket()
	s := NewService(store, bucket)

	lecture, err := s.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	files := []File{
		{Name: "a.jpg", Reader: strings.NewReader("a")},
		{Name: "b.jpg", Reader: strings.NewReader("b")},
	}
	images, err := s.UploadImages(context.Background(), lecture.ID, files)
	if err != nil {
		t.Fatalf("UploadImages: %v", err)
	}

	// First object refuses to delete
	name0 := strings.TrimPrefix(images[0].URL, "http://cdn.local/lecture-images/")
	bucket.mu.Lock()
	bucket.removeErrs[name0] = errors.New("storage unavailable")
	bucket.mu.Unlock()

	if err := s.Delete(context.Background(), lecture.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	lectures, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(lectures) != 0 {
		t.Errorf("lecture still listed after delete")
	}

	bucket.mu.Lock()
	removed := len(bucket.removed)
	bucket.mu.Unlock()
	if removed != 1 {
		t.Errorf("removed %d objects, want 1 (the other removal failed best-effort)", removed)
	}
}

// TestUpdate_RefreshAfterMutate verifies the post-mutation list reflects the
// partial update.
func TestUpdate_RefreshAfterMutate(t *testing.T) {
	store := newMemStore()
	s := NewService(store, newScriptedBucket())

	lecture, err := s.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.Update(context.Background(), lecture.ID, map[string]any{"city": "Singapore City"}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	lectures, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if lectures[0].City != "Singapore City" {
		t.Errorf("update not visible in refreshed list: %+v", lectures[0])
	}
}
