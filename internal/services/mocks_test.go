package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/imged/layout-service/internal/cache"
	"github.com/imged/layout-service/internal/models"
	"github.com/imged/layout-service/internal/repositories"
	"gorm.io/gorm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeLayoutRepo is an in-memory LayoutRepository
type fakeLayoutRepo struct {
	mu      sync.Mutex
	seq     uint
	layouts map[uint]*models.Layout
}

func newFakeLayoutRepo() *fakeLayoutRepo {
	return &fakeLayoutRepo{layouts: make(map[uint]*models.Layout)}
}

func (f *fakeLayoutRepo) Create(ctx context.Context, layout *models.Layout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	layout.ID = f.seq
	layout.CreatedAt = time.Now()
	layout.UpdatedAt = time.Now()
	stored := *layout
	f.layouts[layout.ID] = &stored
	return nil
}

func (f *fakeLayoutRepo) GetByID(ctx context.Context, id uint) (*models.Layout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	layout, ok := f.layouts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *layout
	return &out, nil
}

func (f *fakeLayoutRepo) Update(ctx context.Context, layout *models.Layout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.layouts[layout.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	layout.UpdatedAt = time.Now()
	stored := *layout
	f.layouts[layout.ID] = &stored
	return nil
}

func (f *fakeLayoutRepo) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.layouts, id)
	return nil
}

func (f *fakeLayoutRepo) List(ctx context.Context, filters repositories.LayoutFilters) ([]*models.Layout, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Layout
	for _, layout := range f.layouts {
		if filters.Name != "" && !strings.Contains(layout.Name, filters.Name) {
			continue
		}
		copied := *layout
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		var less bool
		if filters.SortBy == "name" {
			less = out[i].Name < out[j].Name
		} else {
			less = out[i].ID < out[j].ID
		}
		if filters.SortOrder == "asc" {
			return less
		}
		return !less
	})
	total := int64(len(out))
	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			out = nil
		} else {
			out = out[filters.Offset:]
		}
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, total, nil
}

func (f *fakeLayoutRepo) ExistsByName(ctx context.Context, name string, excludeID *uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, layout := range f.layouts {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if layout.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// fakeImageRepo is an in-memory HashedImageRepository
type fakeImageRepo struct {
	mu     sync.Mutex
	seq    uint
	images map[uint]*models.HashedImage
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: make(map[uint]*models.HashedImage)}
}

func (f *fakeImageRepo) Create(ctx context.Context, image *models.HashedImage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	image.ID = f.seq
	if image.Multiplicity == 0 {
		image.Multiplicity = 1
	}
	stored := *image
	f.images[image.ID] = &stored
	return nil
}

func (f *fakeImageRepo) GetByID(ctx context.Context, id uint) (*models.HashedImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	image, ok := f.images[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *image
	return &out, nil
}

func (f *fakeImageRepo) GetByNameAndHash(ctx context.Context, oriName, hash string) (*models.HashedImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, image := range f.images {
		if image.OriName == oriName && image.Hash == hash {
			out := *image
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeImageRepo) GetByStoredName(ctx context.Context, storedName string) (*models.HashedImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, image := range f.images {
		if image.StoredName() == storedName {
			out := *image
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeImageRepo) IncrementMultiplicity(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	image, ok := f.images[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	image.Multiplicity++
	return nil
}

func (f *fakeImageRepo) List(ctx context.Context, limit, offset int) ([]*models.HashedImage, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.HashedImage
	for _, image := range f.images {
		copied := *image
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

// fakeRepo bundles the fakes behind repositories.Repository
type fakeRepo struct {
	layout *fakeLayoutRepo
	image  *fakeImageRepo
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{layout: newFakeLayoutRepo(), image: newFakeImageRepo()}
}

func (f *fakeRepo) Layout() repositories.LayoutRepository     { return f.layout }
func (f *fakeRepo) Image() repositories.HashedImageRepository { return f.image }

// fakeCache is an in-memory CacheService that records hits and misses
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	hits    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = data
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	data, ok := f.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	f.hits++
	return json.Unmarshal(data, dest)
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	return nil
}

func (f *fakeCache) DeletePattern(ctx context.Context, pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range f.entries {
		if strings.HasPrefix(key, prefix) {
			delete(f.entries, key)
		}
	}
	return nil
}
