package categories

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stockline/catalog-service/apperr"
	"github.com/stockline/catalog-service/models"
)

// --- In-memory store ---

type fakeCategoryStore struct {
	categories map[uint]models.Category
	nextID     uint
	err        error // when set, every call fails with it
}

func (f *fakeCategoryStore) Save(_ context.Context, category *models.Category) error {
	if f.err != nil {
		return f.err
	}
	if category.ID == 0 {
		f.nextID++
		category.ID = f.nextID
	}
	f.categories[category.ID] = *category
	return nil
}

func (f *fakeCategoryStore) FindByID(_ context.Context, id uint) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	category, ok := f.categories[id]
	if !ok {
		return nil, models.ErrCategoryNotFound
	}
	return &category, nil
}

func (f *fakeCategoryStore) FindByIDForUpdate(ctx context.Context, id uint) (*models.Category, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeCategoryStore) FindAll(_ context.Context) ([]models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCategoryStore) ExistsByID(_ context.Context, id uint) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.categories[id]
	return ok, nil
}

func (f *fakeCategoryStore) ExistsByName(_ context.Context, name string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, c := range f.categories {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategoryStore) DeleteByID(_ context.Context, id uint) error {
	if f.err != nil {
		return f.err
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeCategoryStore) SearchByText(_ context.Context, text string) ([]models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	needle := strings.ToLower(text)
	var out []models.Category
	for _, c := range f.categories {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Description), needle) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeStore struct {
	cats *fakeCategoryStore
}

func newFakeStore(seed ...models.Category) *fakeStore {
	store := &fakeStore{cats: &fakeCategoryStore{categories: map[uint]models.Category{}}}
	for _, c := range seed {
		if c.ID > store.cats.nextID {
			store.cats.nextID = c.ID
		}
		store.cats.categories[c.ID] = c
	}
	return store
}

func (f *fakeStore) Categories() models.CategoryStore { return f.cats }
func (f *fakeStore) Products() models.ProductStore    { return nil }
func (f *fakeStore) Transact(_ context.Context, fn func(models.Store) error) error {
	return fn(f)
}

func newService(store models.Store) *Service {
	return NewService(store, zap.NewNop())
}

// --- Tests ---

func TestServiceCreate(t *testing.T) {
	testCases := []struct {
		name         string
		input        CategoryInput
		seed         []models.Category
		expectedKind apperr.Kind
		check        func(t *testing.T, created *models.Category, store *fakeStore)
	}{
		{
			name:  "assigns id on success",
			input: CategoryInput{Name: "Beverages", Description: "Drinks"},
			check: func(t *testing.T, created *models.Category, store *fakeStore) {
				assert.Equal(t, uint(1), created.ID)
				assert.Equal(t, "Beverages", created.Name)
				assert.Equal(t, "Drinks", created.Description)
			},
		},
		{
			name:         "duplicate name conflicts",
			input:        CategoryInput{Name: "Beverages"},
			seed:         []models.Category{{ID: 1, Name: "Beverages"}},
			expectedKind: apperr.KindConflict,
		},
		{
			name:         "blank name rejected",
			input:        CategoryInput{Name: "   "},
			expectedKind: apperr.KindValidation,
		},
		{
			name:         "overlong name rejected",
			input:        CategoryInput{Name: strings.Repeat("x", 256)},
			expectedKind: apperr.KindValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore(tc.seed...)
			svc := newService(store)

			created, err := svc.Create(context.Background(), tc.input)

			if tc.expectedKind != apperr.KindInternal {
				require.Error(t, err)
				assert.Equal(t, tc.expectedKind, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			tc.check(t, created, store)
		})
	}
}

func TestServiceUpdate(t *testing.T) {
	seed := []models.Category{
		{ID: 1, Name: "Beverages", Description: "Drinks"},
		{ID: 2, Name: "Snacks"},
	}

	testCases := []struct {
		name         string
		id           uint
		input        CategoryInput
		expectedKind apperr.Kind
		check        func(t *testing.T, updated *models.Category)
	}{
		{
			name:  "overwrites name and description",
			id:    1,
			input: CategoryInput{Name: "Drinks", Description: "All beverages"},
			check: func(t *testing.T, updated *models.Category) {
				assert.Equal(t, "Drinks", updated.Name)
				assert.Equal(t, "All beverages", updated.Description)
			},
		},
		{
			name:  "same name does not conflict with itself",
			id:    1,
			input: CategoryInput{Name: "Beverages", Description: "Updated text"},
			check: func(t *testing.T, updated *models.Category) {
				assert.Equal(t, "Updated text", updated.Description)
			},
		},
		{
			name:         "renaming to an existing name conflicts",
			id:           1,
			input:        CategoryInput{Name: "Snacks"},
			expectedKind: apperr.KindConflict,
		},
		{
			name:         "unknown id",
			id:           99,
			input:        CategoryInput{Name: "Anything"},
			expectedKind: apperr.KindNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newService(newFakeStore(seed...))

			updated, err := svc.Update(context.Background(), tc.id, tc.input)

			if tc.expectedKind != apperr.KindInternal {
				require.Error(t, err)
				assert.Equal(t, tc.expectedKind, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			tc.check(t, updated)
		})
	}
}

func TestServiceDelete(t *testing.T) {
	store := newFakeStore(models.Category{ID: 1, Name: "Beverages"})
	svc := newService(store)

	err := svc.Delete(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	require.NoError(t, svc.Delete(context.Background(), 1))
	exists, err := svc.Exists(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestServiceExists(t *testing.T) {
	svc := newService(newFakeStore(models.Category{ID: 3, Name: "Dairy"}))

	exists, err := svc.Exists(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.Exists(context.Background(), 4)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestServiceSearch(t *testing.T) {
	svc := newService(newFakeStore(
		models.Category{ID: 1, Name: "Beverages", Description: "Drinks and juices"},
		models.Category{ID: 2, Name: "Snacks", Description: "Chips"},
	))

	found, err := svc.Search(context.Background(), "JUICE")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Beverages", found[0].Name)
}

func TestServiceListWrapsStorageErrors(t *testing.T) {
	store := newFakeStore()
	store.cats.err = assert.AnError
	svc := newService(store)

	_, err := svc.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
