package product

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	domproduct "example.com/catalog-admin/internal/domain/product"
	domuser "example.com/catalog-admin/internal/domain/user"
)

type mockProductRepository struct {
	products  map[int64]*domproduct.Product
	nextID    int64
	calls     int
	createErr error
	listErr   error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: make(map[int64]*domproduct.Product),
		nextID:   1,
	}
}

func (m *mockProductRepository) Create(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	m.calls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	p.ID = m.nextID
	m.nextID++
	cloned := *p
	m.products[p.ID] = &cloned
	return p, nil
}

func (m *mockProductRepository) Update(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	m.calls++
	if _, ok := m.products[p.ID]; !ok {
		return nil, domproduct.ErrProductNotFound
	}
	cloned := *p
	m.products[p.ID] = &cloned
	return p, nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id int64) error {
	m.calls++
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	if p, ok := m.products[id]; ok {
		cloned := *p
		return &cloned, nil
	}
	return nil, domproduct.ErrProductNotFound
}

func (m *mockProductRepository) List(ctx context.Context, offset, limit int) ([]*domproduct.Product, int64, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	ids := make([]int64, 0, len(m.products))
	for id := range m.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var result []*domproduct.Product
	for i := offset; i < len(ids) && i < offset+limit; i++ {
		cloned := *m.products[ids[i]]
		result = append(result, &cloned)
	}
	return result, int64(len(ids)), nil
}

func (m *mockProductRepository) seed(t *testing.T, n int) []*domproduct.Product {
	t.Helper()
	created := make([]*domproduct.Product, 0, n)
	for i := 1; i <= n; i++ {
		p, err := m.Create(context.Background(), &domproduct.Product{
			Name:  fmt.Sprintf("Product %d", i),
			Price: float64(i * 10),
		})
		require.NoError(t, err)
		created = append(created, p)
	}
	m.calls = 0
	return created
}

var (
	anonymous = domuser.Anonymous
	member    = domuser.Actor{UserID: 1, Name: "User One", Tier: domuser.TierUser}
	admin     = domuser.Actor{UserID: 2, Name: "Admin", Tier: domuser.TierAdmin}
)

func TestList_EmptyStoreReturnsEmptyPage(t *testing.T) {
	svc := NewService(newMockProductRepository())

	page, err := svc.List(context.Background(), member, 1)

	require.NoError(t, err)
	require.True(t, page.IsEmpty())
	require.Equal(t, int64(0), page.Total)
	require.Equal(t, 1, page.LastPage)
}

func TestList_FirstPageExcludesEleventhProduct(t *testing.T) {
	repo := newMockProductRepository()
	created := repo.seed(t, 11)
	svc := NewService(repo)

	page, err := svc.List(context.Background(), member, 1)

	require.NoError(t, err)
	require.False(t, page.IsEmpty())
	require.Len(t, page.Items, PageSize)
	require.Equal(t, int64(11), page.Total)
	require.Equal(t, 2, page.LastPage)
	require.True(t, page.HasNext())
	require.False(t, page.HasPrevious())
	for _, p := range page.Items {
		require.NotEqual(t, created[10].ID, p.ID, "11th product must not be on the first page")
	}
	require.Equal(t, created[0].ID, page.Items[0].ID, "pages are ordered by id")
}

func TestList_LastPageHoldsRemainder(t *testing.T) {
	repo := newMockProductRepository()
	created := repo.seed(t, 11)
	svc := NewService(repo)

	page, err := svc.List(context.Background(), admin, 2)

	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, created[10].ID, page.Items[0].ID)
	require.False(t, page.HasNext())
	require.True(t, page.HasPrevious())
}

func TestList_PageBelowOneIsFirstPage(t *testing.T) {
	repo := newMockProductRepository()
	repo.seed(t, 3)
	svc := NewService(repo)

	for _, n := range []int{0, -1, -100} {
		page, err := svc.List(context.Background(), member, n)
		require.NoError(t, err)
		require.Equal(t, 1, page.Number)
		require.Len(t, page.Items, 3)
	}
}

func TestList_PageBeyondLastIsEmpty(t *testing.T) {
	repo := newMockProductRepository()
	repo.seed(t, 3)
	svc := NewService(repo)

	page, err := svc.List(context.Background(), member, 5)

	require.NoError(t, err)
	require.True(t, page.IsEmpty())
	require.Equal(t, int64(3), page.Total)
}

func TestList_RepositoryErrorIsReturned(t *testing.T) {
	repo := newMockProductRepository()
	repo.listErr = errors.New("db down")
	svc := NewService(repo)

	page, err := svc.List(context.Background(), member, 1)

	require.EqualError(t, err, "db down")
	require.Nil(t, page)
}

func TestAuthorization_Matrix(t *testing.T) {
	repo := newMockProductRepository()
	existing := repo.seed(t, 1)[0]
	svc := NewService(repo)
	ctx := context.Background()
	valid := domproduct.Input{Name: "Test Product", Price: "324"}

	ops := map[string]func(a domuser.Actor) error{
		"list": func(a domuser.Actor) error {
			_, err := svc.List(ctx, a, 1)
			return err
		},
		"viewCreateForm": func(a domuser.Actor) error {
			return svc.AuthorizeManage(a)
		},
		"create": func(a domuser.Actor) error {
			_, err := svc.Create(ctx, a, valid)
			return err
		},
		"viewEditForm": func(a domuser.Actor) error {
			_, err := svc.GetForEdit(ctx, a, existing.ID)
			return err
		},
		"update": func(a domuser.Actor) error {
			_, err := svc.Update(ctx, a, existing.ID, valid)
			return err
		},
		"delete": func(a domuser.Actor) error {
			return svc.Delete(ctx, a, 999)
		},
	}

	tests := []struct {
		actor   domuser.Actor
		op      string
		wantErr error
	}{
		{anonymous, "list", domuser.ErrUnauthenticated},
		{member, "list", nil},
		{admin, "list", nil},
	}
	for _, op := range []string{"viewCreateForm", "create", "viewEditForm", "update", "delete"} {
		tests = append(tests,
			struct {
				actor   domuser.Actor
				op      string
				wantErr error
			}{anonymous, op, domuser.ErrUnauthenticated},
			struct {
				actor   domuser.Actor
				op      string
				wantErr error
			}{member, op, domuser.ErrForbidden},
			struct {
				actor   domuser.Actor
				op      string
				wantErr error
			}{admin, op, nil},
		)
	}

	for _, tt := range tests {
		t.Run(tt.actor.Tier.String()+"/"+tt.op, func(t *testing.T) {
			err := ops[tt.op](tt.actor)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDenied_NeverTouchesRepository(t *testing.T) {
	repo := newMockProductRepository()
	existing := repo.seed(t, 1)[0]
	svc := NewService(repo)
	ctx := context.Background()

	for _, actor := range []domuser.Actor{anonymous, member} {
		_, _ = svc.Create(ctx, actor, domproduct.Input{Name: "X", Price: "1"})
		_, _ = svc.Update(ctx, actor, existing.ID, domproduct.Input{Name: "X", Price: "1"})
		_ = svc.Delete(ctx, actor, existing.ID)
	}

	require.Zero(t, repo.calls)
	require.Len(t, repo.products, 1)
	require.Equal(t, "Product 1", repo.products[existing.ID].Name)
}

func TestCreate_ThenGetReturnsSameFields(t *testing.T) {
	tests := []struct {
		name  string
		input domproduct.Input
		price float64
	}{
		{name: "whole price", input: domproduct.Input{Name: "Test Product", Price: "324"}, price: 324},
		{name: "zero price", input: domproduct.Input{Name: "Free sample", Price: "0"}, price: 0},
		{name: "cents", input: domproduct.Input{Name: "Cheap", Price: "0.99"}, price: 0.99},
		{name: "max length name", input: domproduct.Input{Name: strings.Repeat("a", 255), Price: "1"}, price: 1},
		{name: "multibyte name at limit", input: domproduct.Input{Name: strings.Repeat("é", 255), Price: "5"}, price: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockProductRepository()
			svc := NewService(repo)

			created, err := svc.Create(context.Background(), admin, tt.input)
			require.NoError(t, err)
			require.NotZero(t, created.ID)

			got, err := svc.Get(context.Background(), member, created.ID)
			require.NoError(t, err)
			require.Equal(t, tt.input.Name, got.Name)
			require.Equal(t, tt.price, got.Price)
			require.Len(t, repo.products, 1)
		})
	}
}

func TestCreate_TrimsInput(t *testing.T) {
	svc := NewService(newMockProductRepository())

	created, err := svc.Create(context.Background(), admin, domproduct.Input{Name: "  Lamp  ", Price: " 12.5 "})

	require.NoError(t, err)
	require.Equal(t, "Lamp", created.Name)
	require.Equal(t, 12.5, created.Price)
}

func TestCreate_ValidationFailures(t *testing.T) {
	tests := []struct {
		name       string
		input      domproduct.Input
		wantFields map[string]string
	}{
		{
			name:  "both empty",
			input: domproduct.Input{},
			wantFields: map[string]string{
				"name":  "The name field is required.",
				"price": "The price field is required.",
			},
		},
		{
			name:  "whitespace only",
			input: domproduct.Input{Name: " \t", Price: "  "},
			wantFields: map[string]string{
				"name":  "The name field is required.",
				"price": "The price field is required.",
			},
		},
		{
			name:       "name too long",
			input:      domproduct.Input{Name: strings.Repeat("a", 256), Price: "1"},
			wantFields: map[string]string{"name": "The name field must not be greater than 255 characters."},
		},
		{
			name:       "price not numeric",
			input:      domproduct.Input{Name: "Lamp", Price: "abc"},
			wantFields: map[string]string{"price": "The price field must be a number."},
		},
		{
			name:       "negative price",
			input:      domproduct.Input{Name: "Lamp", Price: "-0.01"},
			wantFields: map[string]string{"price": "The price field must be at least 0."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockProductRepository()
			svc := NewService(repo)

			created, err := svc.Create(context.Background(), admin, tt.input)

			require.Nil(t, created)
			require.ErrorIs(t, err, domproduct.ErrInvalidInput)
			var verr *domproduct.ValidationError
			require.True(t, errors.As(err, &verr))
			require.Equal(t, tt.wantFields, verr.Fields)
			require.Zero(t, repo.calls, "store must not be touched")
			require.Empty(t, repo.products)
		})
	}
}

func TestCreate_RepositoryError(t *testing.T) {
	repo := newMockProductRepository()
	repo.createErr = errors.New("insert failed")
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), admin, domproduct.Input{Name: "Lamp", Price: "1"})

	require.EqualError(t, err, "insert failed")
	require.Nil(t, created)
}

func TestGetForEdit_NotFound(t *testing.T) {
	svc := NewService(newMockProductRepository())

	p, err := svc.GetForEdit(context.Background(), admin, 999)

	require.ErrorIs(t, err, domproduct.ErrProductNotFound)
	require.Nil(t, p)
}

func TestUpdate_OverwritesFieldsKeepsID(t *testing.T) {
	repo := newMockProductRepository()
	existing := repo.seed(t, 2)[0]
	svc := NewService(repo)

	updated, err := svc.Update(context.Background(), admin, existing.ID, domproduct.Input{Name: "Test Product", Price: "324"})

	require.NoError(t, err)
	require.Equal(t, existing.ID, updated.ID)
	stored := repo.products[existing.ID]
	require.Equal(t, "Test Product", stored.Name)
	require.Equal(t, 324.0, stored.Price)
	require.Len(t, repo.products, 2)
	require.Equal(t, "Product 2", repo.products[existing.ID+1].Name, "other records untouched")
}

func TestUpdate_InvalidInputDoesNotMutate(t *testing.T) {
	repo := newMockProductRepository()
	existing := repo.seed(t, 1)[0]
	svc := NewService(repo)

	updated, err := svc.Update(context.Background(), admin, existing.ID, domproduct.Input{})

	require.Nil(t, updated)
	var verr *domproduct.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Contains(t, verr.Fields, "name")
	require.Contains(t, verr.Fields, "price")
	require.Zero(t, repo.calls)
	require.Equal(t, "Product 1", repo.products[existing.ID].Name)
	require.Equal(t, 10.0, repo.products[existing.ID].Price)
}

func TestUpdate_NotFound(t *testing.T) {
	repo := newMockProductRepository()
	svc := NewService(repo)

	updated, err := svc.Update(context.Background(), admin, 999, domproduct.Input{Name: "Lamp", Price: "1"})

	require.ErrorIs(t, err, domproduct.ErrProductNotFound)
	require.Nil(t, updated)
	require.Empty(t, repo.products)
}

func TestUpdate_MissingIDReportedBeforeValidation(t *testing.T) {
	repo := newMockProductRepository()
	svc := NewService(repo)

	updated, err := svc.Update(context.Background(), admin, 999, domproduct.Input{})

	require.ErrorIs(t, err, domproduct.ErrProductNotFound)
	var verr *domproduct.ValidationError
	require.False(t, errors.As(err, &verr))
	require.Nil(t, updated)
}

func TestDelete_RemovesRecordAndDecrementsTotal(t *testing.T) {
	repo := newMockProductRepository()
	created := repo.seed(t, 3)
	svc := NewService(repo)
	ctx := context.Background()

	before, err := svc.List(ctx, admin, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, admin, created[1].ID))

	after, err := svc.List(ctx, admin, 1)
	require.NoError(t, err)
	require.Equal(t, before.Total-1, after.Total)
	for _, p := range after.Items {
		require.NotEqual(t, created[1].ID, p.ID)
	}
	_, err = svc.Get(ctx, admin, created[1].ID)
	require.ErrorIs(t, err, domproduct.ErrProductNotFound)
}

func TestDelete_MissingIDIsNoop(t *testing.T) {
	repo := newMockProductRepository()
	repo.seed(t, 2)
	svc := NewService(repo)

	err := svc.Delete(context.Background(), admin, 999)

	require.NoError(t, err)
	require.Len(t, repo.products, 2)
}
