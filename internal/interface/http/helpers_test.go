package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	domproduct "example.com/catalog-admin/internal/domain/product"
	domuser "example.com/catalog-admin/internal/domain/user"
	"example.com/catalog-admin/internal/infra/security"
	"example.com/catalog-admin/internal/metrics"
	authuc "example.com/catalog-admin/internal/usecase/auth"
	productuc "example.com/catalog-admin/internal/usecase/product"
)

type mockProductRepository struct {
	products map[int64]*domproduct.Product
	nextID   int64
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[int64]*domproduct.Product), nextID: 1}
}

func (m *mockProductRepository) Create(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	p.ID = m.nextID
	m.nextID++
	cloned := *p
	m.products[p.ID] = &cloned
	return p, nil
}

func (m *mockProductRepository) Update(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	if _, ok := m.products[p.ID]; !ok {
		return nil, domproduct.ErrProductNotFound
	}
	cloned := *p
	m.products[p.ID] = &cloned
	return p, nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id int64) error {
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

func (m *mockProductRepository) add(name string, price float64) *domproduct.Product {
	p, _ := m.Create(context.Background(), &domproduct.Product{Name: name, Price: price})
	return p
}

type mockUserRepository struct {
	users map[int64]*domuser.User
}

func (m *mockUserRepository) Create(ctx context.Context, u *domuser.User) (*domuser.User, error) {
	u.ID = int64(len(m.users) + 1)
	m.users[u.ID] = u
	return u, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*domuser.User, error) {
	if u, ok := m.users[id]; ok {
		cloned := *u
		return &cloned, nil
	}
	return nil, domuser.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domuser.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cloned := *u
			return &cloned, nil
		}
	}
	return nil, domuser.ErrUserNotFound
}

type testServer struct {
	router   chi.Router
	products *mockProductRepository
	users    *mockUserRepository
	tokens   *security.JWTService
	metrics  *metrics.Metrics
	member   *domuser.User
	admin    *domuser.User
}

type serverOption func(*Dependencies)

func withPrivateAPI() serverOption {
	return func(d *Dependencies) { d.PublicAPI = false }
}

func withAllowedOrigins(origins ...string) serverOption {
	return func(d *Dependencies) { d.AllowedOrigins = origins }
}

func setupServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	hasher, err := security.NewPasswordService(4)
	require.NoError(t, err)
	hash, err := hasher.Hash("password123")
	require.NoError(t, err)

	s := &testServer{
		products: newMockProductRepository(),
		users:    &mockUserRepository{users: make(map[int64]*domuser.User)},
		tokens:   security.NewJWTService("test-secret", time.Hour),
		metrics:  metrics.New(),
	}
	s.member = &domuser.User{ID: 1, Name: "User One", Email: "userone@example.com", PasswordHash: hash}
	s.admin = &domuser.User{ID: 2, Name: "Admin", Email: "admin@example.com", PasswordHash: hash, IsAdmin: true}
	s.users.users[1] = s.member
	s.users.users[2] = s.admin

	authSvc := authuc.NewService(s.users, hasher, s.tokens, security.NewMemoryRevocationList(), nil)
	deps := Dependencies{
		AuthService:    authSvc,
		ProductService: productuc.NewService(s.products),
		Metrics:        s.metrics,
		CookieName:     "catalog_session",
		TokenTTL:       time.Hour,
		PublicAPI:      true,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	s.router = NewAPI(deps).Router()
	return s
}

func (s *testServer) token(t *testing.T, u *domuser.User) string {
	t.Helper()
	token, err := s.tokens.GenerateToken(u)
	require.NoError(t, err)
	return token
}

func (s *testServer) cookie(t *testing.T, u *domuser.User) *http.Cookie {
	return &http.Cookie{Name: "catalog_session", Value: s.token(t, u)}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// get issues a browser GET, signed in as u when u is non-nil.
func (s *testServer) get(t *testing.T, path string, u *domuser.User) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if u != nil {
		req.AddCookie(s.cookie(t, u))
	}
	return s.do(req)
}

// postForm submits a url-encoded form, signed in as u when u is non-nil.
func (s *testServer) postForm(t *testing.T, path string, form url.Values, u *domuser.User) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if u != nil {
		req.AddCookie(s.cookie(t, u))
	}
	return s.do(req)
}
