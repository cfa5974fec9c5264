package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	staterepo "storefront/internal/repository/state"
)

type stubRepo struct {
	mu      sync.Mutex
	blob    []byte
	loadErr error
	saveErr error
	saves   int
}

func (s *stubRepo) Load(_ context.Context, _ string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.blob == nil {
		return nil, domain.ErrNotFound
	}
	return s.blob, nil
}

func (s *stubRepo) Save(_ context.Context, _ string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.blob = append([]byte(nil), blob...)
	return nil
}

func (s *stubRepo) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func TestOpen_FreshScopeCreatesBlob(t *testing.T) {
	repo := &stubRepo{}
	s := Open(context.Background(), repo, "s1", nil)

	assert.Equal(t, LoadFresh, s.Status())
	assert.False(t, s.Status().Degraded())
	assert.Equal(t, domain.EmptyState(), s.State())
	assert.Equal(t, 1, repo.saveCount())
	assert.JSONEq(t, `{"cart":[],"wishlist":[]}`, string(repo.blob))
}

func TestOpen_CorruptBlobResetsSilently(t *testing.T) {
	repo := &stubRepo{blob: []byte(`{"cart": 42`)}
	s := Open(context.Background(), repo, "s1", nil)

	assert.Equal(t, LoadCorrupt, s.Status())
	assert.True(t, s.Status().Degraded())
	assert.Equal(t, domain.EmptyState(), s.State())
	assert.JSONEq(t, `{"cart":[],"wishlist":[]}`, string(repo.blob))
}

func TestOpen_UnreadableBackendDoesNotOverwrite(t *testing.T) {
	repo := &stubRepo{loadErr: errors.New("connection refused")}
	s := Open(context.Background(), repo, "s1", nil)

	assert.Equal(t, LoadUnavailable, s.Status())
	assert.True(t, s.Status().Degraded())
	assert.Equal(t, domain.EmptyState(), s.State())
	assert.Equal(t, 0, repo.saveCount())
}

func TestStore_PersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := staterepo.NewMemory()

	s := Open(ctx, repo, "s1", nil)
	_, err := s.Dispatch(ctx, AddToCart{Product: product("p1", 50)})
	require.NoError(t, err)
	_, err = s.Dispatch(ctx, AddToCart{Product: product("p1", 50)})
	require.NoError(t, err)
	_, err = s.Dispatch(ctx, ToggleWishlist{Product: product("w1", 5)})
	require.NoError(t, err)
	want := s.State()

	reopened := Open(ctx, repo, "s1", nil)
	assert.Equal(t, LoadRestored, reopened.Status())
	got := reopened.State()
	require.Len(t, got.Cart, 1)
	assert.Equal(t, want.Cart[0].ID, got.Cart[0].ID)
	assert.Equal(t, 2, got.Cart[0].Quantity)
	assert.True(t, want.Cart[0].Price.Equal(got.Cart[0].Price))
	require.Len(t, got.Wishlist, 1)
	assert.Equal(t, "w1", got.Wishlist[0].ID)
}

func TestStore_WritesThroughOnEveryDispatch(t *testing.T) {
	ctx := context.Background()
	repo := &stubRepo{}
	s := Open(ctx, repo, "s1", nil)
	base := repo.saveCount()

	_, _ = s.Dispatch(ctx, AddToCart{Product: product("p1", 1)})
	_, _ = s.Dispatch(ctx, RemoveFromCart{ProductID: "missing"})
	_, _ = s.Dispatch(ctx, ClearCart{})

	assert.Equal(t, base+3, repo.saveCount())
}

func TestStore_PersistFailureStillAdvances(t *testing.T) {
	ctx := context.Background()
	repo := &stubRepo{}
	s := Open(ctx, repo, "s1", nil)
	repo.saveErr = errors.New("disk full")

	state, err := s.Dispatch(ctx, AddToCart{Product: product("p1", 1)})
	require.Error(t, err)
	require.Len(t, state.Cart, 1)
	assert.Len(t, s.State().Cart, 1)
}

func TestStore_ClearCartAfterCheckout(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, staterepo.NewMemory(), "s1", nil)
	_, _ = s.Dispatch(ctx, AddToCart{Product: product("p1", 1)})
	_, _ = s.Dispatch(ctx, ToggleWishlist{Product: product("w1", 1)})

	state, err := s.Dispatch(ctx, ClearCart{})
	require.NoError(t, err)
	assert.Empty(t, state.Cart)
	require.Len(t, state.Wishlist, 1)
	assert.Equal(t, "w1", state.Wishlist[0].ID)
}

func TestStore_ConcurrentDispatchesSerialize(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, staterepo.NewMemory(), "s1", nil)
	p := product("p1", 1)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Dispatch(ctx, AddToCart{Product: p})
		}()
	}
	wg.Wait()

	state := s.State()
	require.Len(t, state.Cart, 1)
	assert.Equal(t, 50, state.Cart[0].Quantity)
}

func TestStore_StateIsACopy(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, staterepo.NewMemory(), "s1", nil)
	_, _ = s.Dispatch(ctx, AddToCart{Product: product("p1", 1)})

	state := s.State()
	state.Cart[0].Quantity = 99
	assert.Equal(t, 1, s.State().Cart[0].Quantity)
}

func hasCart(st domain.State) bool { return len(st.Cart) > 0 }

func TestStore_DispatchIfApplies(t *testing.T) {
	ctx := context.Background()
	repo := &stubRepo{}
	s := Open(ctx, repo, "s1", nil)
	_, _ = s.Dispatch(ctx, AddToCart{Product: product("p1", 1)})
	base := repo.saveCount()

	tr, err := s.DispatchIf(ctx, ClearCart{}, hasCart)
	require.NoError(t, err)
	assert.True(t, tr.Applied)
	require.Len(t, tr.Before.Cart, 1)
	assert.Equal(t, "p1", tr.Before.Cart[0].ID)
	assert.Empty(t, tr.After.Cart)
	assert.Empty(t, s.State().Cart)
	assert.Equal(t, base+1, repo.saveCount())
}

func TestStore_DispatchIfSkipsWithoutWriting(t *testing.T) {
	ctx := context.Background()
	repo := &stubRepo{}
	s := Open(ctx, repo, "s1", nil)
	base := repo.saveCount()

	tr, err := s.DispatchIf(ctx, ClearCart{}, hasCart)
	require.NoError(t, err)
	assert.False(t, tr.Applied)
	assert.Equal(t, tr.Before, tr.After)
	assert.Equal(t, base, repo.saveCount())
}

func TestStore_DispatchIfIsAtomicWithConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, staterepo.NewMemory(), "s1", nil)

	const adds = 100
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		drained int
	)
	for i := 0; i < adds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Dispatch(ctx, AddToCart{Product: product("p1", 1)})
		}()
		go func() {
			defer wg.Done()
			tr, _ := s.DispatchIf(ctx, ClearCart{}, hasCart)
			if tr.Applied {
				mu.Lock()
				drained += tr.Before.Cart[0].Quantity
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	left := 0
	if cart := s.State().Cart; len(cart) > 0 {
		left = cart[0].Quantity
	}
	assert.Equal(t, adds, drained+left)
}

func TestOpen_RestoredBlobNotRewritten(t *testing.T) {
	ctx := context.Background()
	repo := &stubRepo{}
	s := Open(ctx, repo, "s1", nil)
	_, err := s.Dispatch(ctx, AddToCart{Product: product("p1", 1)})
	require.NoError(t, err)
	base := repo.saveCount()

	reopened := Open(ctx, repo, "s1", nil)
	assert.Equal(t, LoadRestored, reopened.Status())
	assert.Equal(t, base, repo.saveCount())
}

func TestOpen_RestoredBlobRewrittenWhenNormalized(t *testing.T) {
	repo := &stubRepo{blob: []byte(`{"cart":[{"id":"p1","qty":0}],"wishlist":[]}`)}

	s := Open(context.Background(), repo, "s1", nil)
	assert.Equal(t, LoadRestored, s.Status())
	require.Len(t, s.State().Cart, 1)
	assert.Equal(t, 1, s.State().Cart[0].Quantity)
	assert.Equal(t, 1, repo.saveCount())
}
