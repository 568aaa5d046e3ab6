package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capchain/capchain/internal/caps"
	"github.com/capchain/capchain/internal/catalog"
)

func rawVideo(formats ...string) caps.Caps {
	return caps.Simple("video/x-raw", map[string]caps.Value{"format": caps.Strings(formats...)})
}

func buildCatalog(t *testing.T, factories ...*catalog.StaticFactory) *catalog.Catalog {
	t.Helper()
	list := make([]catalog.Factory, len(factories))
	for i, f := range factories {
		list[i] = f
	}
	return catalog.Build(context.Background(), list)
}

// newTestPlanner declares one route between a source and destination boundary.
func newTestPlanner(t *testing.T, cat *catalog.Catalog) *Planner {
	t.Helper()
	p := New(cat, Options{Workers: 2})
	require.NoError(t, p.AddBoundary("in", SideInput))
	require.NoError(t, p.AddBoundary("out", SideOutput))
	require.NoError(t, p.AddRoute(RouteSpec{ID: "main", From: "in", To: "out", MaxLength: 3}))
	return p
}

func TestNegotiateBoundaryGatesBatch(t *testing.T) {
	ctx := context.Background()
	cat := buildCatalog(t,
		&catalog.StaticFactory{Name: "x", Input: rawVideo("RGB"), Output: rawVideo("I420")},
	)
	p := newTestPlanner(t, cat)

	// First boundary alone must not trigger a batch.
	plan, err := p.NegotiateBoundary(ctx, "in", rawVideo("RGB"))
	require.NoError(t, err)
	assert.Nil(t, plan)

	// Fixing the last boundary runs the search.
	plan, err = p.NegotiateBoundary(ctx, "out", rawVideo("I420"))
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.NotEmpty(t, plan.BatchID)

	found, ok := plan.Chains["main"]
	require.True(t, ok)
	require.Len(t, found, 1)
	assert.Equal(t, "x", found[0].Factory.Type())
	assert.Empty(t, plan.Unsatisfied)
}

func TestNegotiateBoundaryUnknownID(t *testing.T) {
	p := newTestPlanner(t, buildCatalog(t))
	_, err := p.NegotiateBoundary(context.Background(), "nope", rawVideo("RGB"))
	assert.ErrorContains(t, err, "unknown boundary")
}

func TestPlanReportsUnsatisfiableRoutes(t *testing.T) {
	ctx := context.Background()
	// The catalog cannot produce H.264.
	cat := buildCatalog(t,
		&catalog.StaticFactory{Name: "x", Input: rawVideo("RGB"), Output: rawVideo("RGB")},
	)
	p := newTestPlanner(t, cat)

	_, err := p.NegotiateBoundary(ctx, "in", rawVideo("RGB"))
	require.NoError(t, err)
	plan, err := p.NegotiateBoundary(ctx, "out", caps.Simple("video/x-h264", nil))
	require.NoError(t, err)
	require.NotNil(t, plan)

	assert.Empty(t, plan.Chains)
	assert.Contains(t, plan.Unsatisfied, "main")
}

func TestMultipleRoutesResolveIndependently(t *testing.T) {
	ctx := context.Background()
	cat := buildCatalog(t,
		&catalog.StaticFactory{Name: "up", Input: rawVideo("RGB"), Output: rawVideo("I420")},
		&catalog.StaticFactory{Name: "down", Input: rawVideo("I420"), Output: rawVideo("RGB")},
	)

	p := New(cat, Options{Workers: 4})
	require.NoError(t, p.AddBoundary("cam", SideInput))
	require.NoError(t, p.AddBoundary("net", SideInput))
	require.NoError(t, p.AddBoundary("disp", SideOutput))
	require.NoError(t, p.AddBoundary("rec", SideOutput))
	require.NoError(t, p.AddRoute(RouteSpec{ID: "view", From: "net", To: "disp", MaxLength: 2}))
	require.NoError(t, p.AddRoute(RouteSpec{ID: "store", From: "cam", To: "rec", MaxLength: 2}))

	_, err := p.NegotiateBoundary(ctx, "cam", rawVideo("RGB"))
	require.NoError(t, err)
	_, err = p.NegotiateBoundary(ctx, "net", rawVideo("I420"))
	require.NoError(t, err)
	_, err = p.NegotiateBoundary(ctx, "disp", rawVideo("RGB"))
	require.NoError(t, err)
	plan, err := p.NegotiateBoundary(ctx, "rec", rawVideo("I420"))
	require.NoError(t, err)
	require.NotNil(t, plan)

	require.Len(t, plan.Chains, 2)
	view := plan.Chains["view"]
	require.Len(t, view, 1)
	assert.Equal(t, "down", view[0].Factory.Type())
	store := plan.Chains["store"]
	require.Len(t, store, 1)
	assert.Equal(t, "up", store[0].Factory.Type())
}

func TestAddRouteValidation(t *testing.T) {
	p := New(buildCatalog(t), Options{})
	require.NoError(t, p.AddBoundary("in", SideInput))
	require.NoError(t, p.AddBoundary("out", SideOutput))

	assert.ErrorContains(t, p.AddRoute(RouteSpec{ID: "r", From: "in", To: "missing"}), "unknown boundary")
	assert.ErrorContains(t, p.AddRoute(RouteSpec{ID: "r", From: "out", To: "out"}), "input boundary to an output boundary")
	assert.ErrorContains(t, p.AddRoute(RouteSpec{ID: "r", From: "in", To: "out", MaxLength: -1}), "negative max length")

	require.NoError(t, p.AddRoute(RouteSpec{ID: "r", From: "in", To: "out", MaxLength: 1}))
	assert.ErrorContains(t, p.AddRoute(RouteSpec{ID: "r", From: "in", To: "out", MaxLength: 1}), "already declared")

	assert.ErrorContains(t, p.AddBoundary("in", SideInput), "already declared")
}

func TestQueryCaps(t *testing.T) {
	ctx := context.Background()
	cat := buildCatalog(t,
		&catalog.StaticFactory{Name: "x", Input: rawVideo("RGB", "BGR"), Output: rawVideo("I420")},
	)
	p := newTestPlanner(t, cat)

	t.Run("unfiltered input query reflects the catalog aggregate", func(t *testing.T) {
		got, err := p.QueryCaps("in", caps.Caps{})
		require.NoError(t, err)
		assert.True(t, got.CanIntersect(rawVideo("RGB")))
		assert.True(t, got.CanIntersect(rawVideo("BGR")))
		assert.False(t, got.CanIntersect(rawVideo("I420")))
	})

	t.Run("fixed peers contribute their caps", func(t *testing.T) {
		_, err := p.NegotiateBoundary(ctx, "out", rawVideo("NV12"))
		require.NoError(t, err)

		got, err := p.QueryCaps("in", caps.Caps{})
		require.NoError(t, err)
		// NV12 is outside the aggregate but reachable through the peer.
		assert.True(t, got.CanIntersect(rawVideo("NV12")))
	})

	t.Run("filter restricts the answer", func(t *testing.T) {
		got, err := p.QueryCaps("in", rawVideo("RGB"))
		require.NoError(t, err)
		assert.True(t, got.CanIntersect(rawVideo("RGB")))
		assert.False(t, got.CanIntersect(rawVideo("BGR")))
	})

	t.Run("answers are normalized", func(t *testing.T) {
		// This catalog only constrains formats, so normalization leaves
		// every structure fully fixed.
		got, err := p.QueryCaps("in", caps.Caps{})
		require.NoError(t, err)
		require.Greater(t, got.Len(), 0)
		for i := 0; i < got.Len(); i++ {
			assert.True(t, got.Structure(i).IsFixed())
		}
	})

	t.Run("unknown boundary errors", func(t *testing.T) {
		_, err := p.QueryCaps("nope", caps.Caps{})
		assert.ErrorContains(t, err, "unknown boundary")
	})
}

func TestSwapCatalogAffectsNextBatch(t *testing.T) {
	ctx := context.Background()
	empty := buildCatalog(t)
	p := newTestPlanner(t, empty)

	_, err := p.NegotiateBoundary(ctx, "in", rawVideo("RGB"))
	require.NoError(t, err)
	plan, err := p.NegotiateBoundary(ctx, "out", rawVideo("I420"))
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Contains(t, plan.Unsatisfied, "main")

	// Publish a catalog that can bridge the route and renegotiate one
	// boundary; with all boundaries fixed, a fresh batch runs immediately.
	p.SwapCatalog(buildCatalog(t,
		&catalog.StaticFactory{Name: "x", Input: rawVideo("RGB"), Output: rawVideo("I420")},
	))
	plan, err = p.NegotiateBoundary(ctx, "out", rawVideo("I420"))
	require.NoError(t, err)
	require.NotNil(t, plan)
	require.Contains(t, plan.Chains, "main")
	assert.Equal(t, "x", plan.Chains["main"][0].Factory.Type())
}
