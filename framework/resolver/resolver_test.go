package resolver_test

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-injector/framework/registry"
	"github.com/km-arc/go-injector/framework/resolver"
	"github.com/km-arc/go-injector/framework/target"
)

type Shape interface{ Area() int }

type Square struct{ Side int }

func (s *Square) Area() int { return s.Side * s.Side }

type Canvas struct {
	Shape Shape
	Title string
}

type Loop struct {
	Next *Loop
}

func chain(t *testing.T, opts ...resolver.Option) (*resolver.Resolver, *registry.Backend) {
	t.Helper()
	be := registry.NewBackend(registry.Transient)
	r := resolver.New(opts...)
	resolver.Wire(r, be, target.Builtins())
	return r, be
}

// ── Request ───────────────────────────────────────────────────────────────────

func TestRequest_Derivation(t *testing.T) {
	shape, square, canvas := target.TypeOf[Shape](), target.TypeOf[*Square](), target.TypeOf[*Canvas]()

	root := resolver.Root(canvas)
	assert.Equal(t, canvas, root.Real)
	assert.Equal(t, canvas, root.Base)
	assert.Equal(t, canvas, root.Context)
	assert.Zero(t, root.Depth())

	dep := root.Dependency(shape)
	assert.Equal(t, shape, dep.Real)
	assert.Equal(t, shape, dep.Base)
	assert.Equal(t, canvas, dep.Context)
	assert.Equal(t, 1, dep.Depth())

	rebound := dep.Rebound(square)
	assert.Equal(t, square, rebound.Real)
	assert.Equal(t, shape, rebound.Base)
	assert.Equal(t, canvas, rebound.Context)
	assert.Equal(t, 2, rebound.Depth())

	assert.Equal(t, registry.Local(square, canvas), rebound.Local())
	assert.Equal(t, registry.Global(square), rebound.Global())
	assert.Equal(t, registry.Local(shape, canvas), rebound.LocalBase())
	assert.Equal(t, registry.Global(shape), rebound.GlobalBase())
	assert.Contains(t, rebound.String(), "as resolver_test.Shape")
}

// ── Resolver ──────────────────────────────────────────────────────────────────

func TestResolver_NoHandlerPanics(t *testing.T) {
	r := resolver.New()
	assert.Panics(t, func() { _, _ = r.Get(target.TypeOf[*Square]()) })
}

func TestResolver_AbstractWithoutBinding(t *testing.T) {
	r, _ := chain(t)
	_, err := r.Get(target.TypeOf[*Canvas]())
	require.Error(t, err)
	assert.True(t, errors.Is(err, resolver.ErrAbstractType))
	assert.Contains(t, err.Error(), "resolver_test.Shape")
	assert.Contains(t, err.Error(), "parameter Shape")
}

func TestResolver_BindingAndDependencies(t *testing.T) {
	r, be := chain(t)
	be.Bindings.Set(registry.Global(target.TypeOf[Shape]()), target.TypeOf[*Square]())

	v, err := r.Get(target.TypeOf[*Canvas]())
	require.NoError(t, err)

	c := v.Interface().(*Canvas)
	assert.IsType(t, &Square{}, c.Shape)
	assert.Equal(t, "", c.Title)
}

func TestResolver_ArgumentsInContext(t *testing.T) {
	r, be := chain(t)
	square := target.TypeOf[*Square]()
	canvas := target.TypeOf[*Canvas]()
	be.Bindings.Set(registry.Global(target.TypeOf[Shape]()), square)
	be.Arguments.Merge(registry.Local(square, canvas), registry.Args{"Side": registry.ValueArg(reflect.ValueOf(3))})

	v, err := r.Get(canvas)
	require.NoError(t, err)
	assert.Equal(t, 9, v.Interface().(*Canvas).Shape.Area())

	v, err = r.Get(square)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Interface().(*Square).Side)
}

func TestResolver_SingletonLocalAndGlobal(t *testing.T) {
	r, be := chain(t)
	square := target.TypeOf[*Square]()
	canvas := target.TypeOf[*Canvas]()
	be.Bindings.Set(registry.Global(target.TypeOf[Shape]()), square)
	be.Lifetimes.Set(registry.Local(target.TypeOf[Shape](), canvas), registry.Singleton)

	c1, err := r.Get(canvas)
	require.NoError(t, err)
	c2, err := r.Get(canvas)
	require.NoError(t, err)
	assert.Same(t, c1.Interface().(*Canvas).Shape, c2.Interface().(*Canvas).Shape)

	// the singleton is private to the canvas context
	assert.True(t, be.Instances.Has(registry.Local(target.TypeOf[Shape](), canvas)))
	assert.False(t, be.Instances.Has(registry.Global(target.TypeOf[Shape]())))
}

func TestResolver_MaxDepth(t *testing.T) {
	r, _ := chain(t, resolver.WithMaxDepth(20))
	_, err := r.Get(target.TypeOf[*Loop]())
	require.Error(t, err)
	assert.True(t, errors.Is(err, resolver.ErrMaxDepth))
}

func TestResolver_BindingCycleHitsMaxDepth(t *testing.T) {
	r, be := chain(t, resolver.WithMaxDepth(10))
	a, b := target.TypeOf[Shape](), target.TypeOf[interface{ Area() int }]()
	be.Bindings.Set(registry.Global(a), b)
	be.Bindings.Set(registry.Global(b), a)

	_, err := r.Get(a)
	assert.True(t, errors.Is(err, resolver.ErrMaxDepth))
}

func TestResolver_HooksAndTrace(t *testing.T) {
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(prev)

	var buf bytes.Buffer
	var seen []string
	r, be := chain(t,
		resolver.WithLogger(zerolog.New(&buf).Level(zerolog.TraceLevel)),
		resolver.WithHook(func(req resolver.Request, handler string, err error) {
			seen = append(seen, handler+":"+req.Real.String())
		}),
	)
	be.Bindings.Set(registry.Global(target.TypeOf[Shape]()), target.TypeOf[*Square]())

	_, err := r.Get(target.TypeOf[Shape]())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"builtin:int",
		"new:*resolver_test.Square",
		"binding:resolver_test.Shape",
	}, seen)
	assert.Contains(t, buf.String(), `"handler":"binding"`)
	assert.Contains(t, buf.String(), `"real":"*resolver_test.Square"`)
}

// ── Handlers ──────────────────────────────────────────────────────────────────

func TestBuiltinHandler_OnlyTypeTargets(t *testing.T) {
	h := resolver.NewBuiltinHandler(target.Builtins())
	assert.True(t, h.CanHandle(resolver.Root(target.TypeOf[int]())))
	assert.False(t, h.CanHandle(resolver.Root(target.TypeOf[int64]())))
	assert.False(t, h.CanHandle(resolver.Root(target.MustFunc(func() int { return 1 }))))
}

func TestDefaultHandler_TerminatesChain(t *testing.T) {
	r := resolver.New()
	h := resolver.NewDefaultHandler(resolver.NewInstanceFactory(r, registry.NewArguments()))
	r.Add(h)

	assert.Equal(t, "new", h.String())
	assert.True(t, h.CanHandle(resolver.Root(target.TypeOf[Shape]())))

	v, err := r.Get(target.TypeOf[*Square]())
	require.NoError(t, err)
	assert.Equal(t, 0, v.Interface().(*Square).Side)
}

func TestInstanceFactory_RejectsAbstract(t *testing.T) {
	r := resolver.New()
	f := resolver.NewInstanceFactory(r, registry.NewArguments())
	_, err := f.Create(resolver.Root(target.TypeOf[Shape]()))
	assert.True(t, errors.Is(err, resolver.ErrAbstractType))
}

func TestInstanceFactory_FactoryArgument(t *testing.T) {
	r, be := chain(t)
	seven := target.MustFunc(func() int { return 7 })
	be.Arguments.Merge(registry.Global(target.TypeOf[*Square]()), registry.Args{"Side": registry.FactoryArg(seven)})

	v, err := r.Get(target.TypeOf[*Square]())
	require.NoError(t, err)
	assert.Equal(t, 7, v.Interface().(*Square).Side)
}

func TestInstanceFactory_NilValueArgumentIsZero(t *testing.T) {
	r, be := chain(t)
	be.Arguments.Merge(registry.Global(target.TypeOf[*Canvas]()), registry.Args{"Shape": registry.ValueArg(reflect.Value{})})

	v, err := r.Get(target.TypeOf[*Canvas]())
	require.NoError(t, err)
	assert.Nil(t, v.Interface().(*Canvas).Shape)
}
