package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "priceslice", ttl), mr
}

func TestLoadDefaultsWhenEmpty(t *testing.T) {
	prefs, err := Load(context.Background(), NewMemoryStore())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), prefs)
}

func TestLoadFallsBackOnUnrecognisedValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, KeyTheme, "solarized"))
	require.NoError(t, store.Set(ctx, KeyIncludeTax, "yes"))
	require.NoError(t, store.Set(ctx, KeyTaxRate, ""))
	require.NoError(t, store.Set(ctx, KeyAdvancedOpen, "true"))

	prefs, err := Load(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, prefs.Theme)
	assert.False(t, prefs.IncludeTax)
	assert.Equal(t, "0", prefs.TaxRate)
	assert.True(t, prefs.AdvancedOpen)
}

func TestSaveThenLoadRoundTripsThroughRedis(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Hour)

	want := Preferences{Theme: ThemeDark, IncludeTax: true, TaxRate: "7,25", AdvancedOpen: true}
	require.NoError(t, Save(ctx, store, want))

	got, err := Load(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	val, err := mr.Get("priceslice:" + KeyIncludeTax)
	require.NoError(t, err)
	assert.Equal(t, "true", val)
	assert.Equal(t, time.Hour, mr.TTL("priceslice:"+KeyTheme))
}

func TestRedisStoreMissingKey(t *testing.T) {
	store, _ := newRedisStore(t, 0)
	_, ok, err := store.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreSurfacesConnectionErrors(t *testing.T) {
	store, mr := newRedisStore(t, 0)
	mr.Close()

	_, err := Load(context.Background(), store)
	require.Error(t, err)
}

func TestNilRedisStore(t *testing.T) {
	var store *RedisStore
	_, ok, err := store.Get(context.Background(), KeyTheme)
	require.NoError(t, err)
	assert.False(t, ok)
	require.Error(t, store.Set(context.Background(), KeyTheme, ThemeDark))
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingStore) Set(context.Context, string, string) error        { return f.err }

func TestSaveWrapsStoreError(t *testing.T) {
	boom := errors.New("boom")
	err := Save(context.Background(), failingStore{err: boom}, Defaults())
	require.ErrorIs(t, err, boom)
}

func TestServicePutAndGet(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, 0)
	svc := NewService(store, nil)
	profile := NewProfileID()

	saved, err := svc.Put(ctx, profile, Preferences{Theme: ThemeDark, IncludeTax: true, TaxRate: " 008.5 "})
	require.NoError(t, err)
	assert.Equal(t, "8.5", saved.TaxRate)

	got, err := svc.Get(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
	assert.True(t, mr.Exists("priceslice:profile:"+profile+":"+KeyTheme))

	other, err := svc.Get(ctx, NewProfileID())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), other)
}

func TestServiceRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore(), nil)

	_, err := svc.Get(ctx, "not-a-uuid")
	require.ErrorIs(t, err, ErrInvalid)

	_, err = svc.Put(ctx, NewProfileID(), Preferences{Theme: "neon", TaxRate: "-3"})
	require.ErrorIs(t, err, ErrInvalid)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "oneof", verr.Fields["Theme"])
	assert.Equal(t, "taxrate", verr.Fields["TaxRate"])

	_, err = svc.Put(ctx, NewProfileID(), Preferences{Theme: ThemeLight, TaxRate: "abc"})
	require.ErrorIs(t, err, ErrInvalid)
}

func TestServiceEmptyTaxRateReadsAsZero(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil)
	saved, err := svc.Put(context.Background(), NewProfileID(), Preferences{Theme: ThemeLight})
	require.NoError(t, err)
	assert.Equal(t, "0", saved.TaxRate)
}
