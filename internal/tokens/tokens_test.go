package tokens

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(rdb), mr
}

func TestStore_IssueAndConsume(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, PurposeConfirmEmail, 42, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := store.Consume(ctx, PurposeConfirmEmail, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestStore_ConsumeIsSingleUse(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, PurposeResetPassword, 7, time.Hour)
	require.NoError(t, err)

	_, err = store.Consume(ctx, PurposeResetPassword, token)
	require.NoError(t, err)

	_, err = store.Consume(ctx, PurposeResetPassword, token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestStore_PurposeIsolation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, PurposeConfirmEmail, 7, time.Hour)
	require.NoError(t, err)

	// token de confirmação não serve para reset de senha
	_, err = store.Consume(ctx, PurposeResetPassword, token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = store.Consume(ctx, PurposeConfirmEmail, token)
	assert.NoError(t, err)
}

func TestStore_Expiration(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, PurposeResetPassword, 7, 2*time.Hour)
	require.NoError(t, err)

	mr.FastForward(2*time.Hour + time.Minute)

	_, err = store.Consume(ctx, PurposeResetPassword, token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestStore_UnknownToken(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Consume(context.Background(), PurposeConfirmEmail, "nope")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
