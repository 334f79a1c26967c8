package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/sternfield-timetable/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	ctx := context.Background()
	repo := NewCacheRepository(nil, nil)

	var dest []string
	assert.ErrorIs(t, repo.Get(ctx, "timetable:schedule:jane", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "timetable:schedule:jane", []string{"x"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "timetable:schedule:*"))
	assert.NoError(t, repo.Ping(ctx))
	assert.NoError(t, repo.Close())
}
