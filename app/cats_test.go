package app_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-ioc/app"
)

func TestInMemoryCatsRepository_Seed(t *testing.T) {
	repo := app.NewInMemoryCatsRepository(nil, "Celine", "Mittens")

	assert.Equal(t, []*app.Cat{{ID: 1, Name: "Celine"}, {ID: 2, Name: "Mittens"}}, repo.All())
}

func TestInMemoryCatsRepository_SaveAndGet(t *testing.T) {
	repo := app.NewInMemoryCatsRepository(nil)

	saved := repo.Save(&app.Cat{Name: "Celine"})
	assert.Equal(t, 1, saved.ID)

	got, err := repo.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Celine", got.Name)

	got.Name = "changed outside"
	again, err := repo.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Celine", again.Name)

	repo.Save(&app.Cat{ID: 1, Name: "Renamed"})
	again, err = repo.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", again.Name)
}

func TestInMemoryCatsRepository_NotFound(t *testing.T) {
	repo := app.NewInMemoryCatsRepository(nil, "Celine")

	_, err := repo.GetByID(9)
	assert.ErrorIs(t, err, app.ErrCatNotFound)
	assert.ErrorIs(t, repo.Delete(9), app.ErrCatNotFound)

	require.NoError(t, repo.Delete(1))
	assert.Empty(t, repo.All())
}

func TestInMemoryCatsRepository_ConcurrentSaves(t *testing.T) {
	repo := app.NewInMemoryCatsRepository(nil)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo.Save(&app.Cat{Name: "cat"})
		}()
	}
	wg.Wait()

	all := repo.All()
	require.Len(t, all, 50)
	for i, c := range all {
		assert.Equal(t, i+1, c.ID)
	}
}
