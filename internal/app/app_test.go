package app

import (
	"errors"
	"sync"
	"testing"

	"vocabdeck/internal/domain"
	"vocabdeck/internal/repository"
	"vocabdeck/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SeedsSampleOnFirstStart(t *testing.T) {
	store := testutil.NewMemoryStore()

	a, err := New(Options{Store: store, Lang: "vi", Seed: 1, Logger: testutil.NewTestLogger()})
	require.NoError(t, err)

	decks := a.Library.Collection().Decks
	require.Len(t, decks, 1)
	assert.Equal(t, "lai_xe_o_to", decks[0].ID)
	assert.Equal(t, "vi", a.Translator.Lang())

	raw, err := store.Get(repository.KeyCollection)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}

func TestNew_UsesTranslatedDefaultTitles(t *testing.T) {
	store := testutil.NewMemoryStore()
	store.Put(repository.KeyCollection, `{"decks":[{"items":[{"jp":"水"}]}]}`)

	a, err := New(Options{Store: store, Lang: "vi", Seed: 1})
	require.NoError(t, err)

	assert.Equal(t, "Bộ thẻ 1", a.Library.Collection().Decks[0].Title)
}

func TestNew_Errors(t *testing.T) {
	t.Run("unknown language", func(t *testing.T) {
		_, err := New(Options{Store: testutil.NewMemoryStore(), Lang: "xx"})
		assert.Error(t, err)
	})

	t.Run("store failure", func(t *testing.T) {
		store := new(testutil.MockKVStore)
		store.On("Get", repository.KeyProgress).Return(nil, errors.New("connection refused"))

		_, err := New(Options{Store: store})
		assert.ErrorContains(t, err, "failed to load progress")
		store.AssertExpectations(t)
	})
}

func TestApp_Run(t *testing.T) {
	a, err := New(Options{Store: testutil.NewMemoryStore(), Seed: 1})
	require.NoError(t, err)

	sentinel := errors.New("stop")
	assert.ErrorIs(t, a.Run(func() error { return sentinel }), sentinel)

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = a.Run(func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestApp_SessionsShareProgress(t *testing.T) {
	a, err := New(Options{Store: testutil.NewMemoryStore(), Seed: 1})
	require.NoError(t, err)

	first := a.NewSession()
	second := a.NewSession()

	require.NoError(t, a.Run(func() error {
		_, err := first.ToggleKnown()
		return err
	}))

	it, ok := second.ActiveItem()
	require.True(t, ok)
	assert.Equal(t, domain.ItemKnown, second.ItemState(it.ID))
	assert.Equal(t, domain.Score{}, second.Score())
}
