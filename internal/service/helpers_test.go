package service

import (
	"encoding/json"
	"math/rand"
	"testing"

	"vocabdeck/internal/domain"
	"vocabdeck/internal/repository"
	"vocabdeck/internal/testutil"

	"github.com/stretchr/testify/require"
)

// scriptedRand returns the scripted values for Intn (modulo n) and leaves
// Shuffle order untouched
type scriptedRand struct {
	values []int
	calls  int
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.calls%len(r.values)]
	r.calls++
	return v % n
}

func (r *scriptedRand) Shuffle(n int, swap func(i, j int)) {}

// reverseRand reverses on Shuffle so order changes are observable
type reverseRand struct{ scriptedRand }

func (r *reverseRand) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func seededRand() *rand.Rand {
	return randFrom(42)
}

func randFrom(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

type fixture struct {
	store    *testutil.MemoryStore
	progress *ProgressService
	library  *LibraryService
	quiz     *QuizService
}

func newFixture(t *testing.T, rnd Rand, decks ...domain.Deck) *fixture {
	t.Helper()

	store := testutil.NewMemoryStore()
	data, err := json.Marshal(domain.Collection{Decks: decks})
	require.NoError(t, err)
	store.Put(repository.KeyCollection, string(data))

	logger := testutil.NewTestLogger()
	progress := NewProgressService(store, logger)
	require.NoError(t, progress.Load())

	library := NewLibraryService(store, progress, nil, nil, rnd, logger)
	require.NoError(t, library.Load())

	return &fixture{
		store:    store,
		progress: progress,
		library:  library,
		quiz:     NewQuizService(progress, rnd, "-", logger),
	}
}

func (f *fixture) session() *StudySession {
	return NewStudySession(f.library, f.progress, f.quiz, testutil.NewTestLogger())
}

func carDeck() domain.Deck {
	return testutil.NewTestDeck("car",
		[2]string{"フロントガラス", "windshield"},
		[2]string{"ワイパー", "wiper"},
		[2]string{"ハンドル", "steering wheel"},
		[2]string{"ブレーキ", "brake"},
		[2]string{"タイヤ", "tire"},
	)
}

func itemIDs(items []domain.Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
