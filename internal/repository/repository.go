package repository

// Keys under which the collection and progress are persisted
const (
	KeyCollection = "jp_vocab_app_data_v2"
	KeyProgress   = "jp_vocab_app_progress_v2"
)

// KVStore is the persistence service. Get returns nil, nil for a missing key.
type KVStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// UserRepository defines user data operations
type UserRepository interface {
	IsAuthorized(userID int64) (bool, error)
	AuthorizeUser(userID int64) error
	EnsureUserExists(userID int64) error
}
