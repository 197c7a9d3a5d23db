package progress

import "context"

//go:generate mockgen -source=repo.go -destination=../mocks/progress/mock_repo.go -package=mock_progress

// Repo persists the whole State.
type Repo interface {
	// Load returns the stored state. ok is false when nothing has been stored.
	Load(ctx context.Context) (state State, ok bool, err error)
	Save(ctx context.Context, state State) error
	Clear(ctx context.Context) error
}
