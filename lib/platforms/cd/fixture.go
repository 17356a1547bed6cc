package cd

import (
	"context"
	"fmt"
	"os"
)

// FixtureSearcher answers every search with a saved result page, for
// running the pipeline offline against a page captured with a dump directory.
type FixtureSearcher struct {
	Body string
}

func NewFixtureSearcher(path string) (FixtureSearcher, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return FixtureSearcher{}, fmt.Errorf("read fixture: %w", err)
	}
	return FixtureSearcher{Body: string(contents)}, nil
}

func (f FixtureSearcher) Search(ctx context.Context, payload string) (string, error) {
	return f.Body, nil
}
