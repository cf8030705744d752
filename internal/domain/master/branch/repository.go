package branch

import "context"

type BranchRepository interface {
	GetByID(ctx context.Context, id string) (Branch, error)
	// GetNames returns live names keyed by branch ID; deleted or unknown IDs are absent.
	GetNames(ctx context.Context, ids []string) (map[string]string, error)
}
