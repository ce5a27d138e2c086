package resource

import "context"

// Repository stores resource versions. Create, Update and Delete write the
// current version and append it to the history in one step.
//
// Update and Delete succeed only when the stored current version is
// v.VersionID-1 and return ErrVersionConflict otherwise.
type Repository interface {
	Create(ctx context.Context, v *Version) error
	Get(ctx context.Context, resourceType, id string) (*Version, error)
	Update(ctx context.Context, v *Version) error
	Delete(ctx context.Context, v *Version) error
	List(ctx context.Context, resourceType string, limit, offset int) ([]*Version, int, error)
	History(ctx context.Context, resourceType, id string, limit, offset int) ([]*Version, int, error)
	Version(ctx context.Context, resourceType, id string, versionID int) (*Version, error)
}
