package resource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ehr/fhirstu3/internal/platform/fhir"
	"github.com/ehr/fhirstu3/pkg/fhirmodels"
	"github.com/ehr/fhirstu3/pkg/fhirparser"
)

// ValidationError reports a resource body that failed validation.
type ValidationError struct {
	Result *fhir.ValidationResult
}

func (e *ValidationError) Error() string {
	if len(e.Result.Issues) == 0 {
		return "resource is invalid"
	}
	first := e.Result.Issues[0]
	return fmt.Sprintf("resource is invalid: %s", first.Diagnostics)
}

type Service struct {
	repo      Repository
	parser    *fhirparser.Parser
	store     *fhirparser.Parser
	validator *fhir.Validator
	logger    zerolog.Logger
	now       func() time.Time
	newID     func() string
}

func NewService(repo Repository, p *fhirparser.Parser, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		parser:    p,
		store:     fhirparser.New(),
		validator: fhir.NewValidator(p),
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *Service) checkType(resourceType string) error {
	if !fhirmodels.IsKnownType(resourceType) {
		return fmt.Errorf("%w: %s", ErrUnknownType, resourceType)
	}
	return nil
}

// parse decodes body and validates it as a resourceType resource.
func (s *Service) parse(resourceType string, body []byte, requireID bool) (fhirmodels.Resource, error) {
	r, err := s.parser.Parse(body)
	if err != nil {
		return nil, err
	}
	result := s.validator.ValidateResource(body, fhir.ValidateOptions{
		ResourceType: resourceType,
		RequireID:    requireID,
	})
	if !result.Valid {
		return nil, &ValidationError{Result: result}
	}
	return r, nil
}

func (s *Service) encode(r fhirmodels.Resource, versionID int, at time.Time) ([]byte, error) {
	stamp(r, versionID, at)
	body, err := s.store.FromFhir(r)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.ResourceType(), err)
	}
	return body, nil
}

// Create stores body as a new resource under a server-assigned id.
func (s *Service) Create(ctx context.Context, resourceType string, body []byte) (fhirmodels.Resource, error) {
	if err := s.checkType(resourceType); err != nil {
		return nil, err
	}
	r, err := s.parse(resourceType, body, false)
	if err != nil {
		return nil, err
	}
	r.Base().ID = s.newID()
	at := s.now()
	stored, err := s.encode(r, 1, at)
	if err != nil {
		return nil, err
	}
	v := &Version{
		ResourceType: resourceType,
		ID:           r.Base().ID,
		VersionID:    1,
		LastUpdated:  at,
		Method:       fhirmodels.HTTPVerbPost,
		Body:         stored,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	s.logger.Debug().Str("resource", v.Key()).Msg("resource created")
	return r, nil
}

// Read returns the current version of a resource.
func (s *Service) Read(ctx context.Context, resourceType, id string) (fhirmodels.Resource, error) {
	if err := s.checkType(resourceType); err != nil {
		return nil, err
	}
	v, err := s.repo.Get(ctx, resourceType, id)
	if err != nil {
		return nil, err
	}
	if v.Deleted {
		return nil, ErrGone
	}
	return v.Decode()
}

// CurrentVersion returns the version id of the stored resource, or 0 when it
// has never been stored. Deleted resources report their deletion version.
func (s *Service) CurrentVersion(ctx context.Context, resourceType, id string) (int, error) {
	v, err := s.repo.Get(ctx, resourceType, id)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return v.VersionID, nil
}

// Update stores body as the next version of resourceType/id, creating the
// resource when it does not exist. expected, when non-zero, is the version
// the caller based its change on. The boolean result reports a create.
func (s *Service) Update(ctx context.Context, resourceType, id string, body []byte, expected int) (fhirmodels.Resource, bool, error) {
	if err := s.checkType(resourceType); err != nil {
		return nil, false, err
	}
	r, err := s.parse(resourceType, body, true)
	if err != nil {
		return nil, false, err
	}
	if r.Base().ID != id {
		return nil, false, fmt.Errorf("%w: body has %q, url has %q", ErrIDMismatch, r.Base().ID, id)
	}

	current, err := s.repo.Get(ctx, resourceType, id)
	if errors.Is(err, ErrNotFound) {
		if expected > 0 {
			return nil, false, ErrPreconditionFailed
		}
		at := s.now()
		stored, err := s.encode(r, 1, at)
		if err != nil {
			return nil, false, err
		}
		v := &Version{ResourceType: resourceType, ID: id, VersionID: 1, LastUpdated: at, Method: fhirmodels.HTTPVerbPut, Body: stored}
		if err := s.repo.Create(ctx, v); err != nil {
			if errors.Is(err, ErrAlreadyExists) {
				return nil, false, ErrVersionConflict
			}
			return nil, false, err
		}
		return r, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	if expected > 0 && expected != current.VersionID {
		return nil, false, ErrPreconditionFailed
	}

	at := s.now()
	next := current.VersionID + 1
	stored, err := s.encode(r, next, at)
	if err != nil {
		return nil, false, err
	}
	v := &Version{ResourceType: resourceType, ID: id, VersionID: next, LastUpdated: at, Method: fhirmodels.HTTPVerbPut, Body: stored}
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, false, err
	}
	s.logger.Debug().Str("resource", v.Key()).Int("version", next).Msg("resource updated")
	return r, false, nil
}

// Delete records a deletion of resourceType/id. Deleting an already deleted
// resource succeeds without writing a new version.
func (s *Service) Delete(ctx context.Context, resourceType, id string, expected int) error {
	if err := s.checkType(resourceType); err != nil {
		return err
	}
	current, err := s.repo.Get(ctx, resourceType, id)
	if err != nil {
		return err
	}
	if expected > 0 && expected != current.VersionID {
		return ErrPreconditionFailed
	}
	if current.Deleted {
		return nil
	}
	v := &Version{
		ResourceType: resourceType,
		ID:           id,
		VersionID:    current.VersionID + 1,
		LastUpdated:  s.now(),
		Method:       fhirmodels.HTTPVerbDelete,
		Deleted:      true,
	}
	if err := s.repo.Delete(ctx, v); err != nil {
		return err
	}
	s.logger.Debug().Str("resource", v.Key()).Msg("resource deleted")
	return nil
}

// Search returns one page of the live resources of resourceType.
func (s *Service) Search(ctx context.Context, resourceType string, limit, offset int) ([]fhirmodels.Resource, int, error) {
	if err := s.checkType(resourceType); err != nil {
		return nil, 0, err
	}
	versions, total, err := s.repo.List(ctx, resourceType, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	out := make([]fhirmodels.Resource, 0, len(versions))
	for _, v := range versions {
		r, err := v.Decode()
		if err != nil {
			return nil, 0, fmt.Errorf("decode %s: %w", v.Key(), err)
		}
		out = append(out, r)
	}
	return out, total, nil
}

// History returns one page of the versions of resourceType/id, newest first.
func (s *Service) History(ctx context.Context, resourceType, id string, limit, offset int) ([]*Version, int, error) {
	if err := s.checkType(resourceType); err != nil {
		return nil, 0, err
	}
	return s.repo.History(ctx, resourceType, id, limit, offset)
}

// VRead returns a specific version of a resource.
func (s *Service) VRead(ctx context.Context, resourceType, id string, versionID int) (fhirmodels.Resource, error) {
	if err := s.checkType(resourceType); err != nil {
		return nil, err
	}
	v, err := s.repo.Version(ctx, resourceType, id, versionID)
	if err != nil {
		return nil, err
	}
	return v.Decode()
}
