package resource

import (
	"errors"
	"strconv"
	"time"

	"github.com/ehr/fhirstu3/pkg/fhirmodels"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrGone               = errors.New("resource deleted")
	ErrUnknownType        = errors.New("unknown resource type")
	ErrIDMismatch         = errors.New("resource id does not match request id")
	ErrVersionConflict    = errors.New("resource version conflict")
	ErrPreconditionFailed = errors.New("resource version precondition failed")
	ErrAlreadyExists      = errors.New("resource already exists")
)

// Version is one stored version of a resource. Body holds the encoded
// resource and is nil when the version records a deletion.
type Version struct {
	ResourceType string
	ID           string
	VersionID    int
	LastUpdated  time.Time
	Method       string
	Deleted      bool
	Body         []byte
}

// Key identifies the resource in "Type/id" form.
func (v *Version) Key() string {
	return v.ResourceType + "/" + v.ID
}

// Decode returns the stored resource. Stored bodies were written by this
// package, so they are decoded without strict checks.
func (v *Version) Decode() (fhirmodels.Resource, error) {
	if v.Body == nil {
		return nil, ErrGone
	}
	return fhirmodels.DecodeResource(v.Body)
}

// stamp sets the version metadata a stored resource carries.
func stamp(r fhirmodels.Resource, versionID int, at time.Time) {
	base := r.Base()
	if base.Meta == nil {
		base.Meta = &fhirmodels.Meta{}
	}
	base.Meta.VersionID = strconv.Itoa(versionID)
	base.Meta.LastUpdated = at.UTC().Format(instantLayout)
}

const instantLayout = "2006-01-02T15:04:05.000Z07:00"
