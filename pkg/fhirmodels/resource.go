package fhirmodels

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrMissingResourceType is returned when a JSON object that must be a
// resource has no resourceType property.
var ErrMissingResourceType = errors.New("resourceType is required")

// ResourceTypeError reports a resourceType that does not match the Go type
// the JSON is being decoded into.
type ResourceTypeError struct {
	Want string
	Got  string
}

func (e *ResourceTypeError) Error() string {
	return fmt.Sprintf("resourceType %q does not match expected %q", e.Got, e.Want)
}

// Resource is implemented by every typed resource (as a pointer) and by
// RawResource.
type Resource interface {
	ResourceType() string
	Base() *ResourceBase
}

// ResourceBase holds the elements shared by all resources.
type ResourceBase struct {
	ID            string `json:"id,omitempty"`
	Meta          *Meta  `json:"meta,omitempty"`
	ImplicitRules string `json:"implicitRules,omitempty"`
	Language      string `json:"language,omitempty"`
}

func (b *ResourceBase) Base() *ResourceBase { return b }

// DomainResource is the base of all resources that carry narrative,
// contained resources and extensions.
type DomainResource struct {
	ResourceBase
	Text              *Narrative          `json:"text,omitempty"`
	Contained         []ResourceContainer `json:"contained,omitempty"`
	Extension         []Extension         `json:"extension,omitempty"`
	ModifierExtension []Extension         `json:"modifierExtension,omitempty"`
}

// FindContained returns the contained resource with the given local id.
// A leading '#' is accepted so a Reference value can be passed directly.
func (d *DomainResource) FindContained(id string) Resource {
	id = strings.TrimPrefix(id, "#")
	for _, c := range d.Contained {
		if c.Resource != nil && c.Resource.Base().ID == id {
			return c.Resource
		}
	}
	return nil
}

// ReferenceTo returns the relative literal reference "Type/id" for r.
func ReferenceTo(r Resource) string {
	return r.ResourceType() + "/" + r.Base().ID
}

// ResourceContainer holds a resource whose type is only known at runtime:
// contained resources, bundle entries, Parameters values.
type ResourceContainer struct {
	Resource Resource
}

// Contain wraps r for use in a contained list or bundle entry.
func Contain(r Resource) *ResourceContainer {
	return &ResourceContainer{Resource: r}
}

func (c ResourceContainer) MarshalJSON() ([]byte, error) {
	if c.Resource == nil {
		return []byte("null"), nil
	}
	return Marshal(c.Resource)
}

func (c *ResourceContainer) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		c.Resource = nil
		return nil
	}
	r, err := DecodeResource(data)
	if err != nil {
		return err
	}
	c.Resource = r
	return nil
}

// RawResource keeps a resource of a type that has no Go model. It
// re-serializes to the JSON it was decoded from, with any changes made to
// its ResourceBase applied on top.
type RawResource struct {
	Type string
	Raw  json.RawMessage
	base ResourceBase
}

func (r *RawResource) ResourceType() string { return r.Type }
func (r *RawResource) Base() *ResourceBase  { return &r.base }

func (r *RawResource) UnmarshalJSON(data []byte) error {
	var head struct {
		ResourceType string `json:"resourceType"`
		ResourceBase
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	if head.ResourceType == "" {
		return ErrMissingResourceType
	}
	r.Type = head.ResourceType
	r.base = head.ResourceBase
	r.Raw = append(r.Raw[:0], data...)
	return nil
}

func (r RawResource) MarshalJSON() ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if len(r.Raw) > 0 {
		if err := json.Unmarshal(r.Raw, &fields); err != nil {
			return nil, err
		}
	}
	set := func(key string, v any, empty bool) error {
		if empty {
			return nil
		}
		b, err := Marshal(v)
		if err != nil {
			return err
		}
		fields[key] = b
		return nil
	}
	if err := set("id", r.base.ID, r.base.ID == ""); err != nil {
		return nil, err
	}
	if err := set("meta", r.base.Meta, r.base.Meta == nil); err != nil {
		return nil, err
	}
	if err := set("implicitRules", r.base.ImplicitRules, r.base.ImplicitRules == ""); err != nil {
		return nil, err
	}
	if err := set("language", r.base.Language, r.base.Language == ""); err != nil {
		return nil, err
	}
	typ, _ := Marshal(r.Type)
	fields["resourceType"] = typ
	return Marshal(fields)
}

// DecodeResource decodes data into the registered Go model for its
// resourceType, or into a RawResource when the type has no model.
func DecodeResource(data []byte) (Resource, error) {
	rt, err := PeekResourceType(data)
	if err != nil {
		return nil, err
	}
	if rt == "" {
		return nil, ErrMissingResourceType
	}
	r, ok := NewResource(rt)
	if !ok {
		r = &RawResource{}
	}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, err
	}
	return r, nil
}

// PeekResourceType returns the resourceType of a JSON object without
// decoding the rest of it. It returns "" when the property is absent.
func PeekResourceType(data []byte) (string, error) {
	var head struct {
		ResourceType *json.RawMessage `json:"resourceType"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", err
	}
	if head.ResourceType == nil {
		return "", nil
	}
	var rt string
	if err := json.Unmarshal(*head.ResourceType, &rt); err != nil {
		return "", fmt.Errorf("resourceType must be a string")
	}
	return rt, nil
}

// Marshal encodes v as JSON without escaping '<', '>' and '&', so narrative
// XHTML is written the way it was read. Resources must be encoded with it
// rather than json.Marshal, which escapes again after MarshalJSON.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// marshalResource encodes v (an alias of a resource struct without methods)
// and prepends the resourceType property.
func marshalResource(resourceType string, v any) ([]byte, error) {
	body, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(body) + len(resourceType) + 20)
	buf.WriteString(`{"resourceType":`)
	typ, _ := Marshal(resourceType)
	buf.Write(typ)
	if len(body) > 2 {
		buf.WriteByte(',')
		buf.Write(body[1:])
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

// unmarshalResource verifies the resourceType of data and decodes it into v.
// A missing resourceType is tolerated here; the parser enforces presence at
// the top level.
func unmarshalResource(resourceType string, data []byte, v any) error {
	rt, err := PeekResourceType(data)
	if err != nil {
		return err
	}
	if rt != "" && rt != resourceType {
		return &ResourceTypeError{Want: resourceType, Got: rt}
	}
	return json.Unmarshal(data, v)
}

var (
	containerType    = reflect.TypeOf(ResourceContainer{})
	containerPtrType = reflect.TypeOf(&ResourceContainer{})
)

// VisitResources calls fn for every resource nested in root (contained
// resources, bundle entries, parameter values), depth first. The path uses
// JSON element names, e.g. "entry[2].resource".
func VisitResources(root Resource, fn func(path string, r Resource)) {
	if root == nil {
		return
	}
	if _, raw := root.(*RawResource); raw {
		return
	}
	visitValue(reflect.ValueOf(root), "", fn)
}

func visitValue(v reflect.Value, path string, fn func(string, Resource)) {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return
		}
		if v.Type() == containerPtrType {
			visitContainer(v.Elem().Interface().(ResourceContainer), path, fn)
			return
		}
		visitValue(v.Elem(), path, fn)
	case reflect.Struct:
		if v.Type() == containerType {
			visitContainer(v.Interface().(ResourceContainer), path, fn)
			return
		}
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			if f.Anonymous {
				visitValue(v.Field(i), path, fn)
				continue
			}
			visitValue(v.Field(i), joinPath(path, jsonName(f)), fn)
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			visitValue(v.Index(i), fmt.Sprintf("%s[%d]", path, i), fn)
		}
	}
}

func visitContainer(c ResourceContainer, path string, fn func(string, Resource)) {
	if c.Resource == nil {
		return
	}
	fn(path, c.Resource)
	VisitResources(c.Resource, func(sub string, r Resource) {
		fn(joinPath(path, sub), r)
	})
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return f.Name
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
