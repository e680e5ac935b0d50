// Package jsonapi converts between JSON:API documents and the flat resource
// form used by the typed client: id, type, attributes, relationship linkage
// and meta all become top-level members of one object.
package jsonapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Static errors for err113 compliance.
var (
	ErrNoData          = errors.New("document has no data")
	ErrNotAResource    = errors.New("data is not a resource object")
	ErrTypeNotFound    = errors.New("no resource of the requested type")
	ErrMissingType     = errors.New("resource type is required")
	ErrInvalidResource = errors.New("attributes must encode to a JSON object")
	ErrInvalidID       = errors.New("id must be a string or a number")
)

// Reserved member names of the flat form.
const (
	keyID   = "id"
	keyType = "type"
	keyMeta = "meta"
)

var jsonNull = []byte("null")

// Resource is a JSON:API resource object.
type Resource struct {
	ID            string                     `json:"id,omitempty"`
	Type          string                     `json:"type"`
	Attributes    map[string]json.RawMessage `json:"attributes,omitempty"`
	Relationships map[string]Relationship    `json:"relationships,omitempty"`
	Meta          json.RawMessage            `json:"meta,omitempty"`
}

// Relationship holds resource linkage: a {type,id} object, an array of them, or null.
type Relationship struct {
	Data json.RawMessage `json:"data"`
}

// Document is a top-level JSON:API document.
type Document struct {
	Data     json.RawMessage `json:"data"`
	Meta     json.RawMessage `json:"meta,omitempty"`
	Included []Resource      `json:"included,omitempty"`
}

// Flatten returns the flat form of a resource.
func (r *Resource) Flatten() map[string]json.RawMessage {
	flat := make(map[string]json.RawMessage, len(r.Attributes)+len(r.Relationships)+3)

	for key, value := range r.Attributes {
		flat[key] = value
	}

	for key, relationship := range r.Relationships {
		if len(relationship.Data) == 0 {
			flat[key] = jsonNull

			continue
		}

		flat[key] = relationship.Data
	}

	flat[keyID] = mustQuote(r.ID)
	flat[keyType] = mustQuote(r.Type)

	if len(r.Meta) > 0 {
		flat[keyMeta] = r.Meta
	}

	return flat
}

func mustQuote(value string) json.RawMessage {
	data, _ := json.Marshal(value)

	return data
}

// ParseDocument decodes a response body.
func ParseDocument(body []byte) (*Document, error) {
	var doc Document

	err := json.Unmarshal(body, &doc)
	if err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	return &doc, nil
}

// IsArray reports whether the document data is an array.
func (d *Document) IsArray() bool {
	trimmed := bytes.TrimSpace(d.Data)

	return len(trimmed) > 0 && trimmed[0] == '['
}

// IsNull reports whether the document has no data.
func (d *Document) IsNull() bool {
	trimmed := bytes.TrimSpace(d.Data)

	return len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull)
}

// Resources returns the resource objects of the document data.
func (d *Document) Resources() ([]Resource, error) {
	if d.IsNull() {
		return nil, ErrNoData
	}

	if d.IsArray() {
		var resources []Resource

		err := json.Unmarshal(d.Data, &resources)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotAResource, err)
		}

		return resources, nil
	}

	var resource Resource

	err := json.Unmarshal(d.Data, &resource)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAResource, err)
	}

	return []Resource{resource}, nil
}

// FlatData returns the flat form of the document data: an object for a single
// resource, an array for a collection.
func (d *Document) FlatData() ([]byte, error) {
	resources, err := d.Resources()
	if err != nil {
		return nil, err
	}

	if !d.IsArray() {
		return json.Marshal(resources[0].Flatten())
	}

	flat := make([]map[string]json.RawMessage, 0, len(resources))
	for i := range resources {
		flat = append(flat, resources[i].Flatten())
	}

	return json.Marshal(flat)
}

// Unmarshal decodes the data of a document into v: a struct pointer for a
// single resource, a slice pointer for a collection.
func Unmarshal(body []byte, v interface{}) error {
	doc, err := ParseDocument(body)
	if err != nil {
		return err
	}

	return doc.UnmarshalData(v)
}

// UnmarshalData decodes the flat data into v.
func (d *Document) UnmarshalData(v interface{}) error {
	flat, err := d.FlatData()
	if err != nil {
		return err
	}

	err = json.Unmarshal(flat, v)
	if err != nil {
		return fmt.Errorf("decoding resource: %w", err)
	}

	return nil
}

// UnmarshalMeta decodes the top-level meta into v. Missing meta leaves v untouched.
func (d *Document) UnmarshalMeta(v interface{}) error {
	if len(d.Meta) == 0 {
		return nil
	}

	err := json.Unmarshal(d.Meta, v)
	if err != nil {
		return fmt.Errorf("decoding meta: %w", err)
	}

	return nil
}

// UnmarshalOfType decodes the first resource of resourceType found in the
// document data, whether the data is a single resource or an array.
func UnmarshalOfType(body []byte, resourceType string, v interface{}) error {
	doc, err := ParseDocument(body)
	if err != nil {
		return err
	}

	resources, err := doc.Resources()
	if err != nil {
		return err
	}

	for i := range resources {
		if resources[i].Type != resourceType {
			continue
		}

		flat, err := json.Marshal(resources[i].Flatten())
		if err != nil {
			return fmt.Errorf("encoding resource: %w", err)
		}

		err = json.Unmarshal(flat, v)
		if err != nil {
			return fmt.Errorf("decoding resource: %w", err)
		}

		return nil
	}

	return fmt.Errorf("%w: %s", ErrTypeNotFound, resourceType)
}

// UnmarshalResource decodes a bare resource object (not wrapped in a document) into v.
func UnmarshalResource(raw []byte, v interface{}) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ErrNoData
	}

	var resource Resource

	err := json.Unmarshal(raw, &resource)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotAResource, err)
	}

	flat, err := json.Marshal(resource.Flatten())
	if err != nil {
		return fmt.Errorf("encoding resource: %w", err)
	}

	err = json.Unmarshal(flat, v)
	if err != nil {
		return fmt.Errorf("decoding resource: %w", err)
	}

	return nil
}

// ResourceTypeOf returns the type and id of the document data when it is a single resource.
func ResourceTypeOf(body []byte) (resourceType, id string, ok bool) {
	doc, err := ParseDocument(body)
	if err != nil || doc.IsNull() || doc.IsArray() {
		return "", "", false
	}

	var ref struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}

	if json.Unmarshal(doc.Data, &ref) != nil {
		return "", "", false
	}

	return ref.Type, ref.ID, true
}

// decodeID reads an id member. Numeric ids keep their literal text and null
// means no id.
func decodeID(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, jsonNull) {
		return "", nil
	}

	var id string
	if json.Unmarshal(trimmed, &id) == nil {
		return id, nil
	}

	var number json.Number
	if json.Unmarshal(trimmed, &number) == nil {
		return number.String(), nil
	}

	return "", fmt.Errorf("%w: %s", ErrInvalidID, trimmed)
}

// Marshal builds a request document from a flat value. Members named in
// relationships are sent as relationship linkage, "id" and "meta" stay at the
// top level of the resource, and everything else becomes an attribute. A
// non-empty id argument overrides any id member of attributes.
func Marshal(resourceType, id string, attributes interface{}, relationships []string) ([]byte, error) {
	if resourceType == "" {
		return nil, ErrMissingType
	}

	flat := map[string]json.RawMessage{}

	if attributes != nil {
		encoded, err := json.Marshal(attributes)
		if err != nil {
			return nil, fmt.Errorf("encoding attributes: %w", err)
		}

		if !bytes.Equal(bytes.TrimSpace(encoded), jsonNull) {
			err = json.Unmarshal(encoded, &flat)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidResource, err)
			}
		}
	}

	resource := Resource{Type: resourceType, ID: id}

	if raw, ok := flat[keyID]; ok {
		if resource.ID == "" {
			decoded, err := decodeID(raw)
			if err != nil {
				return nil, err
			}

			resource.ID = decoded
		}

		delete(flat, keyID)
	}

	delete(flat, keyType)

	if raw, ok := flat[keyMeta]; ok {
		resource.Meta = raw
		delete(flat, keyMeta)
	}

	for _, name := range relationships {
		raw, ok := flat[name]
		if !ok {
			continue
		}

		if resource.Relationships == nil {
			resource.Relationships = make(map[string]Relationship)
		}

		resource.Relationships[name] = Relationship{Data: raw}
		delete(flat, name)
	}

	if len(flat) > 0 {
		resource.Attributes = flat
	}

	body, err := json.Marshal(struct {
		Data Resource `json:"data"`
	}{Data: resource})
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}

	return body, nil
}
