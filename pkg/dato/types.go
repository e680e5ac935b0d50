package dato

import (
	"encoding/json"
)

// Ref is a resource linkage: the simplified form of a relationship.
type Ref struct {
	Type string `json:"type" yaml:"type"`
	ID   string `json:"id"   yaml:"id"`
}

// NewRef builds a Ref.
func NewRef(resourceType, id string) Ref {
	return Ref{Type: resourceType, ID: id}
}

// Refs builds a slice of Refs of one type.
func Refs(resourceType string, ids ...string) []Ref {
	refs := make([]Ref, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, Ref{Type: resourceType, ID: id})
	}

	return refs
}

// ListMeta is the meta block of a collection response.
type ListMeta struct {
	TotalCount int `json:"total_count" yaml:"total_count"`
	// NextCursor is set by cursor-paginated endpoints.
	NextCursor string `json:"next_cursor,omitempty" yaml:"next_cursor,omitempty"`
}

// ListResponse represents one page of a collection.
type ListResponse[T any] struct {
	Data []T      `json:"data" yaml:"data"`
	Meta ListMeta `json:"meta" yaml:"meta"`
}

// Job is returned by endpoints that complete asynchronously.
type Job struct {
	ID   string `json:"id"   yaml:"id"`
	Type string `json:"type" yaml:"type"`
}

// JobResult is the outcome of a Job.
type JobResult struct {
	ID      string          `json:"id"      yaml:"id"`
	Type    string          `json:"type"    yaml:"type"`
	Status  int             `json:"status"  yaml:"status"`
	Payload json.RawMessage `json:"payload" yaml:"-"`
}

// Succeeded reports whether the job finished with a 2xx status.
func (r *JobResult) Succeeded() bool {
	return r.Status >= 200 && r.Status < 300
}

// Err converts a failed job result into an APIError.
func (r *JobResult) Err() error {
	if r.Succeeded() {
		return nil
	}

	return ParseAPIError(r.Status, r.Payload)
}

// Include represents include parameters for API requests.
type Include []string
