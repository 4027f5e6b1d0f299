package dto

import "encoding/json"

// BucketItemRequestDTO is the body of create and update. Omitted fields bind to null/false
// and overwrite the stored values on update.
type BucketItemRequestDTO struct {
	// ID is accepted in any JSON form and ignored; the path or the store decides identity.
	ID          json.RawMessage `json:"id"`
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Completed   bool            `json:"completed"`
}

// HasID reports whether the body carried a non-null id.
func (r *BucketItemRequestDTO) HasID() bool {
	return len(r.ID) > 0 && string(r.ID) != "null"
}
