package dato

import (
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/dato-client/internal/jsonapi"
)

// Webhook entity types.
const (
	WebhookEntityItem            = "item"
	WebhookEntityItemType        = "item_type"
	WebhookEntityUpload          = "upload"
	WebhookEntityBuildTrigger    = "build_trigger"
	WebhookEntityEnvironment     = "environment"
	WebhookEntityMaintenanceMode = "maintenance_mode"
	WebhookEntitySSOUser         = "sso_user"
	WebhookEntityCDACacheTags    = "cda_cache_tags"
)

// Webhook event types.
const (
	WebhookEventCreate    = "create"
	WebhookEventUpdate    = "update"
	WebhookEventDelete    = "delete"
	WebhookEventPublish   = "publish"
	WebhookEventUnpublish = "unpublish"
)

// WebhookEvent is the body DatoCMS posts to a webhook URL. Entities are
// JSON:API resource objects as sent.
type WebhookEvent struct {
	WebhookCallID   string            `json:"webhook_call_id,omitempty"  yaml:"webhook_call_id,omitempty"`
	Environment     string            `json:"environment"                yaml:"environment"`
	EntityType      string            `json:"entity_type"                yaml:"entity_type"`
	EventType       string            `json:"event_type"                 yaml:"event_type"`
	Entity          json.RawMessage   `json:"entity"                     yaml:"-"`
	PreviousEntity  json.RawMessage   `json:"previous_entity,omitempty"  yaml:"-"`
	RelatedEntities []json.RawMessage `json:"related_entities,omitempty" yaml:"-"`
}

// ParseWebhookEvent decodes and validates a webhook body.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent

	err := json.Unmarshal(body, &event)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWebhookPayload, err)
	}

	if event.EntityType == "" || event.EventType == "" {
		return nil, fmt.Errorf("%w: entity_type and event_type are required", ErrInvalidWebhookPayload)
	}

	return &event, nil
}

// EntityID returns the id of the entity, or "" when absent.
func (e *WebhookEvent) EntityID() string {
	if len(e.Entity) == 0 {
		return ""
	}

	var ref struct {
		ID string `json:"id"`
	}

	if json.Unmarshal(e.Entity, &ref) != nil {
		return ""
	}

	return ref.ID
}

// DecodeEntity flattens the entity into v, e.g. an *Item for item events.
func (e *WebhookEvent) DecodeEntity(v interface{}) error {
	err := jsonapi.UnmarshalResource(e.Entity, v)
	if err != nil {
		return fmt.Errorf("decoding webhook entity: %w", err)
	}

	return nil
}

// DecodePreviousEntity flattens the entity as it was before the event into v.
func (e *WebhookEvent) DecodePreviousEntity(v interface{}) error {
	err := jsonapi.UnmarshalResource(e.PreviousEntity, v)
	if err != nil {
		return fmt.Errorf("decoding previous webhook entity: %w", err)
	}

	return nil
}
