package dato

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Resource types as they appear in the "type" member of resource objects.
const (
	TypeSite                     = "site"
	TypeItemType                 = "item_type"
	TypeField                    = "field"
	TypeItem                     = "item"
	TypeItemVersion              = "item_version"
	TypeUpload                   = "upload"
	TypeUploadRequest            = "upload_request"
	TypeUser                     = "user"
	TypeRole                     = "role"
	TypeAccessToken              = "access_token"
	TypeEnvironment              = "environment"
	TypeWebhook                  = "webhook"
	TypeWebhookCall              = "webhook_call"
	TypeMaintenanceMode          = "maintenance_mode"
	TypePlugin                   = "plugin"
	TypeJob                      = "job"
	TypeJobResult                = "job_result"
	TypeAccount                  = "account"
	TypeItemBulkPublish          = "item_bulk_publish_operation"
	TypeItemBulkUnpublish        = "item_bulk_unpublish_operation"
	TypeItemBulkDestroy          = "item_bulk_destroy_operation"
	TypeItemBulkMoveToStage      = "item_bulk_move_to_stage_operation"
	TypeUploadBulkTag            = "upload_bulk_tag_operation"
	TypeUploadBulkDestroy        = "upload_bulk_destroy_operation"
	TypeSelectiveItemPublication = "selective_publish_item_operation"
	TypeSelectiveItemUnpublish   = "selective_unpublish_item_operation"
)

// Site represents the project settings of the current environment.
type Site struct {
	ID                    string          `json:"id"                                yaml:"id"`
	Type                  string          `json:"type"                              yaml:"type"`
	Name                  string          `json:"name"                              yaml:"name"`
	Domain                *string         `json:"domain"                            yaml:"domain"`
	InternalDomain        string          `json:"internal_domain"                   yaml:"internal_domain"`
	Locales               []string        `json:"locales"                           yaml:"locales"`
	Timezone              string          `json:"timezone"                          yaml:"timezone"`
	NoIndex               bool            `json:"no_index"                          yaml:"no_index"`
	ImgixHost             string          `json:"imgix_host,omitempty"              yaml:"imgix_host,omitempty"`
	RequireTwoFactorAuth  bool            `json:"require_2fa,omitempty"             yaml:"require_2fa,omitempty"`
	Theme                 json.RawMessage `json:"theme,omitempty"                   yaml:"-"`
	GlobalSEO             json.RawMessage `json:"global_seo,omitempty"              yaml:"-"`
	ItemTypes             []Ref           `json:"item_types,omitempty"              yaml:"item_types,omitempty"`
	Meta                  SiteMeta        `json:"meta"                              yaml:"meta"`
	CrossLocaleValidation bool            `json:"cross_locale_validation,omitempty" yaml:"cross_locale_validation,omitempty"`
}

// SiteMeta holds read-only site information.
type SiteMeta struct {
	CreatedAt              time.Time `json:"created_at"                             yaml:"created_at"`
	ImprovedTimezoneManage bool      `json:"improved_timezone_management,omitempty" yaml:"improved_timezone_management,omitempty"`
}

// SiteUpdateRequest updates site settings.
type SiteUpdateRequest struct {
	Name     *string  `json:"name,omitempty"     yaml:"name,omitempty"`
	Locales  []string `json:"locales,omitempty"  yaml:"locales,omitempty"`
	Timezone *string  `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	NoIndex  *bool    `json:"no_index,omitempty" yaml:"no_index,omitempty"`
}

// ItemType is a model (or block model) definition.
type ItemType struct {
	ID                   string `json:"id"                    yaml:"id"`
	Type                 string `json:"type"                  yaml:"type"`
	Name                 string `json:"name"                  yaml:"name"`
	APIKey               string `json:"api_key"               yaml:"api_key"`
	Singleton            bool   `json:"singleton"             yaml:"singleton"`
	Sortable             bool   `json:"sortable"              yaml:"sortable"`
	ModularBlock         bool   `json:"modular_block"         yaml:"modular_block"`
	Tree                 bool   `json:"tree"                  yaml:"tree"`
	DraftModeActive      bool   `json:"draft_mode_active"     yaml:"draft_mode_active"`
	AllLocalesRequired   bool   `json:"all_locales_required"  yaml:"all_locales_required"`
	CollectionAppearance string `json:"collection_appearance" yaml:"collection_appearance"`
	Hint                 string `json:"hint,omitempty"        yaml:"hint,omitempty"`
	Fields               []Ref  `json:"fields,omitempty"      yaml:"fields,omitempty"`
	TitleField           *Ref   `json:"title_field,omitempty" yaml:"title_field,omitempty"`
	Workflow             *Ref   `json:"workflow,omitempty"    yaml:"workflow,omitempty"`
}

// ItemTypeCreateRequest creates a model.
type ItemTypeCreateRequest struct {
	ID                 string `json:"id,omitempty"                   yaml:"id,omitempty"`
	Name               string `json:"name"                           yaml:"name"`
	APIKey             string `json:"api_key"                        yaml:"api_key"`
	Singleton          bool   `json:"singleton,omitempty"            yaml:"singleton,omitempty"`
	Sortable           bool   `json:"sortable,omitempty"             yaml:"sortable,omitempty"`
	ModularBlock       bool   `json:"modular_block,omitempty"        yaml:"modular_block,omitempty"`
	Tree               bool   `json:"tree,omitempty"                 yaml:"tree,omitempty"`
	DraftModeActive    bool   `json:"draft_mode_active,omitempty"    yaml:"draft_mode_active,omitempty"`
	AllLocalesRequired bool   `json:"all_locales_required,omitempty" yaml:"all_locales_required,omitempty"`
	Hint               string `json:"hint,omitempty"                 yaml:"hint,omitempty"`
}

// ItemTypeUpdateRequest updates a model.
type ItemTypeUpdateRequest struct {
	Name            *string `json:"name,omitempty"              yaml:"name,omitempty"`
	APIKey          *string `json:"api_key,omitempty"           yaml:"api_key,omitempty"`
	Sortable        *bool   `json:"sortable,omitempty"          yaml:"sortable,omitempty"`
	DraftModeActive *bool   `json:"draft_mode_active,omitempty" yaml:"draft_mode_active,omitempty"`
	Hint            *string `json:"hint,omitempty"              yaml:"hint,omitempty"`
	TitleField      *Ref    `json:"title_field,omitempty"       yaml:"title_field,omitempty"`
}

// ItemTypeRelationships lists relationship members of item type payloads.
var ItemTypeRelationships = []string{"title_field", "image_preview_field", "excerpt_field", "ordering_field", "workflow"}

// Field is a model field definition.
type Field struct {
	ID           string                 `json:"id"                      yaml:"id"`
	Type         string                 `json:"type"                    yaml:"type"`
	Label        string                 `json:"label"                   yaml:"label"`
	APIKey       string                 `json:"api_key"                 yaml:"api_key"`
	FieldType    string                 `json:"field_type"              yaml:"field_type"`
	Localized    bool                   `json:"localized"               yaml:"localized"`
	Hint         *string                `json:"hint"                    yaml:"hint"`
	Position     int                    `json:"position"                yaml:"position"`
	Validators   map[string]interface{} `json:"validators"              yaml:"validators"`
	Appearance   map[string]interface{} `json:"appearance,omitempty"    yaml:"appearance,omitempty"`
	DefaultValue interface{}            `json:"default_value,omitempty" yaml:"default_value,omitempty"`
	ItemType     Ref                    `json:"item_type"               yaml:"item_type"`
	Fieldset     *Ref                   `json:"fieldset,omitempty"      yaml:"fieldset,omitempty"`
}

// FieldCreateRequest creates a field.
type FieldCreateRequest struct {
	ID           string                 `json:"id,omitempty"            yaml:"id,omitempty"`
	Label        string                 `json:"label"                   yaml:"label"`
	APIKey       string                 `json:"api_key"                 yaml:"api_key"`
	FieldType    string                 `json:"field_type"              yaml:"field_type"`
	Localized    bool                   `json:"localized,omitempty"     yaml:"localized,omitempty"`
	Hint         string                 `json:"hint,omitempty"          yaml:"hint,omitempty"`
	Position     *int                   `json:"position,omitempty"      yaml:"position,omitempty"`
	Validators   map[string]interface{} `json:"validators,omitempty"    yaml:"validators,omitempty"`
	Appearance   map[string]interface{} `json:"appearance,omitempty"    yaml:"appearance,omitempty"`
	DefaultValue interface{}            `json:"default_value,omitempty" yaml:"default_value,omitempty"`
	Fieldset     *Ref                   `json:"fieldset,omitempty"      yaml:"fieldset,omitempty"`
}

// FieldUpdateRequest updates a field.
type FieldUpdateRequest struct {
	Label        *string                `json:"label,omitempty"         yaml:"label,omitempty"`
	APIKey       *string                `json:"api_key,omitempty"       yaml:"api_key,omitempty"`
	Localized    *bool                  `json:"localized,omitempty"     yaml:"localized,omitempty"`
	Hint         *string                `json:"hint,omitempty"          yaml:"hint,omitempty"`
	Position     *int                   `json:"position,omitempty"      yaml:"position,omitempty"`
	Validators   map[string]interface{} `json:"validators,omitempty"    yaml:"validators,omitempty"`
	Appearance   map[string]interface{} `json:"appearance,omitempty"    yaml:"appearance,omitempty"`
	DefaultValue interface{}            `json:"default_value,omitempty" yaml:"default_value,omitempty"`
}

// FieldRelationships lists relationship members of field payloads.
var FieldRelationships = []string{"item_type", "fieldset"}

// ItemMeta is the read-only meta block of a record.
type ItemMeta struct {
	CreatedAt               time.Time  `json:"created_at"                          yaml:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"                          yaml:"updated_at"`
	PublishedAt             *time.Time `json:"published_at"                        yaml:"published_at"`
	FirstPublishedAt        *time.Time `json:"first_published_at"                  yaml:"first_published_at"`
	PublicationScheduledAt  *time.Time `json:"publication_scheduled_at,omitempty"  yaml:"publication_scheduled_at,omitempty"`
	UnpublishingScheduledAt *time.Time `json:"unpublishing_scheduled_at,omitempty" yaml:"unpublishing_scheduled_at,omitempty"`
	Status                  string     `json:"status"                              yaml:"status"`
	IsValid                 bool       `json:"is_valid"                            yaml:"is_valid"`
	IsCurrentVersionValid   *bool      `json:"is_current_version_valid,omitempty"  yaml:"is_current_version_valid,omitempty"`
	CurrentVersion          string     `json:"current_version"                     yaml:"current_version"`
	Stage                   *string    `json:"stage"                               yaml:"stage"`
}

// Record statuses.
const (
	ItemStatusDraft     = "draft"
	ItemStatusUpdated   = "updated"
	ItemStatusPublished = "published"
)

// Item is a record. Field values are keyed by field API key.
type Item struct {
	ID       string                 `json:"id"                yaml:"id"`
	Type     string                 `json:"type"              yaml:"type"`
	ItemType Ref                    `json:"item_type"         yaml:"item_type"`
	Creator  *Ref                   `json:"creator,omitempty" yaml:"creator,omitempty"`
	Meta     ItemMeta               `json:"meta"              yaml:"meta"`
	Fields   map[string]interface{} `json:"-"                 yaml:"fields"`
}

// ItemRelationships lists relationship members of record payloads.
var ItemRelationships = []string{"item_type", "creator"}

var itemReservedKeys = map[string]struct{}{
	"id": {}, "type": {}, "item_type": {}, "creator": {}, "meta": {},
}

// UnmarshalJSON decodes the fixed members and collects every other member into Fields.
func (i *Item) UnmarshalJSON(data []byte) error {
	type itemAlias Item

	var alias itemAlias

	err := json.Unmarshal(data, &alias)
	if err != nil {
		return fmt.Errorf("decoding item: %w", err)
	}

	var raw map[string]interface{}

	err = json.Unmarshal(data, &raw)
	if err != nil {
		return fmt.Errorf("decoding item fields: %w", err)
	}

	alias.Fields = make(map[string]interface{}, len(raw))

	for key, value := range raw {
		if _, reserved := itemReservedKeys[key]; reserved {
			continue
		}

		alias.Fields[key] = value
	}

	*i = Item(alias)

	return nil
}

// MarshalJSON encodes the fixed members and inlines Fields.
func (i Item) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(i.Fields)+5)
	for key, value := range i.Fields {
		out[key] = value
	}

	out["id"] = i.ID
	out["type"] = i.Type
	out["item_type"] = i.ItemType
	out["meta"] = i.Meta

	if i.Creator != nil {
		out["creator"] = i.Creator
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding item: %w", err)
	}

	return data, nil
}

// Field returns the value of a field.
func (i *Item) Field(apiKey string) (interface{}, bool) {
	value, ok := i.Fields[apiKey]

	return value, ok
}

// FieldString returns a string field, or "" when absent or not a string.
func (i *Item) FieldString(apiKey string) string {
	value, _ := i.Fields[apiKey].(string)

	return value
}

// FieldKeys returns the field API keys in sorted order.
func (i *Item) FieldKeys() []string {
	keys := make([]string, 0, len(i.Fields))
	for key := range i.Fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// ItemCreateRequest creates a record of ItemType.
type ItemCreateRequest struct {
	// ID optionally sets a client-generated id (see GenerateID).
	ID       string
	ItemType Ref
	Creator  *Ref
	Fields   map[string]interface{}
	Meta     map[string]interface{}
}

// MarshalJSON flattens the request to the simplified resource form.
func (r ItemCreateRequest) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Fields)+4)
	for key, value := range r.Fields {
		out[key] = value
	}

	if r.ID != "" {
		out["id"] = r.ID
	}

	out["item_type"] = r.ItemType

	if r.Creator != nil {
		out["creator"] = r.Creator
	}

	if len(r.Meta) > 0 {
		out["meta"] = r.Meta
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding item create request: %w", err)
	}

	return data, nil
}

// ItemUpdateRequest updates a record. Only the given fields change.
type ItemUpdateRequest struct {
	Fields map[string]interface{}
	// CurrentVersion enables optimistic locking when set.
	CurrentVersion string
	ItemType       *Ref
	Creator        *Ref
}

// MarshalJSON flattens the request to the simplified resource form.
func (r ItemUpdateRequest) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Fields)+3)
	for key, value := range r.Fields {
		out[key] = value
	}

	if r.CurrentVersion != "" {
		out["meta"] = map[string]interface{}{"current_version": r.CurrentVersion}
	}

	if r.ItemType != nil {
		out["item_type"] = r.ItemType
	}

	if r.Creator != nil {
		out["creator"] = r.Creator
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding item update request: %w", err)
	}

	return data, nil
}

// ItemVersion is a historical snapshot of a record.
type ItemVersion struct {
	ID       string                 `json:"id"        yaml:"id"`
	Type     string                 `json:"type"      yaml:"type"`
	Item     Ref                    `json:"item"      yaml:"item"`
	ItemType Ref                    `json:"item_type" yaml:"item_type"`
	Editor   *Ref                   `json:"editor"    yaml:"editor"`
	Meta     ItemVersionMeta        `json:"meta"      yaml:"meta"`
	Fields   map[string]interface{} `json:"-"         yaml:"fields"`
}

// ItemVersionMeta is the read-only meta block of a version.
type ItemVersionMeta struct {
	CreatedAt   time.Time `json:"created_at"   yaml:"created_at"`
	IsValid     bool      `json:"is_valid"     yaml:"is_valid"`
	IsPublished bool      `json:"is_published" yaml:"is_published"`
	IsCurrent   bool      `json:"is_current"   yaml:"is_current"`
}

var itemVersionReservedKeys = map[string]struct{}{
	"id": {}, "type": {}, "item": {}, "item_type": {}, "editor": {}, "meta": {},
}

// UnmarshalJSON decodes the fixed members and collects every other member into Fields.
func (v *ItemVersion) UnmarshalJSON(data []byte) error {
	type versionAlias ItemVersion

	var alias versionAlias

	err := json.Unmarshal(data, &alias)
	if err != nil {
		return fmt.Errorf("decoding item version: %w", err)
	}

	var raw map[string]interface{}

	err = json.Unmarshal(data, &raw)
	if err != nil {
		return fmt.Errorf("decoding item version fields: %w", err)
	}

	alias.Fields = make(map[string]interface{}, len(raw))

	for key, value := range raw {
		if _, reserved := itemVersionReservedKeys[key]; reserved {
			continue
		}

		alias.Fields[key] = value
	}

	*v = ItemVersion(alias)

	return nil
}

// Upload is an asset in the media area.
type Upload struct {
	ID                   string                             `json:"id"                     yaml:"id"`
	Type                 string                             `json:"type"                   yaml:"type"`
	Size                 int64                              `json:"size"                   yaml:"size"`
	Width                *int                               `json:"width"                  yaml:"width"`
	Height               *int                               `json:"height"                 yaml:"height"`
	Path                 string                             `json:"path"                   yaml:"path"`
	Basename             string                             `json:"basename"               yaml:"basename"`
	Filename             string                             `json:"filename"               yaml:"filename"`
	URL                  string                             `json:"url"                    yaml:"url"`
	Format               *string                            `json:"format"                 yaml:"format"`
	MimeType             string                             `json:"mime_type"              yaml:"mime_type"`
	IsImage              bool                               `json:"is_image"               yaml:"is_image"`
	Author               *string                            `json:"author"                 yaml:"author"`
	Copyright            *string                            `json:"copyright"              yaml:"copyright"`
	Notes                *string                            `json:"notes"                  yaml:"notes"`
	Tags                 []string                           `json:"tags"                   yaml:"tags"`
	SmartTags            []string                           `json:"smart_tags,omitempty"   yaml:"smart_tags,omitempty"`
	DefaultFieldMetadata map[string]UploadLocalizedMetadata `json:"default_field_metadata" yaml:"default_field_metadata"`
	CreatedAt            time.Time                          `json:"created_at"             yaml:"created_at"`
	UpdatedAt            time.Time                          `json:"updated_at"             yaml:"updated_at"`
	Creator              *Ref                               `json:"creator,omitempty"      yaml:"creator,omitempty"`
	UploadCollection     *Ref                               `json:"upload_collection"      yaml:"upload_collection"`
}

// UploadLocalizedMetadata is the per-locale default metadata of an asset.
type UploadLocalizedMetadata struct {
	Alt        *string                `json:"alt"                   yaml:"alt"`
	Title      *string                `json:"title"                 yaml:"title"`
	CustomData map[string]interface{} `json:"custom_data"           yaml:"custom_data"`
	FocalPoint *FocalPoint            `json:"focal_point,omitempty" yaml:"focal_point,omitempty"`
}

// FocalPoint is a relative point of interest inside an image.
type FocalPoint struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// UploadCreateRequest creates an asset from a path obtained through an upload request.
type UploadCreateRequest struct {
	ID                   string                             `json:"id,omitempty"                     yaml:"id,omitempty"`
	Path                 string                             `json:"path"                             yaml:"path"`
	Author               *string                            `json:"author,omitempty"                 yaml:"author,omitempty"`
	Copyright            *string                            `json:"copyright,omitempty"              yaml:"copyright,omitempty"`
	Notes                *string                            `json:"notes,omitempty"                  yaml:"notes,omitempty"`
	Tags                 []string                           `json:"tags,omitempty"                   yaml:"tags,omitempty"`
	DefaultFieldMetadata map[string]UploadLocalizedMetadata `json:"default_field_metadata,omitempty" yaml:"default_field_metadata,omitempty"`
	UploadCollection     *Ref                               `json:"upload_collection,omitempty"      yaml:"upload_collection,omitempty"`
}

// UploadUpdateRequest updates asset metadata.
type UploadUpdateRequest struct {
	Path                 *string                            `json:"path,omitempty"                   yaml:"path,omitempty"`
	Basename             *string                            `json:"basename,omitempty"               yaml:"basename,omitempty"`
	Author               *string                            `json:"author,omitempty"                 yaml:"author,omitempty"`
	Copyright            *string                            `json:"copyright,omitempty"              yaml:"copyright,omitempty"`
	Notes                *string                            `json:"notes,omitempty"                  yaml:"notes,omitempty"`
	Tags                 []string                           `json:"tags,omitempty"                   yaml:"tags,omitempty"`
	DefaultFieldMetadata map[string]UploadLocalizedMetadata `json:"default_field_metadata,omitempty" yaml:"default_field_metadata,omitempty"`
	UploadCollection     *Ref                               `json:"upload_collection,omitempty"      yaml:"upload_collection,omitempty"`
}

// UploadRelationships lists relationship members of upload payloads.
var UploadRelationships = []string{"creator", "upload_collection"}

// UploadRequest is a pre-signed storage target for a new file.
type UploadRequest struct {
	// ID is the storage path to pass as UploadCreateRequest.Path.
	ID             string            `json:"id"              yaml:"id"`
	Type           string            `json:"type"            yaml:"type"`
	URL            string            `json:"url"             yaml:"url"`
	RequestHeaders map[string]string `json:"request_headers" yaml:"request_headers"`
}

// UploadRequestCreateRequest asks for an UploadRequest.
type UploadRequestCreateRequest struct {
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`
}

// User is a project collaborator.
type User struct {
	ID       string `json:"id"                      yaml:"id"`
	Type     string `json:"type"                    yaml:"type"`
	Email    string `json:"email"                   yaml:"email"`
	FullName string `json:"full_name"               yaml:"full_name"`
	IsActive bool   `json:"is_active"               yaml:"is_active"`
	Is2FA    bool   `json:"is_2fa_active,omitempty" yaml:"is_2fa_active,omitempty"`
	Role     *Ref   `json:"role"                    yaml:"role"`
}

// UserUpdateRequest updates a collaborator.
type UserUpdateRequest struct {
	IsActive *bool `json:"is_active,omitempty" yaml:"is_active,omitempty"`
	Role     *Ref  `json:"role,omitempty"      yaml:"role,omitempty"`
}

// UserRelationships lists relationship members of user payloads.
var UserRelationships = []string{"role"}

// Role is a set of permissions assigned to collaborators and tokens.
type Role struct {
	ID                         string `json:"id"                            yaml:"id"`
	Type                       string `json:"type"                          yaml:"type"`
	Name                       string `json:"name"                          yaml:"name"`
	CanEditFavicon             bool   `json:"can_edit_favicon"              yaml:"can_edit_favicon"`
	CanEditSite                bool   `json:"can_edit_site"                 yaml:"can_edit_site"`
	CanEditSchema              bool   `json:"can_edit_schema"               yaml:"can_edit_schema"`
	CanManageMenu              bool   `json:"can_manage_menu"               yaml:"can_manage_menu"`
	CanEditEnvironment         bool   `json:"can_edit_environment"          yaml:"can_edit_environment"`
	CanPromoteEnvironments     bool   `json:"can_promote_environments"      yaml:"can_promote_environments"`
	EnvironmentsAccess         string `json:"environments_access"           yaml:"environments_access"`
	CanManageUsers             bool   `json:"can_manage_users"              yaml:"can_manage_users"`
	CanManageSharedFilters     bool   `json:"can_manage_shared_filters"     yaml:"can_manage_shared_filters"`
	CanManageUploadCollections bool   `json:"can_manage_upload_collections" yaml:"can_manage_upload_collections"`
	CanManageBuildTriggers     bool   `json:"can_manage_build_triggers"     yaml:"can_manage_build_triggers"`
	CanManageWebhooks          bool   `json:"can_manage_webhooks"           yaml:"can_manage_webhooks"`
	CanManageEnvironments      bool   `json:"can_manage_environments"       yaml:"can_manage_environments"`
	CanManageSSO               bool   `json:"can_manage_sso"                yaml:"can_manage_sso"`
	CanAccessAuditLog          bool   `json:"can_access_audit_log"          yaml:"can_access_audit_log"`
	CanManageWorkflows         bool   `json:"can_manage_workflows"          yaml:"can_manage_workflows"`
	CanManageAccessTokens      bool   `json:"can_manage_access_tokens"      yaml:"can_manage_access_tokens"`
	CanPerformSiteSearch       bool   `json:"can_perform_site_search"       yaml:"can_perform_site_search"`
	InheritsPermissionsFrom    []Ref  `json:"inherits_permissions_from"     yaml:"inherits_permissions_from"`
}

// RoleCreateRequest creates a role.
type RoleCreateRequest struct {
	Name                    string `json:"name"                                yaml:"name"`
	CanEditSite             bool   `json:"can_edit_site,omitempty"             yaml:"can_edit_site,omitempty"`
	CanEditSchema           bool   `json:"can_edit_schema,omitempty"           yaml:"can_edit_schema,omitempty"`
	CanEditEnvironment      bool   `json:"can_edit_environment,omitempty"      yaml:"can_edit_environment,omitempty"`
	CanPromoteEnvironments  bool   `json:"can_promote_environments,omitempty"  yaml:"can_promote_environments,omitempty"`
	EnvironmentsAccess      string `json:"environments_access,omitempty"       yaml:"environments_access,omitempty"`
	CanManageUsers          bool   `json:"can_manage_users,omitempty"          yaml:"can_manage_users,omitempty"`
	CanManageWebhooks       bool   `json:"can_manage_webhooks,omitempty"       yaml:"can_manage_webhooks,omitempty"`
	CanManageEnvironments   bool   `json:"can_manage_environments,omitempty"   yaml:"can_manage_environments,omitempty"`
	CanManageAccessTokens   bool   `json:"can_manage_access_tokens,omitempty"  yaml:"can_manage_access_tokens,omitempty"`
	InheritsPermissionsFrom []Ref  `json:"inherits_permissions_from,omitempty" yaml:"inherits_permissions_from,omitempty"`
}

// RoleUpdateRequest updates a role.
type RoleUpdateRequest struct {
	Name                   *string `json:"name,omitempty"                     yaml:"name,omitempty"`
	CanEditSite            *bool   `json:"can_edit_site,omitempty"            yaml:"can_edit_site,omitempty"`
	CanEditSchema          *bool   `json:"can_edit_schema,omitempty"          yaml:"can_edit_schema,omitempty"`
	CanEditEnvironment     *bool   `json:"can_edit_environment,omitempty"     yaml:"can_edit_environment,omitempty"`
	CanPromoteEnvironments *bool   `json:"can_promote_environments,omitempty" yaml:"can_promote_environments,omitempty"`
	CanManageUsers         *bool   `json:"can_manage_users,omitempty"         yaml:"can_manage_users,omitempty"`
	CanManageWebhooks      *bool   `json:"can_manage_webhooks,omitempty"      yaml:"can_manage_webhooks,omitempty"`
	CanManageEnvironments  *bool   `json:"can_manage_environments,omitempty"  yaml:"can_manage_environments,omitempty"`
	CanManageAccessTokens  *bool   `json:"can_manage_access_tokens,omitempty" yaml:"can_manage_access_tokens,omitempty"`
}

// RoleRelationships lists relationship members of role payloads.
var RoleRelationships = []string{"inherits_permissions_from"}

// AccessToken is an API token.
type AccessToken struct {
	ID                  string  `json:"id"                     yaml:"id"`
	Type                string  `json:"type"                   yaml:"type"`
	Name                string  `json:"name"                   yaml:"name"`
	Token               *string `json:"token"                  yaml:"token"`
	CanAccessCDA        bool    `json:"can_access_cda"         yaml:"can_access_cda"`
	CanAccessCDAPreview bool    `json:"can_access_cda_preview" yaml:"can_access_cda_preview"`
	CanAccessCMA        bool    `json:"can_access_cma"         yaml:"can_access_cma"`
	HardcodedType       *string `json:"hardcoded_type"         yaml:"hardcoded_type"`
	Role                *Ref    `json:"role"                   yaml:"role"`
}

// AccessTokenCreateRequest creates an API token.
type AccessTokenCreateRequest struct {
	Name                string `json:"name"                   yaml:"name"`
	CanAccessCDA        bool   `json:"can_access_cda"         yaml:"can_access_cda"`
	CanAccessCDAPreview bool   `json:"can_access_cda_preview" yaml:"can_access_cda_preview"`
	CanAccessCMA        bool   `json:"can_access_cma"         yaml:"can_access_cma"`
	Role                *Ref   `json:"role"                   yaml:"role"`
}

// AccessTokenUpdateRequest updates an API token.
type AccessTokenUpdateRequest struct {
	Name                *string `json:"name,omitempty"                   yaml:"name,omitempty"`
	CanAccessCDA        *bool   `json:"can_access_cda,omitempty"         yaml:"can_access_cda,omitempty"`
	CanAccessCDAPreview *bool   `json:"can_access_cda_preview,omitempty" yaml:"can_access_cda_preview,omitempty"`
	CanAccessCMA        *bool   `json:"can_access_cma,omitempty"         yaml:"can_access_cma,omitempty"`
	Role                *Ref    `json:"role,omitempty"                   yaml:"role,omitempty"`
}

// AccessTokenRelationships lists relationship members of token payloads.
var AccessTokenRelationships = []string{"role"}

// Environment is a primary or sandbox copy of the project content.
type Environment struct {
	ID   string          `json:"id"   yaml:"id"`
	Type string          `json:"type" yaml:"type"`
	Meta EnvironmentMeta `json:"meta" yaml:"meta"`
}

// EnvironmentMeta is the read-only meta block of an environment.
type EnvironmentMeta struct {
	Status           string     `json:"status"                        yaml:"status"`
	CreatedAt        time.Time  `json:"created_at"                    yaml:"created_at"`
	LastDataChangeAt *time.Time `json:"last_data_change_at,omitempty" yaml:"last_data_change_at,omitempty"`
	Primary          bool       `json:"primary"                       yaml:"primary"`
	ForkedFrom       *string    `json:"forked_from,omitempty"         yaml:"forked_from,omitempty"`
}

// EnvironmentForkOptions controls a fork.
type EnvironmentForkOptions struct {
	// ImmediateReturn skips waiting for the fork job to finish.
	ImmediateReturn bool
	// Fast forks without copying read-only data; writes on the source are blocked meanwhile.
	Fast bool
	// Force runs a fast fork even if there are pending changes.
	Force bool
}

// Webhook sends notifications to a URL when project events happen.
type Webhook struct {
	ID                   string            `json:"id"                      yaml:"id"`
	Type                 string            `json:"type"                    yaml:"type"`
	Name                 string            `json:"name"                    yaml:"name"`
	URL                  string            `json:"url"                     yaml:"url"`
	Enabled              bool              `json:"enabled"                 yaml:"enabled"`
	Headers              map[string]string `json:"headers"                 yaml:"headers"`
	Events               []WebhookTrigger  `json:"events"                  yaml:"events"`
	CustomPayload        *string           `json:"custom_payload"          yaml:"custom_payload"`
	HTTPBasicUser        *string           `json:"http_basic_user"         yaml:"http_basic_user"`
	HTTPBasicPassword    *string           `json:"http_basic_password"     yaml:"http_basic_password"`
	PayloadAPIVersion    string            `json:"payload_api_version"     yaml:"payload_api_version"`
	NestedItemsInPayload bool              `json:"nested_items_in_payload" yaml:"nested_items_in_payload"`
	AutoRetry            bool              `json:"auto_retry"              yaml:"auto_retry"`
}

// WebhookTrigger selects the events a webhook reacts to.
type WebhookTrigger struct {
	EntityType string          `json:"entity_type"       yaml:"entity_type"`
	EventTypes []string        `json:"event_types"       yaml:"event_types"`
	Filters    []WebhookFilter `json:"filters,omitempty" yaml:"filters,omitempty"`
}

// WebhookFilter narrows a trigger to specific entities.
type WebhookFilter struct {
	Entity string   `json:"entity" yaml:"entity"`
	Value  []string `json:"value"  yaml:"value"`
}

// WebhookCreateRequest creates a webhook.
type WebhookCreateRequest struct {
	Name                 string            `json:"name"                              yaml:"name"`
	URL                  string            `json:"url"                               yaml:"url"`
	Enabled              bool              `json:"enabled"                           yaml:"enabled"`
	Headers              map[string]string `json:"headers"                           yaml:"headers"`
	Events               []WebhookTrigger  `json:"events"                            yaml:"events"`
	CustomPayload        *string           `json:"custom_payload"                    yaml:"custom_payload"`
	HTTPBasicUser        *string           `json:"http_basic_user"                   yaml:"http_basic_user"`
	HTTPBasicPassword    *string           `json:"http_basic_password"               yaml:"http_basic_password"`
	PayloadAPIVersion    string            `json:"payload_api_version,omitempty"     yaml:"payload_api_version,omitempty"`
	NestedItemsInPayload bool              `json:"nested_items_in_payload,omitempty" yaml:"nested_items_in_payload,omitempty"`
	AutoRetry            bool              `json:"auto_retry,omitempty"              yaml:"auto_retry,omitempty"`
}

// WebhookUpdateRequest updates a webhook.
type WebhookUpdateRequest struct {
	Name              *string           `json:"name,omitempty"                yaml:"name,omitempty"`
	URL               *string           `json:"url,omitempty"                 yaml:"url,omitempty"`
	Enabled           *bool             `json:"enabled,omitempty"             yaml:"enabled,omitempty"`
	Headers           map[string]string `json:"headers,omitempty"             yaml:"headers,omitempty"`
	Events            []WebhookTrigger  `json:"events,omitempty"              yaml:"events,omitempty"`
	CustomPayload     *string           `json:"custom_payload,omitempty"      yaml:"custom_payload,omitempty"`
	HTTPBasicUser     *string           `json:"http_basic_user,omitempty"     yaml:"http_basic_user,omitempty"`
	HTTPBasicPassword *string           `json:"http_basic_password,omitempty" yaml:"http_basic_password,omitempty"`
	AutoRetry         *bool             `json:"auto_retry,omitempty"          yaml:"auto_retry,omitempty"`
}

// WebhookCall is a log entry of one webhook delivery.
type WebhookCall struct {
	ID              string            `json:"id"               yaml:"id"`
	Type            string            `json:"type"             yaml:"type"`
	EntityType      string            `json:"entity_type"      yaml:"entity_type"`
	EventType       string            `json:"event_type"       yaml:"event_type"`
	RequestURL      string            `json:"request_url"      yaml:"request_url"`
	RequestHeaders  map[string]string `json:"request_headers"  yaml:"request_headers"`
	RequestPayload  string            `json:"request_payload"  yaml:"request_payload"`
	ResponseStatus  *int              `json:"response_status"  yaml:"response_status"`
	ResponseHeaders map[string]string `json:"response_headers" yaml:"response_headers"`
	ResponsePayload *string           `json:"response_payload" yaml:"response_payload"`
	CreatedAt       time.Time         `json:"created_at"       yaml:"created_at"`
	NextRetryAt     *time.Time        `json:"next_retry_at"    yaml:"next_retry_at"`
	Webhook         Ref               `json:"webhook"          yaml:"webhook"`
}

// MaintenanceMode reports whether the project is read-only.
type MaintenanceMode struct {
	ID     string `json:"id"     yaml:"id"`
	Type   string `json:"type"   yaml:"type"`
	Active bool   `json:"active" yaml:"active"`
}

// Plugin is an installed extension.
type Plugin struct {
	ID              string                 `json:"id"              yaml:"id"`
	Type            string                 `json:"type"            yaml:"type"`
	Name            string                 `json:"name"            yaml:"name"`
	Description     *string                `json:"description"     yaml:"description"`
	URL             string                 `json:"url"             yaml:"url"`
	Parameters      map[string]interface{} `json:"parameters"      yaml:"parameters"`
	PackageName     *string                `json:"package_name"    yaml:"package_name"`
	PackageVersion  *string                `json:"package_version" yaml:"package_version"`
	PermissionsList []string               `json:"permissions"     yaml:"permissions"`
}

// PluginCreateRequest installs a plugin, either from npm (PackageName) or from a URL.
type PluginCreateRequest struct {
	Name        string `json:"name,omitempty"         yaml:"name,omitempty"`
	Description string `json:"description,omitempty"  yaml:"description,omitempty"`
	URL         string `json:"url,omitempty"          yaml:"url,omitempty"`
	PackageName string `json:"package_name,omitempty" yaml:"package_name,omitempty"`
}

// PluginUpdateRequest updates a plugin.
type PluginUpdateRequest struct {
	Name           *string                `json:"name,omitempty"            yaml:"name,omitempty"`
	Description    *string                `json:"description,omitempty"     yaml:"description,omitempty"`
	URL            *string                `json:"url,omitempty"             yaml:"url,omitempty"`
	Parameters     map[string]interface{} `json:"parameters,omitempty"      yaml:"parameters,omitempty"`
	PackageVersion *string                `json:"package_version,omitempty" yaml:"package_version,omitempty"`
}

// Account is the owner account in the Dashboard API.
type Account struct {
	ID        string `json:"id"         yaml:"id"`
	Type      string `json:"type"       yaml:"type"`
	Email     string `json:"email"      yaml:"email"`
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name"  yaml:"last_name"`
	Company   string `json:"company"    yaml:"company"`
}

// DashboardSite is a project as seen from the Dashboard API.
type DashboardSite struct {
	ID               string     `json:"id"                            yaml:"id"`
	Type             string     `json:"type"                          yaml:"type"`
	Name             string     `json:"name"                          yaml:"name"`
	Domain           *string    `json:"domain"                        yaml:"domain"`
	InternalDomain   string     `json:"internal_domain"               yaml:"internal_domain"`
	AccessToken      *string    `json:"access_token"                  yaml:"-"`
	CreatedAt        time.Time  `json:"created_at"                    yaml:"created_at"`
	LastDataChangeAt *time.Time `json:"last_data_change_at,omitempty" yaml:"last_data_change_at,omitempty"`
}

// DashboardSiteCreateRequest creates a project.
type DashboardSiteCreateRequest struct {
	Name     string  `json:"name"               yaml:"name"`
	Domain   *string `json:"domain,omitempty"   yaml:"domain,omitempty"`
	Template string  `json:"template,omitempty" yaml:"template,omitempty"`
}

// DashboardSiteUpdateRequest updates a project.
type DashboardSiteUpdateRequest struct {
	Name   *string `json:"name,omitempty"   yaml:"name,omitempty"`
	Domain *string `json:"domain,omitempty" yaml:"domain,omitempty"`
}
