// Package fragment holds the data model for declared fragment occurrences,
// their resolved descriptors, gateway-supplied configuration, and the
// replace/asset plans the compiler assembles from them.
package fragment

import "time"

// Location is where an asset gets injected relative to the page shell.
type Location string

const (
	LocationHead         Location = "head"
	LocationBodyStart    Location = "body_start"
	LocationContentStart Location = "content_start"
	LocationContentEnd   Location = "content_end"
	LocationBodyEnd      Location = "body_end"
)

// InjectType is how an asset's body is delivered.
type InjectType string

const (
	InjectExternal InjectType = "external"
	InjectInline   InjectType = "inline"
)

// ExecuteType controls a <script>'s execution timing attribute.
type ExecuteType string

const (
	ExecuteSync  ExecuteType = ""
	ExecuteAsync ExecuteType = "async"
	ExecuteDefer ExecuteType = "defer"
)

// AssetKind distinguishes script assets (handled by the Asset Planner) from
// stylesheet assets (handled separately by the Stylesheet Bundler).
type AssetKind string

const (
	AssetJS  AssetKind = "js"
	AssetCSS AssetKind = "css"
)

// Asset is one gateway-declared dependency of a fragment.
type Asset struct {
	Name        string      `yaml:"name" json:"name" validate:"required"`
	Kind        AssetKind   `yaml:"kind" json:"kind" validate:"required,oneof=js css"`
	Location    Location    `yaml:"location" json:"location"`
	InjectType  InjectType  `yaml:"injectType" json:"injectType"`
	Link        string      `yaml:"link,omitempty" json:"link,omitempty"`
	Content     string      `yaml:"content,omitempty" json:"content,omitempty"`
	ExecuteType ExecuteType `yaml:"executeType,omitempty" json:"executeType,omitempty"`
}

// RenderConfig is the gateway-supplied render contract for a fragment.
type RenderConfig struct {
	URL         string        `yaml:"url" json:"url" validate:"required"`
	Placeholder bool          `yaml:"placeholder" json:"placeholder"`
	Static      bool          `yaml:"static" json:"static"`
	SelfReplace bool          `yaml:"selfReplace" json:"selfReplace"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
}

// Config is the gateway-exposed metadata joined onto a descriptor once the
// surrounding system has resolved it. A nil *Config means the gateway was
// unreachable or does not expose this fragment — the Unfetched class.
type Config struct {
	Assets       []Asset      `yaml:"assets" json:"assets" validate:"dive"`
	Dependencies []string     `yaml:"dependencies" json:"dependencies"`
	Render       RenderConfig `yaml:"render" json:"render" validate:"required"`
}

// Class is the partition a fragment falls into once descriptor and config
// are joined.
type Class int

const (
	ClassUnfetched Class = iota
	ClassWaited
	ClassChunked
	ClassStatic
)

func (c Class) String() string {
	switch c {
	case ClassWaited:
		return "waited"
	case ClassChunked:
		return "chunked"
	case ClassStatic:
		return "static"
	default:
		return "unfetched"
	}
}

// Descriptor is the in-memory record of a declared fragment, one per unique
// name within a template.
type Descriptor struct {
	Name       string `validate:"required"`
	From       string `validate:"required"`
	Config     *Config
	Primary    bool
	ShouldWait bool
}

// URLResolver maps a descriptor's From (gateway id) to the gateway base URL
// its content is fetched from (From -> base URL is an external,
// deployment-specific concern, not hardcoded here).
type URLResolver func(from string) string

// Occurrence is a single <fragment> element encountered in the template.
type Occurrence struct {
	Name       string
	From       string
	Partial    string // defaults to "main"
	Primary    bool
	ShouldWait bool
	// Attributes holds every non-reserved attribute on the tag, used as
	// upstream query parameters for the occurrence's main partial.
	Attributes map[string]string
}

// reservedAttributes are never forwarded to the upstream gateway as query
// parameters, and never copied into FragmentAttributes.
var reservedAttributes = map[string]bool{
	"from": true, "name": true, "partial": true, "primary": true, "shouldwait": true,
}

// IsReservedAttribute reports whether key is one of the fragment tag's own
// control attributes rather than a custom pass-through attribute.
func IsReservedAttribute(key string) bool {
	return reservedAttributes[key]
}

// ItemType enumerates the kinds of replacement sites a ReplaceSet records.
type ItemType int

const (
	ItemContent ItemType = iota
	ItemChunkedContent
	ItemPlaceholder
	ItemModelScript
)

func (t ItemType) String() string {
	switch t {
	case ItemContent:
		return "content"
	case ItemChunkedContent:
		return "chunked_content"
	case ItemPlaceholder:
		return "placeholder"
	case ItemModelScript:
		return "model_script"
	default:
		return "unknown"
	}
}

// ReplaceItem is one substitution or chunk-destination site the compiler
// emitted into the DOM, identified by its unique sentinel/key.
type ReplaceItem struct {
	Type    ItemType
	Key     string
	Partial string
}

// ReplaceSet collects every ReplaceItem belonging to one fragment, plus the
// attribute bag of its `main` occurrence (used to build the upstream
// request at request time).
type ReplaceSet struct {
	Fragment           string
	Class              Class
	From               string
	ReplaceItems       []ReplaceItem
	FragmentAttributes map[string]string

	// FragmentURL and Render are the request-time fetch coordinates for
	// Waited and Chunked fragments, carried here rather than re-resolved
	// per request.
	FragmentURL string
	Render      RenderConfig

	// ContentStartAssets and ContentEndAssets are populated only for
	// Chunked fragments: unlike Waited/Static, their content-start/
	// content-end script HTML is not known to have a home in the DOM at
	// compile time (the fragment's content div does not exist until the
	// chunk streams), so it travels with the ReplaceSet for the chunk
	// streamer to render inline with each streamed chunk.
	ContentStartAssets []Asset
	ContentEndAssets   []Asset
}

// DefaultPartial is the implicit partial name when a <fragment> tag omits
// the partial attribute.
const DefaultPartial = "main"
