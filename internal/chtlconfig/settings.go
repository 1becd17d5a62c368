package chtlconfig

// Settings holds the recognized [Configuration] block keys, plus the
// nested [Name] (keyword rename) and [OriginType] (custom origin type
// registration) sub-blocks.
type Settings struct {
	DebugMode                bool
	DisableNameGroup         bool
	DisableCustomOriginType  bool
	DisableStyleAutoAddClass bool
	DisableStyleAutoAddID    bool
	DisableScriptAutoAddClass bool
	DisableScriptAutoAddID   bool
	DisableDefaultNamespace  bool
	IndexInitialCount        int

	// NameOverrides records the nested [Name] block's pairs: source
	// keyword -> desired spelling, e.g. {"style": "Style"}. The lexer and
	// parser do not consult it; built-in keyword spellings stay fixed.
	NameOverrides map[string]string

	// OriginTypes lists additional origin type names registered via a
	// nested [OriginType] block, usable alongside the built-in @Html,
	// @Style, @JavaScript.
	OriginTypes []string
}

// DefaultSettings returns the built-in configuration defaults applied
// when a compilation unit has no [Configuration] block, or omits a key.
func DefaultSettings() Settings {
	return Settings{
		DebugMode:                 false,
		DisableNameGroup:          false,
		DisableCustomOriginType:   false,
		DisableStyleAutoAddClass:  false,
		DisableStyleAutoAddID:     false,
		DisableScriptAutoAddClass: false,
		DisableScriptAutoAddID:    false,
		DisableDefaultNamespace:   false,
		IndexInitialCount:         0,
		NameOverrides:             map[string]string{},
		OriginTypes:               nil,
	}
}

// recognizedKeys is the closed set names for a flat
// (non-bracketed) [Configuration] entry. Anything outside this set is a
// ConfigValueInvalid diagnostic, raised by the parser.
var recognizedKeys = map[string]bool{
	"DEBUG_MODE":                      true,
	"DISABLE_NAME_GROUP":              true,
	"DISABLE_CUSTOM_ORIGIN_TYPE":      true,
	"DISABLE_STYLE_AUTO_ADD_CLASS":    true,
	"DISABLE_STYLE_AUTO_ADD_ID":       true,
	"DISABLE_SCRIPT_AUTO_ADD_CLASS":   true,
	"DISABLE_SCRIPT_AUTO_ADD_ID":      true,
	"DISABLE_DEFAULT_NAMESPACE":       true,
	"INDEX_INITIAL_COUNT":             true,
}

// IsRecognizedKey reports whether key is one of the flat settings
// recognized inside a [Configuration] block.
func IsRecognizedKey(key string) bool {
	return recognizedKeys[key]
}

// ApplyBool sets the field matching key to the parsed value. The
// parser's [Configuration] block handling has already dropped keys
// IsRecognizedKey rejects and parsed the raw token into a bool/int.
func (s *Settings) ApplyBool(key string, value bool) {
	switch key {
	case "DEBUG_MODE":
		s.DebugMode = value
	case "DISABLE_NAME_GROUP":
		s.DisableNameGroup = value
	case "DISABLE_CUSTOM_ORIGIN_TYPE":
		s.DisableCustomOriginType = value
	case "DISABLE_STYLE_AUTO_ADD_CLASS":
		s.DisableStyleAutoAddClass = value
	case "DISABLE_STYLE_AUTO_ADD_ID":
		s.DisableStyleAutoAddID = value
	case "DISABLE_SCRIPT_AUTO_ADD_CLASS":
		s.DisableScriptAutoAddClass = value
	case "DISABLE_SCRIPT_AUTO_ADD_ID":
		s.DisableScriptAutoAddID = value
	case "DISABLE_DEFAULT_NAMESPACE":
		s.DisableDefaultNamespace = value
	}
}

func (s *Settings) ApplyInt(key string, value int) {
	if key == "INDEX_INITIAL_COUNT" {
		s.IndexInitialCount = value
	}
}
