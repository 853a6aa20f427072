package regex

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/magnetde/starlark-jsre/coderange"
)

// binaryProperties contains the names and aliases of all binary Unicode properties, that are valid
// in property escapes. Except for "Any", "ASCII" and "Assigned", they cannot be translated.
var binaryProperties = map[string]struct{}{}

func init() {
	for _, p := range strings.Fields(`
		ASCII ASCII_Hex_Digit AHex Alphabetic Alpha Any Assigned Bidi_Control Bidi_C
		Bidi_Mirrored Bidi_M Case_Ignorable CI Cased Changes_When_Casefolded CWCF
		Changes_When_Casemapped CWCM Changes_When_Lowercased CWL Changes_When_NFKC_Casefolded CWKCF
		Changes_When_Titlecased CWT Changes_When_Uppercased CWU Dash Default_Ignorable_Code_Point DI
		Deprecated Dep Diacritic Dia Emoji Emoji_Component EComp Emoji_Modifier EMod
		Emoji_Modifier_Base EBase Emoji_Presentation EPres Extended_Pictographic ExtPict Extender Ext
		Grapheme_Base Gr_Base Grapheme_Extend Gr_Ext Hex_Digit Hex IDS_Binary_Operator IDSB
		IDS_Trinary_Operator IDST ID_Continue IDC ID_Start IDS Ideographic Ideo Join_Control Join_C
		Logical_Order_Exception LOE Lowercase Lower Math Noncharacter_Code_Point NChar
		Pattern_Syntax Pat_Syn Pattern_White_Space Pat_WS Quotation_Mark QMark Radical
		Regional_Indicator RI Sentence_Terminal STerm Soft_Dotted SD Terminal_Punctuation Term
		Unified_Ideograph UIdeo Uppercase Upper Variation_Selector VS White_Space space
		XID_Continue XIDC XID_Start XIDS`) {
		binaryProperties[p] = struct{}{}
	}
}

// scriptCode matches four letter ISO 15924 script codes, which are accepted as script aliases.
var scriptCode = regexp.MustCompile(`^[A-Z][a-z]{3}$`)

// isScriptName checks if the value is a name of a script.
func isScriptName(v string) bool {
	_, ok := unicode.Scripts[v]
	return ok || scriptCode.MatchString(v)
}

// propertyKind is the result of resolving a property expression.
type propertyKind uint8

const (
	propertyInvalid     propertyKind = iota // syntax error
	propertySupported                       // translatable into a set
	propertyUnsupported                     // valid, but not translatable
)

// resolveProperty resolves the expression of a property escape, which is either `name=value` or a
// lone name. Only general categories and the properties "Any", "ASCII" and "Assigned" are supported.
func resolveProperty(expr string, categories func(coderange.Category) []rng) ([]rng, propertyKind) {
	if name, value, ok := strings.Cut(expr, "="); ok {
		switch name {
		case "General_Category", "gc":
			if cat, ok := coderange.LookupCategory(value); ok {
				return categories(cat), propertySupported
			}
		case "Script", "sc", "Script_Extensions", "scx":
			if isScriptName(value) {
				return nil, propertyUnsupported
			}
		}

		return nil, propertyInvalid
	}

	if cat, ok := coderange.LookupCategory(expr); ok {
		return categories(cat), propertySupported
	}

	switch expr {
	case "Any":
		return []rng{{Lo: 0, Hi: coderange.MaxRune}}, propertySupported
	case "ASCII":
		return []rng{{Lo: 0, Hi: 0x7F}}, propertySupported
	case "Assigned":
		return coderange.Invert(categories(coderange.CatCn), 0, coderange.MaxRune), propertySupported
	}

	if _, ok := binaryProperties[expr]; ok {
		return nil, propertyUnsupported
	}

	return nil, propertyInvalid
}
