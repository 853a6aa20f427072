package coderange

import (
	"math/bits"
	"strings"
	"unicode"
)

// Category is a bitmask of Unicode general categories.
// A single bit represents one of the 30 two-letter categories,
// composite categories like "L" are unions of these bits.
type Category uint32

// Two-letter general categories.
const (
	CatLu Category = 1 << iota
	CatLl
	CatLt
	CatLm
	CatLo
	CatMn
	CatMc
	CatMe
	CatNd
	CatNl
	CatNo
	CatPc
	CatPd
	CatPs
	CatPe
	CatPi
	CatPf
	CatPo
	CatSm
	CatSc
	CatSk
	CatSo
	CatZs
	CatZl
	CatZp
	CatCc
	CatCf
	CatCs
	CatCo
	CatCn

	numCategories = iota
)

// Composite general categories.
const (
	CatLC = CatLu | CatLl | CatLt
	CatL  = CatLC | CatLm | CatLo
	CatM  = CatMn | CatMc | CatMe
	CatN  = CatNd | CatNl | CatNo
	CatP  = CatPc | CatPd | CatPs | CatPe | CatPi | CatPf | CatPo
	CatS  = CatSm | CatSc | CatSk | CatSo
	CatZ  = CatZs | CatZl | CatZp
	CatC  = CatCc | CatCf | CatCs | CatCo | CatCn

	CatAll = Category(1<<numCategories - 1)
)

// shortNames holds the two-letter name of each single category bit, ordered by bit index.
var shortNames = [numCategories]string{
	"Lu", "Ll", "Lt", "Lm", "Lo",
	"Mn", "Mc", "Me",
	"Nd", "Nl", "No",
	"Pc", "Pd", "Ps", "Pe", "Pi", "Pf", "Po",
	"Sm", "Sc", "Sk", "So",
	"Zs", "Zl", "Zp",
	"Cc", "Cf", "Cs", "Co", "Cn",
}

// categoryNames maps every general category value name and alias accepted by
// ECMAScript property escapes to its category mask.
var categoryNames = map[string]Category{
	"L": CatL, "Letter": CatL,
	"LC": CatLC, "Cased_Letter": CatLC,
	"Lu": CatLu, "Uppercase_Letter": CatLu,
	"Ll": CatLl, "Lowercase_Letter": CatLl,
	"Lt": CatLt, "Titlecase_Letter": CatLt,
	"Lm": CatLm, "Modifier_Letter": CatLm,
	"Lo": CatLo, "Other_Letter": CatLo,
	"M": CatM, "Mark": CatM, "Combining_Mark": CatM,
	"Mn": CatMn, "Nonspacing_Mark": CatMn,
	"Mc": CatMc, "Spacing_Mark": CatMc,
	"Me": CatMe, "Enclosing_Mark": CatMe,
	"N": CatN, "Number": CatN,
	"Nd": CatNd, "Decimal_Number": CatNd, "digit": CatNd,
	"Nl": CatNl, "Letter_Number": CatNl,
	"No": CatNo, "Other_Number": CatNo,
	"P": CatP, "Punctuation": CatP, "punct": CatP,
	"Pc": CatPc, "Connector_Punctuation": CatPc,
	"Pd": CatPd, "Dash_Punctuation": CatPd,
	"Ps": CatPs, "Open_Punctuation": CatPs,
	"Pe": CatPe, "Close_Punctuation": CatPe,
	"Pi": CatPi, "Initial_Punctuation": CatPi,
	"Pf": CatPf, "Final_Punctuation": CatPf,
	"Po": CatPo, "Other_Punctuation": CatPo,
	"S": CatS, "Symbol": CatS,
	"Sm": CatSm, "Math_Symbol": CatSm,
	"Sc": CatSc, "Currency_Symbol": CatSc,
	"Sk": CatSk, "Modifier_Symbol": CatSk,
	"So": CatSo, "Other_Symbol": CatSo,
	"Z": CatZ, "Separator": CatZ,
	"Zs": CatZs, "Space_Separator": CatZs,
	"Zl": CatZl, "Line_Separator": CatZl,
	"Zp": CatZp, "Paragraph_Separator": CatZp,
	"C": CatC, "Other": CatC,
	"Cc": CatCc, "Control": CatCc, "cntrl": CatCc,
	"Cf": CatCf, "Format": CatCf,
	"Cs": CatCs, "Surrogate": CatCs,
	"Co": CatCo, "Private_Use": CatCo,
	"Cn": CatCn, "Unassigned": CatCn,
}

// LookupCategory resolves a general category value name or alias, such as
// "Lu", "Uppercase_Letter" or "punct". Names are case sensitive.
func LookupCategory(name string) (Category, bool) {
	c, ok := categoryNames[name]
	return c, ok
}

// String returns the two-letter names of all categories in the mask, joined by "|".
func (c Category) String() string {
	if c == 0 {
		return "none"
	}

	var names []string
	for m := c; m != 0; m &= m - 1 {
		names = append(names, shortNames[bits.TrailingZeros32(uint32(m))])
	}

	return strings.Join(names, "|")
}

// Oracle classifies code points into general categories.
type Oracle interface {
	// In reports whether r belongs to any of the categories in c.
	In(r rune, c Category) bool
}

// UnicodeOracle is an Oracle backed by the Unicode tables of the Go standard library.
type UnicodeOracle struct{}

var _ Oracle = UnicodeOracle{}

// categoryTables contains the standard library table of each single category bit.
// The unassigned category "Cn" has no table.
var categoryTables = func() [numCategories]*unicode.RangeTable {
	var t [numCategories]*unicode.RangeTable
	for i, name := range shortNames {
		t[i] = unicode.Categories[name]
	}
	return t
}()

// assignedTables contains all tables of assigned categories.
var assignedTables = func() []*unicode.RangeTable {
	var t []*unicode.RangeTable
	for _, rt := range categoryTables {
		if rt != nil {
			t = append(t, rt)
		}
	}
	return t
}()

func (UnicodeOracle) In(r rune, c Category) bool {
	for m := c; m != 0; m &= m - 1 {
		i := bits.TrailingZeros32(uint32(m))

		if rt := categoryTables[i]; rt != nil {
			if unicode.Is(rt, r) {
				return true
			}
		} else if !unicode.In(r, assignedTables...) {
			return true
		}
	}

	return false
}

// CategoryCache memoizes the normalized code point set of general categories.
// The set of a category is computed on first use by scanning all code points
// through the oracle.
//
// CategoryCache is not safe for concurrent use; the first use of each key must be
// serialized by the owner.
type CategoryCache struct {
	oracle  Oracle
	entries map[Category][]Range
	tables  map[Category]*Table
}

// NewCategoryCache creates an empty cache. If oracle is nil, UnicodeOracle is used.
func NewCategoryCache(oracle Oracle) *CategoryCache {
	if oracle == nil {
		oracle = UnicodeOracle{}
	}

	return &CategoryCache{
		oracle:  oracle,
		entries: make(map[Category][]Range),
		tables:  make(map[Category]*Table),
	}
}

// Get returns the normalized set of all code points belonging to c.
// The returned slice is shared and must not be modified.
func (c *CategoryCache) Get(cat Category) []Range {
	if rs, ok := c.entries[cat]; ok {
		return rs
	}

	rs := scan(c.oracle, cat)
	c.entries[cat] = rs
	return rs
}

// Table returns the encoded set of c for membership tests.
func (c *CategoryCache) Table(cat Category) *Table {
	if t, ok := c.tables[cat]; ok {
		return t
	}

	t := Encode(c.Get(cat))
	c.tables[cat] = t
	return t
}

// Len returns the number of cached categories.
func (c *CategoryCache) Len() int {
	return len(c.entries)
}

// scan collects the maximal runs of code points matching the category.
func scan(o Oracle, cat Category) []Range {
	var rs []Range

	for r := rune(0); r <= MaxRune; r++ {
		if !o.In(r, cat) {
			continue
		}

		if n := len(rs); n > 0 && rs[n-1].Hi+1 == r {
			rs[n-1].Hi = r
		} else {
			rs = append(rs, Range{Lo: r, Hi: r})
		}
	}

	return Normalize(rs)
}
