package shared

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Attribute is one of the eight Symbaroum attributes
type Attribute string

// Attributes lists every attribute in sheet order
var Attributes = []Attribute{
	AttributeAccurate,
	AttributeCunning,
	AttributeDiscreet,
	AttributePersuasive,
	AttributeQuick,
	AttributeResolute,
	AttributeStrong,
	AttributeVigilant,
}

const (
	AttributeNone       Attribute = ""
	AttributeAccurate   Attribute = "accurate"
	AttributeCunning    Attribute = "cunning"
	AttributeDiscreet   Attribute = "discreet"
	AttributePersuasive Attribute = "persuasive"
	AttributeQuick      Attribute = "quick"
	AttributeResolute   Attribute = "resolute"
	AttributeStrong     Attribute = "strong"
	AttributeVigilant   Attribute = "vigilant"
)

// Valid reports whether a is one of the eight attributes
func (a Attribute) Valid() bool {
	for _, attr := range Attributes {
		if a == attr {
			return true
		}
	}
	return false
}

// Display returns the attribute name as printed on the sheet
func (a Attribute) Display() string {
	if a == AttributeNone {
		return "None"
	}
	return cases.Title(language.English).String(string(a))
}
