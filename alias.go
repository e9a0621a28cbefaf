package datamodel

import "github.com/viant/tagly/format/text"

// AliasFunc derives input key from field name
type AliasFunc func(name string) string

// CaseFormatAlias returns alias function converting field names to supplied case format
func CaseFormatAlias(caseFormat text.CaseFormat) AliasFunc {
	return func(name string) string {
		if caseFormat == "" {
			return name
		}
		if name == "ID" {
			switch caseFormat {
			case text.CaseFormatLower, text.CaseFormatLowerCamel, text.CaseFormatLowerUnderscore:
				return "id"
			}
		}
		src := text.DetectCaseFormat(name)
		if !src.IsDefined() {
			src = text.CaseFormatUpperCamel
		}
		return src.Format(name, caseFormat)
	}
}
