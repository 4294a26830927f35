package search

// Well-known system fields present on every indexed content document.
// Query builders and value-set builders agree on these names.
const (
	// FieldID mirrors the document identifier as a queryable field.
	FieldID = "id"
	// FieldContentType holds the document's content-type alias.
	FieldContentType = "contentType"
	// FieldParentID holds the identifier of the document's parent.
	FieldParentID = "parentID"
	// FieldPath holds the slash-separated ancestor path, e.g. "/1052/1674".
	FieldPath = "path"
	// FieldCulture holds the lower-cased culture tag, or CultureNone for
	// invariant content.
	FieldCulture = "culture"
	// FieldPublished holds FlagYes for published documents, FlagNo otherwise.
	FieldPublished = "published"
	// FieldProtected holds FlagYes for access-restricted documents.
	FieldProtected = "protected"
	// FieldProtectedAccess holds the access tokens gating a restricted
	// document: MemberTokenPrefix + member key, RoleTokenPrefix + role.
	FieldProtectedAccess = "protectedAccess"
)

const (
	// FlagYes marks boolean document state fields as set.
	FlagYes = "y"
	// FlagNo marks boolean document state fields as unset.
	FlagNo = "n"
	// CultureNone tags invariant (culture-less) content.
	CultureNone = "none"
	// MemberTokenPrefix prefixes member-key access tokens.
	MemberTokenPrefix = "u:"
	// RoleTokenPrefix prefixes role access tokens.
	RoleTokenPrefix = "r:"
)

// SystemSchema returns the schema of the well-known system fields.
// Index schemas merge this with their content-specific fields.
func SystemSchema() Schema {
	return NewSchema(
		Field{Name: FieldID, Type: FieldTypeStringRaw},
		Field{Name: FieldContentType, Type: FieldTypeStringRaw},
		Field{Name: FieldParentID, Type: FieldTypeStringRaw},
		Field{Name: FieldPath, Type: FieldTypeStringRaw},
		Field{Name: FieldCulture, Type: FieldTypeStringRaw},
		Field{Name: FieldPublished, Type: FieldTypeStringRaw},
		Field{Name: FieldProtected, Type: FieldTypeStringRaw},
		Field{Name: FieldProtectedAccess, Type: FieldTypeStringRaw},
	)
}
