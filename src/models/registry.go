package models

// RegistryEntry is one row of the entity master table: a national trade
// identifier mapped to the canonical legal name and a compact formatted key.
// IdentifierCode is unique across the registry and stored with leading
// zeros stripped. Entries are created once and never deleted.
type RegistryEntry struct {
	IdentifierCode string `json:"identifier_code"`
	CanonicalName  string `json:"canonical_name"`
	FormattedName  string `json:"formatted_name"`
}
