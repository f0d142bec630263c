package deprecation

var (
	// deprecatedKeys maps config keys that are no longer read to their
	// replacement, if any
	deprecatedKeys = map[string]string{
		"servicenow_url": "instance_url",
		"incident_limit": "page_size",
		"shell":          "",
	}
)

// Deprecated returns true if the key is deprecated
func Deprecated(k string) bool {
	_, ok := deprecatedKeys[k]
	return ok
}

// Replacement returns the key that supersedes k, or "" if there is none
func Replacement(k string) string {
	return deprecatedKeys[k]
}
