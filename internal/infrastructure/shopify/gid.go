package shopify

import "strings"

// LegacyID extracts the numeric suffix from a Shopify global identifier,
// e.g. "gid://shopify/Customer/207119551" -> "207119551". Strings without a
// separator are returned unchanged.
func LegacyID(gid string) string {
	if i := strings.LastIndex(gid, "/"); i >= 0 {
		return gid[i+1:]
	}
	return gid
}
