package sntp

import "regexp"

var (
	ipv4Pattern = regexp.MustCompile(`^((25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)$`)

	// Full eight-group form only: no "::", no embedded IPv4, no zone.
	ipv6Pattern = regexp.MustCompile(`^([0-9a-fA-F]{1,4}:){7}[0-9a-fA-F]{1,4}$`)
)

// IsValidAddress reports whether text is a dotted-decimal IPv4 literal or an
// uncompressed eight-group IPv6 literal. Hostnames are rejected.
func IsValidAddress(text string) bool {
	return ipv4Pattern.MatchString(text) || ipv6Pattern.MatchString(text)
}
