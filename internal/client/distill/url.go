package distill

import "regexp"

// InvalidURLMessage is shown for non-empty input that fails ValidateURL.
const InvalidURLMessage = "Invalid URL"

// urlPattern accepts an optional http(s) scheme, a domain name or IPv4
// address, then optional port, path, query and fragment.
var urlPattern = regexp.MustCompile(`(?i)^(https?://)?` +
	`((([a-z\d]([a-z\d-]*[a-z\d])*)\.)+[a-z]{2,}|((\d{1,3}\.){3}\d{1,3}))` +
	`(:\d+)?` +
	`(/[-a-z\d%_.~+]*)*` +
	`(\?[;&a-z\d%_.~+=-]*)?` +
	`(#[-a-z\d_]*)?$`)

func ValidateURL(s string) bool {
	return urlPattern.MatchString(s)
}

// InputError is the message to display under the URL field. Empty input
// shows nothing.
func InputError(s string) string {
	if s == "" || ValidateURL(s) {
		return ""
	}
	return InvalidURLMessage
}
