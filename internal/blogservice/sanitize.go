package blogservice

import "regexp"

var scriptTagPattern = regexp.MustCompile(`(?is)<\s*script[^>]*>(.*?)<\s*/\s*script\s*>`)

// StripScripts removes <script> blocks from content before it is displayed.
// Stored content is never rewritten.
func StripScripts(content string) string {
	return scriptTagPattern.ReplaceAllString(content, "")
}
