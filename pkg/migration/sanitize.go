package migration

import (
	"regexp"
	"strings"

	"github.com/pseudomuto/sqlgate/pkg/consts"
)

var (
	whitespacePattern = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)
	disallowedPattern = regexp.MustCompile(`[^a-z0-9_]`)
)

// SanitizeName turns name into something safe to store as a migration name:
// it is lower-cased, runs of whitespace become a single underscore, anything
// outside [a-z0-9_] is removed and the result is cut to 100 characters.
//
// SanitizeName is idempotent. Leading and trailing underscores are kept.
//
// Examples:
//   - "name with spaces" -> "name_with_spaces"
//   - "User-Profile_Table!" -> "userprofile_table"
func SanitizeName(name string) string {
	name = strings.ToLower(name)
	name = whitespacePattern.ReplaceAllString(name, "_")
	name = disallowedPattern.ReplaceAllString(name, "")

	if len(name) > consts.MaxNameLength {
		name = name[:consts.MaxNameLength]
	}

	return name
}
