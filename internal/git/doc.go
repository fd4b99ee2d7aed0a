// Package git reports how git sees a vault file.
//
// A vault committed to git keeps every earlier version, including versions
// sealed under passphrases that were later rotated away. The status command
// uses this package to warn about that.
package git
