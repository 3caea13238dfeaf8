// Package shared provides glyphs and animation frames used by the dropdown
// components and the CLI.
package shared

// Icons - colorless Unicode glyphs that respect terminal themes.
const (
	IconDropdown = "▾" // Small down-pointing triangle - closed trigger
	IconDropup   = "▴" // Small up-pointing triangle - open trigger
	IconCheck    = "✓" // Check mark - selected option
	IconRequired = "*" // Asterisk - required field marker
	IconError    = "✗" // Ballot X - validation error

	IconMoreAbove = "↑" // Upwards arrow - rows hidden above
	IconMoreBelow = "↓" // Downwards arrow - rows hidden below
	IconSearch    = "⌕" // Telephone recorder - search field prompt
	IconCursor    = "▸" // Small right-pointing triangle - highlighted row
	IconEllipsis  = "…" // Horizontal ellipsis - truncated label
)
