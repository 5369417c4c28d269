// Package ui provides terminal output helpers for sysdash's non-interactive
// commands: semantic colors and symbols, a spinner for blocking calls, and
// tables for one-shot reports.
//
// # Color Scheme
//
// Colors are ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Live data, healthy readings
//	ColorError     (red)    - Failures and critical readings
//	ColorWarning   (yellow) - Synthetic data, warning readings
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text, timing info
//
// Use DisableColors() for monochrome output, e.g. when stdout is not a terminal.
package ui
