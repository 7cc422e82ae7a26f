// Package ui is the Bubble Tea front end of webiq.
//
// Layout, top to bottom:
//   - particle banner (decorative, optional)
//   - transcript viewport
//   - URL input: enter submits a scrape
//   - question input: enter sends a question once the chat socket is open
//   - status line and key help
//
// Long-running work (session start/restore, socket dial and reads) runs in
// tea.Cmds. Every async message carries the epoch it was started in; reset
// bumps the epoch so late results from a previous session are dropped.
package ui
