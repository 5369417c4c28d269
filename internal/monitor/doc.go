// Package monitor implements the terminal dashboard for a single host's
// system metrics.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: the latest snapshot and slot states copied from the store, the
//     derived chart series, the selected time range and process sort
//   - Update: processes keystrokes, window resizes, and store notifications
//   - View: renders the current state to a string
//
// The model never fetches. The poller writes to a store.Store; the model
// subscribes to store.Updates() and re-reads the store on each signal. The
// only path from the model back to the poller is the Refresher used by the
// refresh key.
//
// # Time Ranges
//
// Charts come from series.Derive over the store's retained history. Changing
// the range (t, 1-4) re-derives from that history and never triggers a fetch.
//
// # Layout
//
// The dashboard adapts to terminal width:
//
//	LayoutMinimal  (<80 cols)  - cards stack, graphs stacked
//	LayoutCompact  (80-120)    - two or three cards per row
//	LayoutStandard (120-160)   - all five cards on one row
//	LayoutWide     (160+)      - CPU and memory graphs side by side
//
// The process table takes whatever height is left.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	r           - Refresh status and processes now
//	t           - Cycle time range
//	1-4         - Hour, day, week, month
//	s           - Cycle process sort (CPU/MEM/PID/name)
//	j/k, ↑/↓    - Scroll the process table
//	?           - Toggle help overlay
package monitor
