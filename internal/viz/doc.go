// Package viz provides terminal output for orbit rendering runs.
//
//   - lipgloss styles for status lines and summaries
//   - [Progress]: a Bubble Tea view fed by a simulation observer, with a
//     Braille preview of the bodies and their trails
//   - [Canvas]: Braille-based pixel canvas used by the preview and by the
//     plot command
//   - colour themes that set both the frame colours and the terminal accent
package viz
