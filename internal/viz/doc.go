// Package viz renders finished flights in the terminal.
//
//   - [Summary]: lipgloss report of the run parameters and flight events
//   - [Plot]: asciigraph line charts of a trajectory column
//   - [Canvas]: Braille canvas used for the flight path
//   - [Replay]: Bubble Tea program that plays a recorded trajectory back
//
// # Replay keys
//
//	Space - Pause/Resume
//	[ ]   - Step back/forward one second
//	+ -   - Playback speed
//	R     - Restart
//	Q     - Quit
package viz
