// Package view renders the dashboard HTML.
//
// Views hold no state of their own: every render takes the values to show.
// ControlView draws the parameter form, the refresh button and the busy
// indicator. ChartView draws a chart description as inline SVG and carries the
// description itself as JSON for client-side renderers. Page places both into
// the sidebar / main layout.
package view
