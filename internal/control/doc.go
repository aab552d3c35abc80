// Package control holds the user-editable dashboard parameters.
//
// State owns the chart kind, the sample count, the refresh event, and the
// display-only busy and message flags. Public setters route through the
// reactive loop, so by the time they return every subscriber (including the
// plot state's handlers) has been notified.
package control
