// Package tui hosts the request wizard in a terminal with bubbletea.
//
// The model renders the controller's View and forwards key presses to it.
// Catalog fetches and the final send run as tea commands so the terminal
// stays responsive; the controller drops listings for states the user has
// already left.
package tui
