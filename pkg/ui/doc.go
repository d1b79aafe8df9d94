// Package ui renders console output for cardfetch: colored status lines, a
// per-card progress line, the final report box and an optional desktop
// notification. Progress and Notifier implement harvester.Observer.
package ui
