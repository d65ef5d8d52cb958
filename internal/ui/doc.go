// Package ui renders gh transport activity as console progress messages.
package ui
