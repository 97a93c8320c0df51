// Package ui holds the terminal styles used for command output.
package ui
