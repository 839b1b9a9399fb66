// Package preview serves the generated site over HTTP with live reload.
package preview
