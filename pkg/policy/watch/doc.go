// Package watch re-resolves policy sets when their files change on disk. It
// wraps fsnotify with debouncing so editor save bursts trigger a single
// re-resolution.
package watch
