// Package watch provides filesystem watching for ALFA sources with
// debounced change notification, used by the watch command to rebuild
// XACML output whenever a policy file changes.
package watch
