// Package toolcache stores, finds, downloads and extracts tool releases.
//
// # Layout
//
// The cache uses the hosted runner layout so entries written by other setup
// steps are found and vice versa:
//
//	$RUNNER_TOOL_CACHE/<tool>/<version>/<arch>/
//	$RUNNER_TOOL_CACHE/<tool>/<version>/<arch>.complete
//
// An entry without its .complete marker is treated as absent.
//
// # Architecture
//
//   - Cache: Find / CacheDir over the layout above, serialized per tool by a lock file
//   - Downloader: HTTP download to a temp file with retry and a progress bar
//   - Extractor: .tar.xz extraction with path traversal protection
package toolcache
