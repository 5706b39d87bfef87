// Package changelog extracts the release note of one version from a
// markdown changelog.
//
// This package implements:
//   - Markdown parsing into a goldmark document tree
//   - A single-pass scan that selects the blocks following a version heading
//   - Markdown serialization of the selected blocks, with GitHub mention and
//     issue links reduced to plain text
//   - Footer and heading assembly for the final release note
//   - Changelog file discovery and terminal preview formatting
//
// Extractor.Extract ties these together and is the entry point used by the
// release orchestration and the monorepo aggregator.
package changelog
