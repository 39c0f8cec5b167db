// Package audiostore keeps the catalog of synthesized audio files.
//
// Files are written through a storage.Storage backend under generated
// names (translated_<32 hex>.<ext>). Open serves only names in the
// catalog, which makes arbitrary paths and guessed names NOT_FOUND. A
// background sweeper deletes files older than the retention window.
package audiostore
