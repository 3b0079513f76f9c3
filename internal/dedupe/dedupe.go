package dedupe

// Package dedupe provides shared singleflight groups used to deduplicate
// concurrent expensive jobs. Using a centralized singleflight.Group
// ensures that only one job runs for a given key while other callers
// wait for the result.

import "golang.org/x/sync/singleflight"

// SetupGroup deduplicates circuit compilation and key setup requests,
// keyed by circuit name (e.g. "move-commit").
var SetupGroup singleflight.Group

// VerifyGroup deduplicates proof verification requests keyed by the
// proof hex, so a proof submitted twice concurrently is checked once.
var VerifyGroup singleflight.Group
