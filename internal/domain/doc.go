// Package domain models the Cisadane basin stations and the identity
// resolution that maps scraped station labels onto them.
//
// # Data Sources
//
// Water levels come from a telemetry dashboard that lists PDA (pos duga air)
// posts as HTML list items. The post labels are typed by hand and drift over
// time:
//
//	"PDA Genteng", "Genteng (Bogor)", "pos genteng"  →  canonical "Genteng"
//
// Weather comes from BMKG's public forecast pages, one page per village
// (kelurahan/desa) administrative code such as "32.01.24.2001". BMKG only
// publishes a condition label ("Cerah", "Hujan Lebat", ...); the observation
// time is stamped locally at fetch time in WIB (UTC+7).
//
// # Identity Resolution
//
// Every canonical station carries a curated alias list. Aliases are folded by
// [Normalize] and loaded into an [AliasIndex]. A raw label resolves by exact
// key first, then by the longest alias key contained in the label. Labels that
// resolve to nothing are dropped by [Aggregate] and handed back to the caller
// for logging.
//
// Alias sets must be disjoint after normalization. A collision is a catalog
// error ([ErrCatalog]) and the index refuses to build.
//
// # Ordering
//
// Resolved observations are ordered by weight (upstream first) and then by
// canonical name. The zone view is always HULU, TENGAH, HILIR with catalog
// order inside each zone.
package domain
