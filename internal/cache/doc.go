// Package cache coordinates the read-through cache that sits in front of
// the menu, submenu and dish queries.
//
// Reads go through ReadThrough or ReadListThrough: a hit is decoded and
// returned, a miss (or any cache failure) falls through to the loader and
// the loaded value is stored with the configured TTL. Writes commit to the
// database first and then call Coordinator.Invalidate with a Mutation; the
// Mutation is turned into a fixed set of keys by Scope, so invalidation
// never scans the keyspace. KeysMatching is used only by the admin purge.
//
// Keys:
//
//	entity:<kind>:<id>       one record (menu, submenu, dish)
//	list:<kind>:<parentId>   the children of a parent; list:menu:all for the root
//
// Menu and submenu records embed child counts, so a change to a dish purges
// the entity and list entries of every ancestor as well.
//
// Values are encoded by a Codec. The default CBORCodec writes a versioned
// header and the Go shape of the value, and refuses to decode into any
// other shape.
//
// Store implementations:
//   - redis.Client (internal/redis) for shared deployments
//   - LocalStore, an in-process store on patrickmn/go-cache
//   - BreakerStore, a circuit-breaker decorator for either of them
package cache
