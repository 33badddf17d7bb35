// Package lock provides the named, TTL-bounded, non-blocking locks the tick
// scheduler uses to guarantee at most one concurrent executor per world.
// Failing to acquire is an expected outcome, not an error; a crashed
// holder's lock self-heals when its TTL expires.
package lock
