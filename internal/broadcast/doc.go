// Package broadcast maintains the live websocket subscriber set and
// keeps every open connection up to date with the latest trending set.
//
// All subscriber-set mutation is serialized through the hub's run loop:
// connects, disconnects, refresh completions, and the periodic timer
// are events on that single goroutine, so the set needs no locking.
// Each subscriber has a buffered FIFO send channel drained by its own
// write pump; a failed or stalled send evicts the subscriber.
//
// Every message to a subscriber has the shape
// {"type": "token_update", "data": [...]}.
package broadcast
