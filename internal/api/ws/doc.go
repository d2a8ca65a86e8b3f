// Package ws streams derived timer progress to connected clients over
// WebSocket, fed by the progress poller's update callback.
package ws
