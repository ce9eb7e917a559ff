// Package replay feeds a scripted queue of set operations to a target, one
// operation per tick. It is the driver used by the replay command and works
// against a local set or a remote node alike.
package replay
