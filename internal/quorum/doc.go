// Package quorum fans a read out to several replicas in parallel and checks
// that enough of them answered.
package quorum
