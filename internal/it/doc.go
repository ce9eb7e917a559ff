// Package it holds end-to-end tests that run the lwwset binary as separate
// processes. They skip when the binary has not been built.
package it
