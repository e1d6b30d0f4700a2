//go:build !unix

package main

// rotateOnHangup is a no-op where SIGHUP does not exist.
func rotateOnHangup() {}
