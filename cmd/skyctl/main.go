// Package main is skyctl, the operator CLI for SkyFinder.
package main

func main() {
	Execute()
}
