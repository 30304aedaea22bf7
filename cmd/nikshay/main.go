// Package main is the entry point for the Ni-kshay content API. The default
// command serves HTTP; migrate and seed prepare a store.
package main

func main() {
	Execute()
}
