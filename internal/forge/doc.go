// Package forge defines the contract between commit collection and a hosted code forge.
//
// Transports such as githubapi (REST through go-github) and githubcli (the gh
// command) implement Client so collection logic can be exercised with stubs.
package forge
