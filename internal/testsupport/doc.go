// Package testsupport holds fixtures shared by package tests: temp-dir
// configs, a sample catalog, seeded stores and a scripted text generator.
package testsupport
