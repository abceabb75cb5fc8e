// Package chaintest provides mocks and helpers that make testing handlers,
// decorators and extensions easier.
package chaintest
