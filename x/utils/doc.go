// Package utils provides decorators shared by every application built on
// top of aidchain: error recovery, savepoints, logging and metrics.
package utils
