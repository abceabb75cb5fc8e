/*
Package x contains the extensions an application is assembled from.

Extensions implement common functionality (handlers, decorators,
authenticators) for a single concern and are combined by the application
host into a processing stack. This package holds the helpers shared by all
of them, most notably the authentication primitives.
*/
package x
