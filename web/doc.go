// Package web is the HTTP side of the server: it numbers requests, renders the template backed views and is the
// serving endpoint handed to plugins.
package web
