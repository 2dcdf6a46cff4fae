// Package adminauthservice signs admins in and guards the admin API with
// bearer tokens.
package adminauthservice
