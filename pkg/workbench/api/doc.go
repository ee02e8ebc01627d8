// Package api implements model.Backend over the workbench REST API.
//
// Every call sends the CSRF token and the session cookie the server expects, and a
// request id taken from the serialized request it belongs to. Responses follow the
// server conventions: 204 carries no body, other 2xx carry JSON, anything else is a
// *StatusError.
package api
