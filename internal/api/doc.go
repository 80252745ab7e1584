// Package api contains the HTTP handlers, request/response models, and
// error mapping for the task manager's REST surface. Handlers stay thin:
// they decode and validate input, delegate to the service layer, and map
// service errors to client-safe responses.
package api
