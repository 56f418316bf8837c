// Package service contains the application-specific use cases. It
// orchestrates domain objects, the store interfaces and the notification
// dispatcher to fulfill API operations.
//
// Services receive dependencies through constructor injection and apply
// transactional boundaries where an operation spans multiple writes. They
// translate store sentinels into errors the API layer maps to HTTP status
// codes, and they own the ownership checks: a caller may only touch
// resources belonging to the authenticated user.
package service
