// Package types defines the entity types, the Store contract, and the
// standard errors for the taskdesk service. Entities are plain value types;
// all persistence goes through the Store interface, and all relationship
// bookkeeping on User reference sets goes through the service layer.
package types
