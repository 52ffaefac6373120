// Package taskdesk holds project-wide metadata.
package taskdesk

// Version is the current release version of taskdesk.
const Version = "0.1.0"
