// Package infra holds the adapters that connect the schedule pipeline to
// the outside: profile sources (s3, httpsource), schedule publishers (mqtt,
// kafka), metrics sinks, logging and error monitoring. Adapters depend only
// on interfaces defined under core.
package infra
