// Package listservice owns uploaded contact lists and their distribution
// across active agents.
//
// An upload is staged, parsed into header-keyed rows, normalized, validated as
// one batch and split into contiguous, near-equal blocks over the active-agent
// snapshot. Records and the batch event are persisted together and the event
// is later relayed from the outbox. Batch summaries are computed on read from
// cacheable per-agent aggregates.
package listservice
