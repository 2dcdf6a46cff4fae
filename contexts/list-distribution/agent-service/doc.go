// Package agentservice manages the agents that receive distributed list
// records. Active agents ordered by creation time form the distribution order.
package agentservice
