// Package cmd is the transport-agnostic command core. A command has a name,
// a description and a Run method; adapters decide how it is registered and
// what they put in the invocation.
package cmd

import "context"

// Invocation is what an adapter hands to a command. Data carries the
// adapter's own context, e.g. a Discord interaction.
type Invocation struct {
	Args []string
	Data any
}

type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}
