package cmd

// Middleware wraps a command. The result is still a Command.
type Middleware func(Command) Command

// Apply applies middlewares in order; the first one ends up outermost.
func Apply(c Command, mws ...Middleware) Command {
	for i := len(mws) - 1; i >= 0; i-- {
		c = mws[i](c)
	}
	return c
}
