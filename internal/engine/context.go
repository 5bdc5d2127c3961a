package engine

import "github.com/danieljhkim/hcpair/internal/addr"

// pairContext is the state shared between the slave and master phases of
// one attempt. Executor steps write it; later steps and the verdict read
// it. A fresh context is created per attempt.
type pairContext struct {
	// slaveAddr is the discovered slave address, from the slave's address
	// read or the master's inquiry scan.
	slaveAddr *addr.Address

	// bindOK and linkOK record whether the master's bind and link steps
	// acknowledged.
	bindOK bool
	linkOK bool
}
