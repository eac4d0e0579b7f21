package com

type LockCounter = lockCounter

func (c *lockCounter) Send(port ModulePort, b []byte) error {
	return c.send(port, b)
}

func (c *lockCounter) Busy() int {
	return c.n
}
