package inference

// handlePool hands out engine handles one request at a time. The channel
// holds the idle handles; a receive checks one out and the returned release
// func puts it back.
type handlePool struct {
	slots chan Engine
	n     int
}

func newHandlePool(handles []Engine) *handlePool {
	p := &handlePool{
		slots: make(chan Engine, len(handles)),
		n:     len(handles),
	}
	for _, h := range handles {
		p.slots <- h
	}
	return p
}

// acquire blocks until a handle is idle. Returns a release func to be deferred.
func (p *handlePool) acquire() (Engine, func()) {
	h := <-p.slots
	return h, func() { p.slots <- h }
}

// size is the number of handles owned by the pool.
func (p *handlePool) size() int { return p.n }
