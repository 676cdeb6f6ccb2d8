package store

// Record is one persisted row of the update log: the durable form of an
// engine.Update, plus the wall-clock time it was received at, for
// diagnostics independent of the simulation's own timestamp.
type Record struct {
	Seq          int64
	TraceID      string
	PropertyName string
	Phase        int
	Timestamp    float64
	FrameID      uint64
	Payload      []byte
	ReceivedAt   float64
}
